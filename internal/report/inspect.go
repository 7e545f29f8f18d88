package report

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"

	"github.com/llehouerou/mbtag/internal/tags"
)

var nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5fafd7"))

// RenderInspection writes one file's tag dump: a heading with the path and
// container format, the normalized fields, the raw frames, then the stream
// properties.
func RenderInspection(w io.Writer, in *tags.Inspection, root string) error {
	var sb strings.Builder

	heading := displayPath(root, in.Path)
	format := in.Format
	if format == "" {
		format = "no tags"
	}
	sb.WriteString(titleStyle.Render(heading))
	sb.WriteString(" ")
	sb.WriteString(subtleStyle.Render("(" + format + ")"))
	sb.WriteString("\n")

	writeEntries(&sb, in.Summary)
	if len(in.Raw) > 0 {
		sb.WriteString(subtleStyle.Render("  raw"))
		sb.WriteString("\n")
		writeEntries(&sb, in.Raw)
	}
	if in.Audio != nil {
		sb.WriteString(subtleStyle.Render("  audio"))
		sb.WriteString("\n")
		writeEntries(&sb, audioEntries(in.Audio))
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeEntries(sb *strings.Builder, entries []tags.Entry) {
	width := 0
	for _, e := range entries {
		width = max(width, runewidth.StringWidth(e.Name))
	}
	for _, e := range entries {
		sb.WriteString("  ")
		sb.WriteString(nameStyle.Render(pad(e.Name, width)))
		sb.WriteString("  ")
		sb.WriteString(sanitize(e.Value))
		sb.WriteString("\n")
	}
}

func audioEntries(a *tags.AudioInfo) []tags.Entry {
	out := []tags.Entry{
		{Name: "Format", Value: a.Format},
		{Name: "Length", Value: a.Duration.Round(time.Millisecond).String()},
		{Name: "Sample rate", Value: humanize.Comma(int64(a.SampleRate)) + " Hz"},
	}
	if a.BitDepth > 0 {
		out = append(out, tags.Entry{Name: "Bit depth", Value: strconv.Itoa(a.BitDepth) + " bit"})
	}
	if a.Channels > 0 {
		out = append(out, tags.Entry{Name: "Channels", Value: strconv.Itoa(a.Channels)})
	}
	if a.Bitrate > 0 {
		out = append(out, tags.Entry{Name: "Bitrate", Value: strconv.Itoa(a.Bitrate) + " kbps"})
	}
	return out
}
