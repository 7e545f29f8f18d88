package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// DefaultWidth is the table width used when the terminal width is unknown.
const DefaultWidth = 100

const statusWidth = len("UNCHANGED")

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	subtleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	updatedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22c55e"))
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	unmatchedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f1a208"))
)

// RenderOptions tune the summary table.
type RenderOptions struct {
	Root    string        // paths are shown relative to Root when possible
	Width   int           // total line width, DefaultWidth when zero
	Elapsed time.Duration // shown on the totals line when non-zero
	DryRun  bool
}

// Render writes the summary table followed by a totals line.
func Render(w io.Writer, r *RunReport, opts RenderOptions) error {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	pathWidth := max(width-statusWidth-2, 10)

	var sb strings.Builder
	heading := "Summary"
	if opts.DryRun {
		heading += " (dry run, nothing written)"
	}
	sb.WriteString(titleStyle.Render(heading))
	sb.WriteString("\n")
	sb.WriteString(pad("Status", statusWidth))
	sb.WriteString("  ")
	sb.WriteString("File")
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", min(width, statusWidth+2+pathWidth)))
	sb.WriteString("\n")

	if r.Len() == 0 {
		sb.WriteString(subtleStyle.Render("No matching files"))
		sb.WriteString("\n")
	}

	for _, e := range r.Summary() {
		sb.WriteString(statusStyle(e.Status).Render(pad(e.Status.String(), statusWidth)))
		sb.WriteString("  ")
		sb.WriteString(truncateLeft(displayPath(opts.Root, e.Path), pathWidth))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render(Totals(r.Counts(), opts.Elapsed)))
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// Totals formats the one-line run summary.
func Totals(c Counts, elapsed time.Duration) string {
	noun := "files"
	if c.Total() == 1 {
		noun = "file"
	}
	line := fmt.Sprintf("%s %s: %s updated, %s unchanged, %s unmatched",
		humanize.Comma(int64(c.Total())), noun,
		humanize.Comma(int64(c.Updated)),
		humanize.Comma(int64(c.Unchanged)),
		humanize.Comma(int64(c.Unmatched)))
	if elapsed > 0 {
		line += " in " + elapsed.Round(time.Millisecond).String()
	}
	return line
}

func statusStyle(s Status) lipgloss.Style {
	switch s {
	case Updated:
		return updatedStyle
	case Unchanged:
		return unchangedStyle
	default:
		return unmatchedStyle
	}
}

func displayPath(root, path string) string {
	if root == "" {
		return sanitize(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return sanitize(path)
	}
	return sanitize(rel)
}

// truncateLeft keeps the end of s, which is the informative part of a path.
func truncateLeft(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	w := 1 // ellipsis
	i := len(runes)
	for i > 0 {
		rw := runewidth.RuneWidth(runes[i-1])
		if w+rw > maxWidth {
			break
		}
		w += rw
		i--
	}
	return "…" + string(runes[i:])
}

func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// sanitize removes control characters (except tab) and invalid UTF-8 bytes
// so a bad file name cannot break the table.
func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size <= 1 {
			i++
			continue
		}
		if r != '\t' && unicode.IsControl(r) {
			i += size
			continue
		}
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}
