package tags

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/Sorrow446/go-mp4tag"
	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
)

// inspectValueWidth bounds the display width of one inspected value.
const inspectValueWidth = 80

// Entry is one name/value line of an inspection.
type Entry struct {
	Name  string
	Value string
}

// Inspection is a read-only dump of everything a file's tag container holds.
type Inspection struct {
	Path     string
	Format   string  // container format as reported by the generic reader, empty if none
	FileType string  // file type as reported by the generic reader
	Summary  []Entry // normalized fields
	Raw      []Entry // container-specific frames or atoms
	Audio    *AudioInfo
}

// Inspect reads path without modifying it. A file without any tags yields
// an Inspection with empty Summary and Raw. Audio is nil when no stream
// properties could be read.
func Inspect(path string) (*Inspection, error) {
	in := &Inspection{Path: path}

	if err := in.readSummary(); err != nil {
		return nil, err
	}

	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ExtMP3:
		in.Raw, err = id3RawFrames(path)
	case ExtMP4, ExtM4A:
		in.Raw, err = mp4RawAtoms(path)
	}
	if err != nil {
		return nil, err
	}

	if info, err := ReadAudioInfo(path); err == nil {
		in.Audio = info
	}
	return in, nil
}

func (in *Inspection) readSummary() error {
	f, err := os.Open(in.Path)
	if err != nil {
		return err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if errors.Is(err, tag.ErrNoTagsFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read tags: %w", err)
	}

	in.Format = string(m.Format())
	in.FileType = string(m.FileType())

	track, totalTracks := m.Track()
	disc, totalDiscs := m.Disc()

	add := func(name, value string) {
		if value != "" {
			in.Summary = append(in.Summary, Entry{Name: name, Value: truncateValue(value)})
		}
	}
	add("Title", m.Title())
	add("Artist", m.Artist())
	add("Album", m.Album())
	add("Album artist", m.AlbumArtist())
	add("Genre", m.Genre())
	if m.Year() > 0 {
		add("Year", strconv.Itoa(m.Year()))
	}
	add("Track", numberPair(track, totalTracks))
	add("Disc", numberPair(disc, totalDiscs))
	add("Comment", m.Comment())
	return nil
}

func id3RawFrames(path string) ([]Entry, error) {
	has, err := hasID3v2Header(path)
	if err != nil || !has {
		return nil, err
	}

	id3tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer id3tag.Close()

	all := id3tag.AllFrames()
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	var out []Entry
	for _, id := range ids {
		for _, f := range all[id] {
			out = append(out, Entry{Name: id, Value: truncateValue(describeFrame(f))})
		}
	}
	return out, nil
}

func describeFrame(f id3v2.Framer) string {
	switch fr := f.(type) {
	case id3v2.TextFrame:
		return strings.ReplaceAll(strings.TrimRight(fr.Text, "\x00"), "\x00", " / ")
	case id3v2.CommentFrame:
		return fmt.Sprintf("[%s] %q %s", fr.Language, fr.Description, fr.Text)
	case id3v2.UserDefinedTextFrame:
		return fr.Description + "=" + fr.Value
	case id3v2.PictureFrame:
		return fmt.Sprintf("%s picture, %s", fr.MimeType, humanize.Bytes(uint64(len(fr.Picture))))
	default:
		return fmt.Sprintf("<%s binary>", humanize.Bytes(uint64(f.Size())))
	}
}

func mp4RawAtoms(path string) ([]Entry, error) {
	mp4, err := mp4tag.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer mp4.Close()

	t, err := mp4.Read()
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var out []Entry
	add := func(name, value string) {
		if value != "" {
			out = append(out, Entry{Name: name, Value: truncateValue(value)})
		}
	}
	add("©nam", t.Title)
	add("©ART", t.Artist)
	add("©alb", t.Album)
	add("aART", t.AlbumArtist)
	add("©gen", t.CustomGenre)
	add("©day", t.Date)
	add("©cmt", t.Comment)
	add("trkn", numberPair(int(t.TrackNumber), int(t.TrackTotal)))
	add("disk", numberPair(int(t.DiscNumber), int(t.DiscTotal)))

	custom := make([]string, 0, len(t.Custom))
	for k := range t.Custom {
		custom = append(custom, k)
	}
	slices.Sort(custom)
	for _, k := range custom {
		add("----:"+k, t.Custom[k])
	}
	for _, p := range t.Pictures {
		add("covr", humanize.Bytes(uint64(len(p.Data))))
	}
	return out, nil
}

func numberPair(n, total int) string {
	switch {
	case n <= 0:
		return ""
	case total > 0:
		return strconv.Itoa(n) + "/" + strconv.Itoa(total)
	default:
		return strconv.Itoa(n)
	}
}

func truncateValue(s string) string {
	return runewidth.Truncate(s, inspectValueWidth, "…")
}
