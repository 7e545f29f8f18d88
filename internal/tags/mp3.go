package tags

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// id3Frames maps the vocabulary onto ID3v2 text frames.
var id3Frames = map[Key]string{
	Title:        "TIT2",
	Artist:       "TPE1",
	Album:        "TALB",
	Genre:        "TCON",
	TrackNumber:  "TRCK",
	DiscNumber:   "TPOS",
	DiscSubtitle: "TSST",
}

const id3CommentFrame = "COMM"

// mp3Adapter is the audio adapter: ID3v2 tags on MP3 files.
type mp3Adapter struct {
	path     string
	version  byte
	encoding id3v2.Encoding
	tag      *id3v2.Tag
}

func newMP3Adapter(path string, version int) *mp3Adapter {
	a := &mp3Adapter{path: path, version: 3, encoding: id3v2.EncodingUTF16}
	if version == 4 {
		a.version = 4
		a.encoding = id3v2.EncodingUTF8
	}
	return a
}

// tryOpen opens the existing ID3v2 tag, or returns ErrNoContainer when the
// file has none.
func (a *mp3Adapter) tryOpen() (*id3v2.Tag, error) {
	has, err := hasID3v2Header(a.path)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, ErrNoContainer
	}

	tag, err := id3v2.Open(a.path, id3v2.Options{Parse: true})
	if errors.Is(err, id3v2.ErrUnsupportedVersion) {
		// ID3v2.2 or older tags - strip them and start from an empty container
		if stripErr := stripID3v2Tag(a.path); stripErr != nil {
			return nil, fmt.Errorf("strip unsupported ID3v2.2 tag: %w", stripErr)
		}
		return nil, ErrNoContainer
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	return tag, nil
}

func (a *mp3Adapter) EnsureContainer() (bool, error) {
	tag, err := a.tryOpen()
	created := false
	if errors.Is(err, ErrNoContainer) {
		// Opening a file without a header yields an empty tag bound to it
		tag, err = id3v2.Open(a.path, id3v2.Options{Parse: true})
		if err != nil {
			return false, fmt.Errorf("open file: %w", err)
		}
		created = true
	}
	if err != nil {
		return false, err
	}

	tag.SetVersion(a.version)
	tag.SetDefaultEncoding(a.encoding)
	a.tag = tag
	return created, nil
}

func (a *mp3Adapter) Field(key Key) (string, bool) {
	id, ok := id3Frames[key]
	if !ok {
		return "", false
	}
	frames := a.tag.GetFrames(id)
	if len(frames) == 0 {
		return "", false
	}
	tf, ok := frames[0].(id3v2.TextFrame)
	if !ok {
		return "", false
	}
	return firstValue(tf.Text), true
}

func (a *mp3Adapter) SetField(key Key, value string) {
	if id, ok := id3Frames[key]; ok {
		a.tag.AddTextFrame(id, a.encoding, value)
	}
}

func (a *mp3Adapter) Comments() []Comment {
	frames := a.tag.GetFrames(id3CommentFrame)
	out := make([]Comment, 0, len(frames))
	for _, f := range frames {
		if cf, ok := f.(id3v2.CommentFrame); ok {
			out = append(out, Comment{
				Language:    cf.Language,
				Description: cf.Description,
				Text:        strings.TrimRight(cf.Text, "\x00"),
			})
		}
	}
	return out
}

func (a *mp3Adapter) ReplaceComments(entries []Comment) {
	a.tag.DeleteFrames(id3CommentFrame)
	for _, c := range entries {
		a.tag.AddCommentFrame(id3v2.CommentFrame{
			Encoding:    a.encoding,
			Language:    c.Language,
			Description: c.Description,
			Text:        c.Text,
		})
	}
}

func (a *mp3Adapter) Persist() error {
	if err := a.tag.Save(); err != nil {
		return fmt.Errorf("save tags: %w", err)
	}
	return nil
}

func (a *mp3Adapter) Close() error {
	if a.tag == nil {
		return nil
	}
	return a.tag.Close()
}

// hasID3v2Header reports whether the file starts with an ID3v2 header.
func hasID3v2Header(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	magic := make([]byte, len(id3Magic))
	if _, err := io.ReadFull(f, magic); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return false, nil
		}
		return false, err
	}
	return string(magic) == id3Magic, nil
}

// stripID3v2Tag removes ID3v2 tags from an MP3 file.
// This is used to handle ID3v2.2 tags which the id3v2 library doesn't support.
func stripID3v2Tag(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	// Check for ID3v2 header (must have at least 10 bytes for header)
	if len(data) < 10 || string(data[:3]) != id3Magic {
		return nil // No ID3v2 tag to strip
	}

	// Parse tag size from bytes 6-9 (synchsafe integer: each byte uses only 7 bits)
	size := int(data[6])<<21 | int(data[7])<<14 | int(data[8])<<7 | int(data[9])
	tagSize := size + 10 // Add 10-byte header

	// Check for footer flag (bit 4 of flags byte) - ID3v2.4 only
	if data[5]&0x10 != 0 {
		tagSize += 10
	}

	if tagSize >= len(data) {
		return fmt.Errorf("ID3v2 tag size (%d) exceeds file size (%d)", tagSize, len(data))
	}

	// Preserve original file permissions
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	// Write audio data without the ID3v2 tag
	if err := os.WriteFile(path, data[tagSize:], info.Mode()); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}
