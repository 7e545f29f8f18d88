// Package tags exposes one small read/compare/write contract over the tag
// containers of course media files: ID3v2 for MP3, the TagLib property map
// for MP4 and Vorbis comments for FLAC.
package tags

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// File extensions with a dedicated adapter.
const (
	ExtMP3  = ".mp3"
	ExtFLAC = ".flac"
	ExtM4A  = ".m4a"
	ExtMP4  = ".mp4"
)

// id3Magic is the magic bytes for ID3v2 header detection.
const id3Magic = "ID3"

// ErrNoContainer reports that a file carries no tag container yet. It is an
// ordinary state: EnsureContainer creates an empty one.
var ErrNoContainer = errors.New("no tag container")

// ErrUnsupportedFormat is returned by Open for extensions without an adapter.
var ErrUnsupportedFormat = errors.New("unsupported format")

// Key is one entry of the fixed tag vocabulary.
type Key string

const (
	Title        Key = "title"
	Artist       Key = "artist"
	Genre        Key = "genre"
	Album        Key = "album"
	TrackNumber  Key = "tracknumber"
	DiscNumber   Key = "discnumber"
	DiscSubtitle Key = "discsubtitle"
)

// Keys lists the vocabulary in the order fields are compared and written.
var Keys = []Key{Title, Artist, Album, Genre, TrackNumber, DiscNumber, DiscSubtitle}

// Record maps tag keys to target values. Keys absent from a record are left
// untouched on the file.
type Record map[Key]string

// Sorted returns the keys present in r, in Keys order.
func (r Record) Sorted() []Key {
	out := make([]Key, 0, len(r))
	for _, k := range Keys {
		if _, ok := r[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

// Comment is one entry of the multi-valued comment tag.
type Comment struct {
	Language    string
	Description string
	Text        string
}

// Kind classifies a file by the adapter family that handles it.
type Kind int

const (
	KindUnknown Kind = iota
	KindAudio
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindAudio:
		return "audio"
	case KindVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Classify returns the kind of name according to the configured extension
// lists. Extensions are expected lowercase with a leading dot.
func Classify(name string, audioExts, videoExts []string) Kind {
	ext := strings.ToLower(filepath.Ext(name))
	switch {
	case slices.Contains(audioExts, ext):
		return KindAudio
	case slices.Contains(videoExts, ext):
		return KindVideo
	default:
		return KindUnknown
	}
}

// Adapter is the tag container of one open file.
//
// EnsureContainer must be called before any other method. It reports whether
// an empty container had to be created.
type Adapter interface {
	EnsureContainer() (created bool, err error)
	Field(key Key) (string, bool)
	SetField(key Key, value string)
	Comments() []Comment
	ReplaceComments(entries []Comment)
	Persist() error
	Close() error
}

// Options tune adapter behaviour.
type Options struct {
	// ID3Version is the ID3v2 major version written to MP3 files (3 or 4).
	ID3Version int
}

// Open returns the adapter for path, chosen by extension. The file itself is
// not read until EnsureContainer.
func Open(path string, opts Options) (Adapter, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ExtMP3:
		return newMP3Adapter(path, opts.ID3Version), nil
	case ExtMP4, ExtM4A:
		return newMP4Adapter(path), nil
	case ExtFLAC:
		return newFLACAdapter(path), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// firstValue returns the first of possibly several NUL-separated values.
func firstValue(s string) string {
	s = strings.TrimRight(s, "\x00")
	if i := strings.IndexByte(s, 0); i >= 0 {
		return s[:i]
	}
	return s
}
