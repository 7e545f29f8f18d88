package tags

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

var vorbisKeys = map[Key]string{
	Title:        flacvorbis.FIELD_TITLE,
	Artist:       flacvorbis.FIELD_ARTIST,
	Album:        flacvorbis.FIELD_ALBUM,
	Genre:        flacvorbis.FIELD_GENRE,
	TrackNumber:  flacvorbis.FIELD_TRACKNUMBER,
	DiscNumber:   "DISCNUMBER",
	DiscSubtitle: "DISCSUBTITLE",
}

const vorbisComment = "COMMENT"

// flacAdapter keeps fields and comments in the VORBIS_COMMENT block.
type flacAdapter struct {
	path   string
	file   *flac.File
	cmts   *flacvorbis.MetaDataBlockVorbisComment
	cmtIdx int
}

func newFLACAdapter(path string) *flacAdapter {
	return &flacAdapter{path: path, cmtIdx: -1}
}

// tryOpen parses the file and its comment block. It returns the parsed file
// together with ErrNoContainer when no VORBIS_COMMENT block exists.
func (a *flacAdapter) tryOpen() (*flac.File, error) {
	f, id3Size, err := parseFLACWithID3Support(a.path)
	if err != nil {
		return nil, fmt.Errorf("parse file: %w", err)
	}
	if id3Size > 0 {
		if err := stripID3v2Header(a.path, id3Size); err != nil {
			return nil, fmt.Errorf("strip ID3v2 header: %w", err)
		}
		f, err = flac.ParseFile(a.path)
		if err != nil {
			return nil, fmt.Errorf("parse file after ID3 strip: %w", err)
		}
	}

	for i, meta := range f.Meta {
		if meta.Type != flac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*meta)
		if err != nil {
			return nil, fmt.Errorf("parse vorbis comment: %w", err)
		}
		a.cmts = cmts
		a.cmtIdx = i
		return f, nil
	}
	return f, ErrNoContainer
}

func (a *flacAdapter) EnsureContainer() (bool, error) {
	f, err := a.tryOpen()
	created := false
	if errors.Is(err, ErrNoContainer) {
		a.cmts = flacvorbis.New()
		a.cmtIdx = -1
		created = true
		err = nil
	}
	if err != nil {
		return false, err
	}
	a.file = f
	return created, nil
}

// values returns every value stored under name, matched case-insensitively.
func (a *flacAdapter) values(name string) []string {
	var out []string
	for _, entry := range a.cmts.Comments {
		k, v, ok := strings.Cut(entry, "=")
		if ok && strings.EqualFold(k, name) {
			out = append(out, v)
		}
	}
	return out
}

func (a *flacAdapter) remove(name string) {
	kept := a.cmts.Comments[:0]
	for _, entry := range a.cmts.Comments {
		k, _, _ := strings.Cut(entry, "=")
		if !strings.EqualFold(k, name) {
			kept = append(kept, entry)
		}
	}
	a.cmts.Comments = kept
}

func (a *flacAdapter) Field(key Key) (string, bool) {
	name, ok := vorbisKeys[key]
	if !ok {
		return "", false
	}
	vals := a.values(name)
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

func (a *flacAdapter) SetField(key Key, value string) {
	name, ok := vorbisKeys[key]
	if !ok {
		return
	}
	a.remove(name)
	a.cmts.Comments = append(a.cmts.Comments, name+"="+value)
}

func (a *flacAdapter) Comments() []Comment {
	vals := a.values(vorbisComment)
	out := make([]Comment, 0, len(vals))
	for _, v := range vals {
		out = append(out, Comment{Language: "eng", Text: v})
	}
	return out
}

func (a *flacAdapter) ReplaceComments(entries []Comment) {
	a.remove(vorbisComment)
	for _, c := range entries {
		a.cmts.Comments = append(a.cmts.Comments, vorbisComment+"="+c.Text)
	}
}

func (a *flacAdapter) Persist() error {
	block := a.cmts.Marshal()
	if a.cmtIdx >= 0 {
		a.file.Meta[a.cmtIdx] = &block
	} else {
		a.file.Meta = append(a.file.Meta, &block)
		a.cmtIdx = len(a.file.Meta) - 1
	}
	if err := a.file.Save(a.path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

func (a *flacAdapter) Close() error { return nil }

// parseFLACWithID3Support parses a FLAC file, handling ID3v2 headers if present.
// Returns the parsed FLAC file, the size of any ID3v2 header found, and any error.
func parseFLACWithID3Support(path string) (*flac.File, int64, error) {
	// First try normal parsing
	f, err := flac.ParseFile(path)
	if err == nil {
		return f, 0, nil
	}

	// Check if error is due to ID3v2 header
	file, openErr := os.Open(path)
	if openErr != nil {
		return nil, 0, err // Return original error
	}
	defer file.Close()

	// Check for ID3v2 header (starts with "ID3")
	header := make([]byte, 10)
	if _, readErr := io.ReadFull(file, header); readErr != nil {
		return nil, 0, err // Return original error
	}
	if !bytes.Equal(header[:3], []byte(id3Magic)) {
		return nil, 0, err // Not an ID3v2 header, return original error
	}

	// Calculate ID3v2 header size
	// Size is stored in bytes 6-9 as syncsafe integer (7 bits per byte)
	id3Size := int64(10) // Base header size
	id3Size += int64(header[6]&0x7f)<<21 |
		int64(header[7]&0x7f)<<14 |
		int64(header[8]&0x7f)<<7 |
		int64(header[9]&0x7f)

	// Verify FLAC magic after ID3v2 header
	if _, seekErr := file.Seek(id3Size, io.SeekStart); seekErr != nil {
		return nil, 0, err
	}
	flacMagic := make([]byte, 4)
	if _, readErr := io.ReadFull(file, flacMagic); readErr != nil {
		return nil, 0, err
	}
	if !bytes.Equal(flacMagic, []byte("fLaC")) {
		return nil, 0, errors.New("no fLaC marker found after ID3v2 header")
	}

	return nil, id3Size, nil
}

// stripID3v2Header removes ID3v2 header from a file by rewriting it.
func stripID3v2Header(path string, id3Size int64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Verify we have enough data
	if int64(len(data)) <= id3Size {
		return errors.New("file too small to strip ID3v2 header")
	}

	// Write back without the ID3v2 header, preserving original permissions
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data[id3Size:], info.Mode().Perm())
}
