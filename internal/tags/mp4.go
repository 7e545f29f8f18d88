package tags

import (
	"fmt"
	"maps"

	"go.senan.xyz/taglib"
)

// TagLib property names without an exported constant in the binding.
const (
	taglibDiscSubtitle = "DISCSUBTITLE"
	taglibComment      = "COMMENT"
)

var taglibKeys = map[Key]string{
	Title:        taglib.Title,
	Artist:       taglib.Artist,
	Album:        taglib.Album,
	Genre:        taglib.Genre,
	TrackNumber:  taglib.TrackNumber,
	DiscNumber:   taglib.DiscNumber,
	DiscSubtitle: taglibDiscSubtitle,
}

// mp4Comment is the only comment shape an MP4 container can hold: the
// ©cmt atom carries neither language nor description.
func mp4Comment(text string) Comment {
	return Comment{Language: "eng", Text: text}
}

// taglibTags is a TagLib property map.
type taglibTags map[string][]string

// mp4Adapter is the video adapter. MP4 files always carry a tag container,
// so EnsureContainer never creates one. Writes are buffered and merged into
// the file on Persist; properties not set are left as they are.
type mp4Adapter struct {
	path    string
	current taglibTags
	pending map[string][]string
}

func newMP4Adapter(path string) *mp4Adapter {
	return &mp4Adapter{path: path, pending: map[string][]string{}}
}

func (a *mp4Adapter) EnsureContainer() (bool, error) {
	raw, err := taglib.ReadTags(a.path)
	if err != nil {
		return false, fmt.Errorf("read tags: %w", err)
	}
	a.current = taglibTags(raw)
	return false, nil
}

func (a *mp4Adapter) lookup(prop string) ([]string, bool) {
	if v, ok := a.pending[prop]; ok {
		return v, true
	}
	v, ok := a.current[prop]
	return v, ok
}

func (a *mp4Adapter) Field(key Key) (string, bool) {
	prop, ok := taglibKeys[key]
	if !ok {
		return "", false
	}
	values, ok := a.lookup(prop)
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[0], true
}

func (a *mp4Adapter) SetField(key Key, value string) {
	if prop, ok := taglibKeys[key]; ok {
		a.pending[prop] = []string{value}
	}
}

func (a *mp4Adapter) Comments() []Comment {
	values, _ := a.lookup(taglibComment)
	out := make([]Comment, 0, len(values))
	for _, v := range values {
		out = append(out, mp4Comment(v))
	}
	return out
}

func (a *mp4Adapter) ReplaceComments(entries []Comment) {
	texts := make([]string, 0, len(entries))
	for _, c := range entries {
		texts = append(texts, c.Text)
	}
	a.pending[taglibComment] = texts
}

func (a *mp4Adapter) Persist() error {
	if len(a.pending) == 0 {
		return nil
	}
	if err := taglib.WriteTags(a.path, a.pending, 0); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	if a.current == nil {
		a.current = taglibTags{}
	}
	maps.Copy(a.current, a.pending)
	a.pending = map[string][]string{}
	return nil
}

func (a *mp4Adapter) Close() error { return nil }
