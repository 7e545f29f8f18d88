package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// copyTestMP4 copies the untagged AAC fixture into a temp dir under name.
func copyTestMP4(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "clip.mp4"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func TestMP4_FieldsAndComments(t *testing.T) {
	path := copyTestMP4(t, "VIDEO FEMALE - Hello.mp4")

	a, err := Open(path, Options{})
	require.NoError(t, err)
	created, err := a.EnsureContainer()
	require.NoError(t, err)
	assert.False(t, created, "MP4 containers always exist")

	_, ok := a.Field(Title)
	assert.False(t, ok)
	assert.Empty(t, a.Comments())

	a.SetField(Title, "你好 - 女")
	a.SetField(Album, "mbP3L24")
	a.SetField(Artist, "Mandarin Blueprint")
	require.NoError(t, a.Persist())
	a.ReplaceComments([]Comment{{Language: "eng", Text: "The Mandarin Blueprint Method"}})
	require.NoError(t, a.Persist())
	require.NoError(t, a.Close())

	b, err := Open(path, Options{})
	require.NoError(t, err)
	_, err = b.EnsureContainer()
	require.NoError(t, err)

	title, ok := b.Field(Title)
	assert.True(t, ok)
	assert.Equal(t, "你好 - 女", title)
	album, _ := b.Field(Album)
	assert.Equal(t, "mbP3L24", album)
	assert.Equal(t, []Comment{{Language: "eng", Text: "The Mandarin Blueprint Method"}}, b.Comments())
}

func TestMP4_ReplaceCommentsKeepsFields(t *testing.T) {
	path := copyTestMP4(t, "clip.mp4")

	a, err := Open(path, Options{})
	require.NoError(t, err)
	_, err = a.EnsureContainer()
	require.NoError(t, err)
	a.SetField(Title, "Hello")
	require.NoError(t, a.Persist())
	a.ReplaceComments([]Comment{{Language: "eng", Text: "first"}})
	require.NoError(t, a.Persist())
	a.ReplaceComments([]Comment{{Language: "eng", Text: "second"}})
	require.NoError(t, a.Persist())

	b, err := Open(path, Options{})
	require.NoError(t, err)
	_, err = b.EnsureContainer()
	require.NoError(t, err)
	title, _ := b.Field(Title)
	assert.Equal(t, "Hello", title)
	assert.Equal(t, []Comment{{Language: "eng", Text: "second"}}, b.Comments())
}

func TestInspect_MP4(t *testing.T) {
	path := copyTestMP4(t, "clip.mp4")

	a, err := Open(path, Options{})
	require.NoError(t, err)
	_, err = a.EnsureContainer()
	require.NoError(t, err)
	a.SetField(Title, "Hello")
	a.ReplaceComments([]Comment{{Language: "eng", Text: "The Mandarin Blueprint Method"}})
	require.NoError(t, a.Persist())

	in, err := Inspect(path)
	require.NoError(t, err)
	assert.Contains(t, in.Raw, Entry{Name: "©nam", Value: "Hello"})
	assert.Contains(t, in.Raw, Entry{Name: "©cmt", Value: "The Mandarin Blueprint Method"})

	require.NotNil(t, in.Audio)
	assert.Equal(t, 44100, in.Audio.SampleRate)
}
