package tags

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFLACWithID3Support(t *testing.T) {
	dir := t.TempDir()

	prefixed := filepath.Join(dir, "prefixed.flac")
	data := append(id3Prefix(0x00, 10), []byte("fLaC\x00\x00\x00\x00")...)
	require.NoError(t, os.WriteFile(prefixed, data, 0o600))

	f, id3Size, err := parseFLACWithID3Support(prefixed)
	require.NoError(t, err)
	assert.Nil(t, f)
	assert.Equal(t, int64(20), id3Size)

	noMarker := filepath.Join(dir, "nomarker.flac")
	require.NoError(t, os.WriteFile(noMarker, append(id3Prefix(0x00, 10), "RIFF"...), 0o600))
	_, _, err = parseFLACWithID3Support(noMarker)
	assert.ErrorContains(t, err, "no fLaC marker")

	garbage := filepath.Join(dir, "garbage.flac")
	require.NoError(t, os.WriteFile(garbage, []byte("not a flac file at all"), 0o600))
	_, id3Size, err = parseFLACWithID3Support(garbage)
	assert.Error(t, err)
	assert.Zero(t, id3Size)
}

func TestStripID3v2Header(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefixed.flac")
	data := append(id3Prefix(0x00, 10), "fLaC"...)
	require.NoError(t, os.WriteFile(path, data, 0o640))

	require.NoError(t, stripID3v2Header(path, 20))

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("fLaC"), got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())

	assert.Error(t, stripID3v2Header(path, 4), "file no larger than the header")
}
