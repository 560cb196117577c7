package media

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStorage(t *testing.T) *Storage {
	t.Helper()

	s, err := NewStorage(t.TempDir(), "images")
	require.NoError(t, err)
	return s
}

func TestNewStorage_CreatesDirectory(t *testing.T) {
	base := t.TempDir()
	_, err := NewStorage(base, "audio")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(base, "media", "audio"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewStorage_RejectsEmptyPaths(t *testing.T) {
	_, err := NewStorage("", "images")
	assert.Error(t, err)

	_, err = NewStorage(t.TempDir(), "")
	assert.Error(t, err)
}

func TestStorage_SaveGetDelete(t *testing.T) {
	s := setupStorage(t)

	data := []byte("payload")
	require.NoError(t, s.Save("img-1.jpg", data))
	assert.True(t, s.Exists("img-1.jpg"))

	got, err := s.Get("img-1.jpg")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, s.Delete("img-1.jpg"))
	assert.False(t, s.Exists("img-1.jpg"))

	_, err = s.Get("img-1.jpg")
	assert.Error(t, err)
}

func TestStorage_DeleteMissingIsNoop(t *testing.T) {
	s := setupStorage(t)
	assert.NoError(t, s.Delete("never-existed.jpg"))
}

func TestStorage_SaveRejectsEmpty(t *testing.T) {
	s := setupStorage(t)
	assert.Error(t, s.Save("", []byte("x")))
	assert.Error(t, s.Save("img-1.jpg", nil))
}

func TestStorage_RemoveAll(t *testing.T) {
	s := setupStorage(t)

	require.NoError(t, s.Save("a.jpg", []byte("a")))
	require.NoError(t, s.Save("b.jpg", []byte("b")))

	require.NoError(t, s.RemoveAll())
	assert.False(t, s.Exists("a.jpg"))
	assert.False(t, s.Exists("b.jpg"))

	// Directory is usable again after clearing.
	assert.NoError(t, s.Save("c.jpg", []byte("c")))
}

func TestStorage_Hash(t *testing.T) {
	s := setupStorage(t)
	require.NoError(t, s.Save("a.jpg", []byte("a")))

	h1, err := s.Hash("a.jpg")
	require.NoError(t, err)
	assert.Len(t, h1, 64)

	h2, err := s.Hash("a.jpg")
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}
