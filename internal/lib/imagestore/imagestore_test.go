package imagestore

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type failingReader struct {
	data []byte
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if !r.read {
		r.read = true
		return copy(p, r.data), nil
	}
	return 0, errors.New("connection reset")
}

func newTestStore(t *testing.T) (*Store, afero.Fs) {
	t.Helper()
	fsys := afero.NewMemMapFs()
	return New(fsys, "public/images", "/images"), fsys
}

func TestSave(t *testing.T) {
	store, fsys := newTestStore(t)

	content := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0xAB}, 10000)...)
	res, err := store.Save("spicy-bean-tacos.png", bytes.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, "spicy-bean-tacos.png", res.Name)
	assert.Equal(t, "/images/spicy-bean-tacos.png", res.PublicPath)
	assert.Equal(t, int64(len(content)), res.Size)
	assert.Equal(t, "image/png", res.ContentType)

	stored, err := afero.ReadFile(fsys, "public/images/spicy-bean-tacos.png")
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestSave_SmallFile(t *testing.T) {
	store, _ := newTestStore(t)

	res, err := store.Save("note.txt", strings.NewReader("hi"))
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Size)
	assert.True(t, strings.HasPrefix(res.ContentType, "text/plain"))
}

func TestSave_NeverOverwrites(t *testing.T) {
	store, fsys := newTestStore(t)

	_, err := store.Save("tacos.jpg", strings.NewReader("first"))
	require.NoError(t, err)

	_, err = store.Save("tacos.jpg", strings.NewReader("second"))
	assert.True(t, errors.Is(err, ErrExists))

	stored, err := afero.ReadFile(fsys, "public/images/tacos.jpg")
	require.NoError(t, err)
	assert.Equal(t, "first", string(stored))
}

func TestSave_FailedWriteLeavesNoFile(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Save("tacos.jpg", io.MultiReader(bytes.NewReader(make([]byte, 4000)), &failingReader{data: []byte("x")}))
	require.Error(t, err)

	exists, err := store.Exists("tacos.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSave_RejectsPaths(t *testing.T) {
	store, _ := newTestStore(t)

	for _, name := range []string{"", "../escape.jpg", "nested/tacos.jpg"} {
		_, err := store.Save(name, strings.NewReader("x"))
		assert.Error(t, err, name)
	}
}

func TestEnsureDir_Idempotent(t *testing.T) {
	store, fsys := newTestStore(t)

	require.NoError(t, store.EnsureDir())
	require.NoError(t, store.EnsureDir())

	isDir, err := afero.IsDir(fsys, "public/images")
	require.NoError(t, err)
	assert.True(t, isDir)
}

func TestRemove(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Save("tacos.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, store.Remove("tacos.jpg"))
	require.NoError(t, store.Remove("tacos.jpg"), "removing a missing image is not an error")

	exists, err := store.Exists("tacos.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestModTime(t *testing.T) {
	store, fsys := newTestStore(t)

	_, err := store.Save("tacos.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	written := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, fsys.Chtimes("public/images/tacos.jpg", written, written))

	got, err := store.ModTime("tacos.jpg")
	require.NoError(t, err)
	assert.True(t, written.Equal(got))

	_, err = store.ModTime("missing.jpg")
	assert.Error(t, err)
}
