package asset

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func encoded(t *testing.T, encode func(*bytes.Buffer, image.Image) error, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func testFS(t *testing.T) fstest.MapFS {
	return fstest.MapFS{
		"maps/bg.png": {Data: encoded(t, func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) }, 32, 16)},
		"maps/bg.bmp": {Data: encoded(t, func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) }, 8, 4)},
		"maps/bg.tif": {Data: encoded(t, func(b *bytes.Buffer, m image.Image) error { return tiff.Encode(b, m, nil) }, 3, 5)},
		"maps/notes.txt": {Data: []byte("not an image")},
	}
}

func TestResolveProbesImages(t *testing.T) {
	r := NewFSResolver(testFS(t), true)

	tests := []struct {
		path   string
		format string
		w, h   int
	}{
		{"maps/bg.png", "png", 32, 16},
		{"maps/bg.bmp", "bmp", 8, 4},
		{"maps/bg.tif", "tiff", 3, 5},
	}
	for _, tt := range tests {
		h, err := r.ResolveHandle(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.format, h.Format)
		assert.Equal(t, tt.w, h.Width)
		assert.Equal(t, tt.h, h.Height)
		assert.Equal(t, tt.path, h.AssetPath())
	}

	_, err := r.Resolve("maps/notes.txt")
	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestResolveWithoutProbe(t *testing.T) {
	r := NewFSResolver(testFS(t), false)
	h, err := r.ResolveHandle("maps/notes.txt")
	require.NoError(t, err)
	assert.Empty(t, h.Format)
}

func TestResolveErrors(t *testing.T) {
	r := NewFSResolver(testFS(t), true)

	_, err := r.Resolve("maps/missing.png")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.Resolve("maps")
	assert.ErrorIs(t, err, ErrNotFound)

	for _, p := range []string{"../secret.png", "maps/../../x.png", "/etc/passwd"} {
		_, err = r.Resolve(p)
		assert.ErrorIs(t, err, ErrOutsideRoot, p)
	}
}

func TestHandleIDsAreStable(t *testing.T) {
	a := NewFSResolver(testFS(t), true)
	b := NewFSResolver(testFS(t), false)

	ha, err := a.ResolveHandle("maps/bg.png")
	require.NoError(t, err)
	hb, err := b.ResolveHandle("maps/./bg.png")
	require.NoError(t, err)
	assert.Equal(t, ha.ID, hb.ID)
	assert.Equal(t, IDFor("maps/bg.png"), ha.ID)

	other, err := a.ResolveHandle("maps/bg.bmp")
	require.NoError(t, err)
	assert.NotEqual(t, ha.ID, other.ID)
}

func TestFileResolverConcurrent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bg.png"), testFS(t)["maps/bg.png"].Data, 0o644))
	r := NewFileResolver(dir, true)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h, err := r.Resolve("bg.png")
			if assert.NoError(t, err) {
				assert.Equal(t, "bg.png", h.AssetPath())
			}
		}()
	}
	wg.Wait()
}
