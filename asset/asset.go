// Package asset resolves asset paths, such as a map's background image, to
// handles that identify them independently of how they were spelled.
package asset

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Waridley/bearimy"
	"github.com/google/uuid"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrNotFound    = errors.New("asset: not found")
	ErrOutsideRoot = errors.New("asset: path escapes asset root")
	ErrNotAnImage  = errors.New("asset: not a supported image")
)

// namespace seeds the name-based ids of asset handles.
var namespace = uuid.MustParse("5c0b8a4e-6f1d-4d3b-9a8e-0b7e4f2d9c31")

// Handle identifies a resolved asset. Two resolutions of the same cleaned
// path yield equal handles.
type Handle struct {
	ID   uuid.UUID
	Path string

	// Format, Width and Height are only set when the resolver probes
	// images.
	Format string
	Width  int
	Height int
}

func (h Handle) AssetPath() string { return h.Path }

func (h Handle) String() string {
	if h.Format == "" {
		return fmt.Sprintf("%s (%s)", h.Path, h.ID)
	}
	return fmt.Sprintf("%s (%s, %s %dx%d)", h.Path, h.ID, h.Format, h.Width, h.Height)
}

// IDFor returns the id every handle for path carries.
func IDFor(path string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(filepath.ToSlash(filepath.Clean(path))))
}

// FileResolver resolves paths relative to a root directory. Resolved handles
// are cached, so a file is only checked once. It is safe for concurrent use.
type FileResolver struct {
	root  fs.FS
	probe bool

	mu    sync.Mutex
	cache map[string]Handle
}

// NewFileResolver returns a resolver rooted at dir. If probeImages is set,
// only files with a decodable image header resolve.
func NewFileResolver(dir string, probeImages bool) *FileResolver {
	return NewFSResolver(os.DirFS(dir), probeImages)
}

// NewFSResolver is like [NewFileResolver] but reads from fsys.
func NewFSResolver(fsys fs.FS, probeImages bool) *FileResolver {
	return &FileResolver{root: fsys, probe: probeImages, cache: make(map[string]Handle)}
}

// Resolve implements mapfile.Resolver.
func (r *FileResolver) Resolve(path string) (bearimy.AssetHandle, error) {
	h, err := r.ResolveHandle(path)
	if err != nil {
		return nil, err
	}
	return h, nil
}

// ResolveHandle is like Resolve but returns the concrete handle.
func (r *FileResolver) ResolveHandle(path string) (Handle, error) {
	name := filepath.ToSlash(filepath.Clean(path))
	if !fs.ValidPath(name) || strings.HasPrefix(name, "../") || name == ".." {
		return Handle{}, fmt.Errorf("%w: %q", ErrOutsideRoot, path)
	}

	r.mu.Lock()
	h, ok := r.cache[name]
	r.mu.Unlock()
	if ok {
		return h, nil
	}

	h, err := r.resolve(name)
	if err != nil {
		return Handle{}, err
	}
	r.mu.Lock()
	r.cache[name] = h
	r.mu.Unlock()
	bearimy.Logger().Debug().Str("path", name).Stringer("id", h.ID).Msg("resolved asset")
	return h, nil
}

func (r *FileResolver) resolve(name string) (Handle, error) {
	info, err := fs.Stat(r.root, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Handle{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Handle{}, fmt.Errorf("asset: %w", err)
	}
	if info.IsDir() {
		return Handle{}, fmt.Errorf("%w: %s is a directory", ErrNotFound, name)
	}

	h := Handle{ID: IDFor(name), Path: name}
	if !r.probe {
		return h, nil
	}
	f, err := r.root.Open(name)
	if err != nil {
		return Handle{}, fmt.Errorf("asset: %w", err)
	}
	defer f.Close()
	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return Handle{}, fmt.Errorf("%w: %s: %s", ErrNotAnImage, name, err)
	}
	h.Format, h.Width, h.Height = format, cfg.Width, cfg.Height
	return h, nil
}
