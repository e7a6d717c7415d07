package loading

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/Waridley/bearimy"
	"github.com/Waridley/bearimy/mapfile"
	"golang.org/x/sync/singleflight"
)

// Loader decodes map files in the background. Concurrent loads of the same
// path share one read and decode, and every request receives its own copy
// of the result.
type Loader struct {
	resolver mapfile.Resolver
	read     func(path string) ([]byte, error)
	tasks    *Tasks
	group    singleflight.Group
}

type Option func(*Loader)

// WithFS makes the loader read map files from fsys instead of the operating
// system's file system.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) {
		l.read = func(path string) ([]byte, error) { return fs.ReadFile(fsys, path) }
	}
}

// WithTasks registers every load as a pending task in tasks until it
// completes.
func WithTasks(tasks *Tasks) Option {
	return func(l *Loader) { l.tasks = tasks }
}

// NewLoader returns a loader that resolves map backgrounds through r, which
// may be nil.
func NewLoader(r mapfile.Resolver, opts ...Option) *Loader {
	l := &Loader{resolver: r, read: os.ReadFile}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// TaskName returns the name under which a load of path is tracked.
func TaskName(path string) string { return "map:" + path }

// Load starts loading the map at path and returns immediately.
func (l *Loader) Load(path string) *Request {
	req := newRequest(path)
	var finish func()
	if l.tasks != nil {
		finish = l.tasks.Start(TaskName(path))
	}
	go func() {
		if finish != nil {
			defer finish()
		}
		v, err, shared := l.group.Do(path, func() (any, error) {
			return l.decode(path)
		})
		if err != nil {
			bearimy.Logger().Warn().Err(err).Str("path", path).Msg("map load failed")
			req.complete(nil, err)
			return
		}
		bearimy.Logger().Debug().Str("path", path).Bool("shared", shared).Msg("map loaded")
		req.complete(v.(*bearimy.Map).Clone(), nil)
	}()
	return req
}

func (l *Loader) decode(path string) (*bearimy.Map, error) {
	data, err := l.read(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	m, err := mapfile.Load(data, l.resolver)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return m, nil
}
