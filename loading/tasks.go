package loading

import (
	"maps"
	"slices"
	"sync"
)

// Tasks is a set of named operations that must finish before something can
// proceed, such as entering a level once its map and assets are loaded.
// Names may be started more than once and are pending until finished as
// often. It is safe for concurrent use.
type Tasks struct {
	mu      sync.Mutex
	pending map[string]int
	idle    chan struct{}
}

// Start marks name as pending and returns a function that finishes it. The
// returned function may be called more than once; only the first call
// counts.
func (t *Tasks) Start(name string) (finish func()) {
	t.mu.Lock()
	if t.pending == nil {
		t.pending = make(map[string]int)
	}
	if len(t.pending) == 0 {
		t.idle = make(chan struct{})
	}
	t.pending[name]++
	t.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { t.Finish(name) }) }
}

// Finish marks one start of name as complete. Finishing a name that is not
// pending does nothing.
func (t *Tasks) Finish(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n, ok := t.pending[name]
	if !ok {
		return
	}
	if n > 1 {
		t.pending[name] = n - 1
		return
	}
	delete(t.pending, name)
	if len(t.pending) == 0 && t.idle != nil {
		close(t.idle)
		t.idle = nil
	}
}

// Done reports whether no task is pending.
func (t *Tasks) Done() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.pending) == 0
}

// Pending returns the names of pending tasks in sorted order.
func (t *Tasks) Pending() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Sorted(maps.Keys(t.pending))
}

// Idle returns a channel that is closed once no task is pending. If nothing
// is pending the channel is already closed.
func (t *Tasks) Idle() <-chan struct{} {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.idle == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return t.idle
}
