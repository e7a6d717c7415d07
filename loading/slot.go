package loading

import (
	"context"
	"sync/atomic"

	"github.com/Waridley/bearimy"
)

// Slot holds the map currently in use. Swapping is atomic: readers see
// either the old map or the new one, never a partly loaded one.
//
// The Slot only guards which map is current. The map itself still has a
// single owner that edits it.
type Slot struct {
	cur atomic.Pointer[bearimy.Map]
}

// NewSlot returns a slot holding m, which may be nil.
func NewSlot(m *bearimy.Map) *Slot {
	s := new(Slot)
	s.cur.Store(m)
	return s
}

// Current returns the current map.
func (s *Slot) Current() *bearimy.Map { return s.cur.Load() }

// Swap makes m current and returns the previous map.
func (s *Slot) Swap(m *bearimy.Map) *bearimy.Map { return s.cur.Swap(m) }

// Install makes the request's map current if the request has resolved. It
// reports whether the map was swapped in. A failed request returns its error
// and leaves the current map in place, as does one still in flight.
func (s *Slot) Install(r *Request) (bool, error) {
	state, m, err := r.Poll()
	switch state {
	case Resolved:
		s.cur.Store(m)
		return true, nil
	case Failed:
		return false, err
	default:
		return false, nil
	}
}

// InstallWait waits for r and installs its map.
func (s *Slot) InstallWait(ctx context.Context, r *Request) error {
	m, err := r.Wait(ctx)
	if err != nil {
		return err
	}
	s.cur.Store(m)
	return nil
}
