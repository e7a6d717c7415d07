// Package loading loads maps in the background and hands them over to their
// owner once they are complete.
//
// A [Loader] turns a path into a [Request]. The request moves from
// [Requested] to either [Resolved] or [Failed] exactly once. A [Slot] holds
// the map currently in use and only replaces it with a resolved one, so the
// previous map stays usable while a load is in flight or after it fails.
package loading

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/Waridley/bearimy"
)

// State is the lifecycle state of a [Request].
type State int32

const (
	Requested State = iota
	Resolved
	Failed
)

func (s State) String() string {
	switch s {
	case Requested:
		return "requested"
	case Resolved:
		return "resolved"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Request is a pending map load. Its methods are safe for concurrent use.
type Request struct {
	path  string
	state atomic.Int32
	done  chan struct{}

	// written once before done is closed
	m   *bearimy.Map
	err error
}

func newRequest(path string) *Request {
	return &Request{path: path, done: make(chan struct{})}
}

func (r *Request) complete(m *bearimy.Map, err error) {
	r.m, r.err = m, err
	if err != nil {
		r.state.Store(int32(Failed))
	} else {
		r.state.Store(int32(Resolved))
	}
	close(r.done)
}

func (r *Request) Path() string { return r.path }

func (r *Request) State() State { return State(r.state.Load()) }

// Done is closed once the request is resolved or failed.
func (r *Request) Done() <-chan struct{} { return r.done }

// Poll reports the request's state without blocking. The map is only set
// when the state is [Resolved] and the error only when it is [Failed].
func (r *Request) Poll() (State, *bearimy.Map, error) {
	select {
	case <-r.done:
		return r.State(), r.m, r.err
	default:
		return Requested, nil, nil
	}
}

// Wait blocks until the request completes or ctx is done.
func (r *Request) Wait(ctx context.Context) (*bearimy.Map, error) {
	select {
	case <-r.done:
		return r.m, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
