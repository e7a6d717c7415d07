package bearimy

import (
	"fmt"
	"math"
)

// HandleKind tags what a [Handle] refers to.
type HandleKind uint8

const (
	NoHandle HandleKind = iota
	ControlPointHandle
	MarkerHandle
)

func (k HandleKind) String() string {
	switch k {
	case NoHandle:
		return "none"
	case ControlPointHandle:
		return "control point"
	case MarkerHandle:
		return "marker"
	default:
		return fmt.Sprintf("HandleKind(%d)", uint8(k))
	}
}

// Handle refers to something a pointer can grab: a control point or an
// auxiliary marker, by index. Handles are only valid until the next
// structural edit and are never persisted.
type Handle struct {
	Kind  HandleKind
	Index int
}

// ControlPoint returns a handle to control point i.
func ControlPoint(i int) Handle { return Handle{Kind: ControlPointHandle, Index: i} }

// Marker returns a handle to marker i.
func Marker(i int) Handle { return Handle{Kind: MarkerHandle, Index: i} }

// IsNone reports whether h refers to nothing.
func (h Handle) IsNone() bool { return h.Kind == NoHandle }

func (h Handle) String() string {
	if h.Kind == NoHandle {
		return "none"
	}
	return fmt.Sprintf("%s %d", h.Kind, h.Index)
}

var noHandleDistance = math.Inf(1)

// None is the handle that refers to nothing.
var None = Handle{Kind: NoHandle, Index: -1}
