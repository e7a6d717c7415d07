package bearimy

import (
	"iter"
	"slices"
)

// MinControlPoints is the smallest number of control points a cyclic curve
// can be built from.
const MinControlPoints = 2

// ControlPolygon is the ordered, implicitly closed list of control points
// that defines a map's shape. The edge from the last point back to the first
// always exists.
//
// A ControlPolygon is never modified in place. Edits produce a new polygon,
// so copies may share storage freely. Indices are only stable until the next
// structural edit.
type ControlPolygon struct {
	points []Point
}

// NewControlPolygon returns a polygon over a copy of points. It returns
// [ErrInsufficientPoints] if fewer than [MinControlPoints] are given.
func NewControlPolygon(points []Point) (ControlPolygon, error) {
	if len(points) < MinControlPoints {
		return ControlPolygon{}, insufficientPoints(len(points))
	}
	return ControlPolygon{points: slices.Clone(points)}, nil
}

func (p ControlPolygon) Len() int { return len(p.points) }

func (p ControlPolygon) At(i int) Point { return p.points[i] }

// Points returns a copy of the control points.
func (p ControlPolygon) Points() []Point { return slices.Clone(p.points) }

// All iterates over the control points in order.
func (p ControlPolygon) All() iter.Seq2[int, Point] {
	return slices.All(p.points)
}

// Wrap reduces any integer, including negative ones, to a valid index.
// All cyclic index arithmetic in this package goes through Wrap.
func (p ControlPolygon) Wrap(i int) int {
	n := len(p.points)
	if n == 0 {
		return 0
	}
	return ((i % n) + n) % n
}

// Next returns the index following i, wrapping from the last point to the
// first.
func (p ControlPolygon) Next(i int) int { return p.Wrap(i + 1) }

// Prev returns the index preceding i.
func (p ControlPolygon) Prev(i int) int { return p.Wrap(i - 1) }

// Segment returns edge i, which runs from point i to point Next(i).
func (p ControlPolygon) Segment(i int) Line {
	return Line{p.points[i], p.points[p.Next(i)]}
}

// Segments iterates over all edges, including the closing one.
func (p ControlPolygon) Segments() iter.Seq2[int, Line] {
	return func(yield func(int, Line) bool) {
		for i := range p.points {
			if !yield(i, p.Segment(i)) {
				return
			}
		}
	}
}

// Equal reports whether both polygons have identical points in identical
// order.
func (p ControlPolygon) Equal(o ControlPolygon) bool {
	return slices.Equal(p.points, o.points)
}

func (p ControlPolygon) inBounds(i int) bool {
	return i >= 0 && i < len(p.points)
}

func (p ControlPolygon) inserted(i int, pt Point) ControlPolygon {
	return ControlPolygon{points: slices.Insert(slices.Clone(p.points), i, pt)}
}

func (p ControlPolygon) removed(i int) ControlPolygon {
	return ControlPolygon{points: slices.Delete(slices.Clone(p.points), i, i+1)}
}

func (p ControlPolygon) replaced(i int, pt Point) ControlPolygon {
	pts := slices.Clone(p.points)
	pts[i] = pt
	return ControlPolygon{points: pts}
}

// rotated shifts every point offset places towards the end of the list,
// wrapping around. Negative offsets shift towards the start.
func (p ControlPolygon) rotated(offset int) ControlPolygon {
	n := len(p.points)
	k := p.Wrap(offset)
	out := make([]Point, 0, n)
	out = append(out, p.points[n-k:]...)
	out = append(out, p.points[:n-k]...)
	return ControlPolygon{points: out}
}

func (p ControlPolygon) transformed(aff Affine) ControlPolygon {
	return ControlPolygon{points: transformAll(p.points, aff)}
}
