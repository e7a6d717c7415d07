package bearimy

import (
	"fmt"
	"iter"
	"math"
	"slices"
)

// Curve is a closed piecewise cubic curve derived from a [ControlPolygon].
// Segment i covers the parameter range [i, i+1), so the domain of a curve
// built from n control points is [0, n). The domain always starts at 0 and
// evaluating at its end wraps back to the start.
//
// Curves are immutable. The zero Curve has an empty domain.
type Curve struct {
	segments []CubicBez
}

// BuildCurve converts the polygon, read as the control points of a uniform
// cubic B-spline, into a cyclic curve of Bézier segments. It fails with
// [ErrInsufficientPoints] if the polygon has fewer than [MinControlPoints]
// points.
func BuildCurve(p ControlPolygon) (Curve, error) {
	n := p.Len()
	if n < MinControlPoints {
		return Curve{}, insufficientPoints(n)
	}
	segs := make([]CubicBez, n)
	for i := range n {
		segs[i] = bsplineSpan(
			p.At(i),
			p.At(p.Wrap(i+1)),
			p.At(p.Wrap(i+2)),
			p.At(p.Wrap(i+3)),
		)
	}
	return Curve{segments: segs}, nil
}

// bsplineSpan returns the Bézier form of the uniform cubic B-spline span
// controlled by p0..p3.
func bsplineSpan(p0, p1, p2, p3 Point) CubicBez {
	a, b, c, d := Vec2(p0), Vec2(p1), Vec2(p2), Vec2(p3)
	return CubicBez{
		P0: Point(a.Add(b.Mul(4)).Add(c).Div(6)),
		P1: Point(b.Mul(2).Add(c).Div(3)),
		P2: Point(b.Add(c.Mul(2)).Div(3)),
		P3: Point(b.Add(c.Mul(4)).Add(d).Div(6)),
	}
}

// Domain returns the parameter range of the curve. start is always 0.
func (c Curve) Domain() (start, end float64) {
	return 0, c.DomainEnd()
}

func (c Curve) DomainEnd() float64 { return float64(len(c.segments)) }

// Len returns the number of segments.
func (c Curve) Len() int { return len(c.segments) }

func (c Curve) Segment(i int) CubicBez { return c.segments[i] }

// Segments returns a copy of the curve's Bézier segments.
func (c Curve) Segments() []CubicBez { return slices.Clone(c.segments) }

// Wrap reduces t modulo the domain end into [0, end). It returns NaN for an
// empty curve or a non-finite t.
func (c Curve) Wrap(t float64) float64 {
	end := c.DomainEnd()
	if end == 0 || math.IsInf(t, 0) {
		return math.NaN()
	}
	t = math.Mod(t, end)
	if t < 0 {
		t += end
	}
	if t >= end {
		// -tiny + end rounds to end
		t = 0
	}
	return t
}

// Sample evaluates the curve at t, which must lie in [0, end]. Evaluating at
// end yields the start point.
func (c Curve) Sample(t float64) (Point, error) {
	end := c.DomainEnd()
	if end == 0 {
		return Point{}, ErrEmptyCurve
	}
	if !(t >= 0 && t <= end) {
		return Point{}, fmt.Errorf("%w: %g not in [0, %g]", ErrOutsideDomain, t, end)
	}
	i, local := c.locate(t)
	return c.segments[i].Eval(local), nil
}

// Eval evaluates the curve at t after reducing it modulo the domain. It
// returns the zero Point for an empty curve.
func (c Curve) Eval(t float64) Point {
	t = c.Wrap(t)
	if math.IsNaN(t) {
		return Point{}
	}
	i, local := c.locate(t)
	return c.segments[i].Eval(local)
}

func (c Curve) locate(t float64) (int, float64) {
	i := int(t)
	if i >= len(c.segments) {
		return 0, 0
	}
	return i, t - float64(i)
}

// Positions yields subdivisions+1 points evenly spaced in parameter over the
// whole domain. The last point coincides with the first.
func (c Curve) Positions(subdivisions int) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if len(c.segments) == 0 || subdivisions <= 0 {
			return
		}
		end := c.DomainEnd()
		for i := range subdivisions + 1 {
			t := end * float64(i) / float64(subdivisions)
			if i == subdivisions {
				t = 0
			}
			if !yield(c.Eval(t)) {
				return
			}
		}
	}
}

// Nearest returns the parameter of the point on the curve nearest to pt and
// the distance to it. ok is false for an empty curve.
func (c Curve) Nearest(pt Point, accuracy float64) (t, dist float64, ok bool) {
	var best option[float64]
	for i, seg := range c.segments {
		if best.isSet && distSqToRect(pt, seg.ControlBounds()) > best.value {
			continue
		}
		dSq, local := seg.Nearest(pt, accuracy)
		if !best.isSet || dSq < best.value {
			best.set(dSq)
			t = float64(i) + local
		}
	}
	if !best.isSet {
		return 0, math.Inf(1), false
	}
	return c.Wrap(t), math.Sqrt(best.value), true
}

// Bounds returns a box enclosing the whole curve.
func (c Curve) Bounds() Rect {
	var r Rect
	for i, seg := range c.segments {
		if i == 0 {
			r = seg.ControlBounds()
			continue
		}
		r = r.Union(seg.ControlBounds())
	}
	return r
}

// distSqToRect returns the squared distance from pt to the nearest point
// of r, zero if pt is inside.
func distSqToRect(pt Point, r Rect) float64 {
	r = r.Abs()
	dx := max(r.X0-pt.X, 0, pt.X-r.X1)
	dy := max(r.Y0-pt.Y, 0, pt.Y-r.Y1)
	return dx*dx + dy*dy
}
