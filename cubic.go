package bearimy

import (
	"iter"
	"math"
)

// CubicBez is a cubic Bézier segment. A [Curve] is a cyclic sequence of
// these.
type CubicBez struct {
	P0 Point
	P1 Point
	P2 Point
	P3 Point
}

func (c CubicBez) IsInf() bool {
	return c.P0.IsInf() || c.P1.IsInf() || c.P2.IsInf() || c.P3.IsInf()
}

func (c CubicBez) IsNaN() bool {
	return c.P0.IsNaN() || c.P1.IsNaN() || c.P2.IsNaN() || c.P3.IsNaN()
}

func (c CubicBez) Eval(t float64) Point {
	mt := 1.0 - t
	a := Vec2(c.P0).Mul(mt * mt * mt)
	b := Vec2(c.P1).Mul(mt * mt * 3.0)
	cc := Vec2(c.P2).Mul(mt * 3.0)
	d := Vec2(c.P3)
	v := a.Add(b.Add(cc.Add(d.Mul(t)).Mul(t)).Mul(t))
	return Point(v)
}

// Differentiate returns the derivative of c, a quadratic Bézier.
func (c CubicBez) Differentiate() QuadBez {
	return QuadBez{
		Point(c.P1.Sub(c.P0).Mul(3)),
		Point(c.P2.Sub(c.P1).Mul(3)),
		Point(c.P3.Sub(c.P2).Mul(3)),
	}
}

// Subsegment returns the part of c between t0 and t1 as its own cubic.
func (c CubicBez) Subsegment(t0, t1 float64) CubicBez {
	p0 := c.Eval(t0)
	p3 := c.Eval(t1)
	d := c.Differentiate()
	scale := (t1 - t0) * (1.0 / 3.0)
	p1 := p0.Translate(Vec2(d.Eval(t0)).Mul(scale))
	p2 := p3.Translate(Vec2(d.Eval(t1)).Mul(scale).Negate())
	return CubicBez{p0, p1, p2, p3}
}

// ControlBounds returns the bounding box of the four control points, which
// always encloses the segment.
func (c CubicBez) ControlBounds() Rect {
	r, _ := BoundsOf([]Point{c.P0, c.P1, c.P2, c.P3})
	return r
}

type quadApprox struct {
	start, end float64
	segment    QuadBez
}

// quadratics approximates c by quadratic Béziers, splitting t evenly so that
// the error stays below accuracy. It always produces at least one value.
func (c CubicBez) quadratics(accuracy float64) iter.Seq[quadApprox] {
	return func(yield func(quadApprox) bool) {
		// The error is proportional to the third derivative, which is
		// constant across the segment, so it scales down as the third power
		// of the number of subdivisions. 432 is the square of 36 / sqrt(3).
		maxHypot2 := 432.0 * accuracy * accuracy
		p1x2 := Vec2(c.P1).Mul(3).Sub(Vec2(c.P0))
		p2x2 := Vec2(c.P2).Mul(3).Sub(Vec2(c.P3))
		err := p2x2.Sub(p1x2).Hypot2()
		n := max(int(math.Ceil(math.Sqrt(math.Cbrt(err/maxHypot2)))), 1)

		for i := range n {
			t0 := float64(i) / float64(n)
			t1 := float64(i+1) / float64(n)
			seg := c.Subsegment(t0, t1)
			p1x2 := Vec2(seg.P1).Mul(3).Sub(Vec2(seg.P0))
			p2x2 := Vec2(seg.P2).Mul(3).Sub(Vec2(seg.P3))
			q := QuadBez{seg.P0, Point(p1x2.Add(p2x2).Mul(1.0 / 4.0)), seg.P3}
			if !yield(quadApprox{t0, t1, q}) {
				return
			}
		}
	}
}

// Nearest finds the point on c nearest to pt, using subdivision into
// quadratics. It returns the squared distance and the parameter.
func (c CubicBez) Nearest(pt Point, accuracy float64) (distSq, t float64) {
	var bestR option[float64]
	bestT := 0.0
	for qq := range c.quadratics(accuracy) {
		qDistSq, qT := qq.segment.Nearest(pt)
		if !bestR.isSet || qDistSq < bestR.value {
			bestT = qq.start + qT*(qq.end-qq.start)
			bestR.set(qDistSq)
		}
	}
	return bestR.value, bestT
}
