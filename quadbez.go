package bearimy

// QuadBez is a quadratic Bézier segment. Within this package it appears as the
// derivative of a [CubicBez] and as the local approximation used for nearest
// point searches.
type QuadBez struct {
	P0 Point
	P1 Point
	P2 Point
}

func (q QuadBez) Eval(t float64) Point {
	mt := 1.0 - t
	v := Vec2(q.P0).Mul(mt * mt).
		Add(Vec2(q.P1).Mul(mt * 2.0).
			Add(Vec2(q.P2).Mul(t)).
			Mul(t))
	return Point(v)
}

// Nearest finds the nearest point on q to pt using cubic root finding. It
// returns the squared distance and the parameter of that point.
func (q QuadBez) Nearest(pt Point) (distSq, outT float64) {
	var rBest option[float64]
	tBest := 0.0
	consider := func(t float64, p Point) {
		r := p.Sub(pt).Hypot2()
		if !rBest.isSet || r < rBest.value {
			rBest.set(r)
			tBest = t
		}
	}

	d0 := q.P1.Sub(q.P0)
	d1 := Vec2(q.P0).Add(Vec2(q.P2)).Sub(Vec2(q.P1).Mul(2.0))
	d := q.P0.Sub(pt)
	c0 := d.Dot(d0)
	c1 := 2.0*d0.Hypot2() + d.Dot(d1)
	c2 := 3.0 * d1.Dot(d0)
	c3 := d1.Hypot2()
	roots, n := SolveCubic(c0, c1, c2, c3)
	needEnds := n == 0
	for _, t := range roots[:n] {
		if !(t >= 0.0 && t <= 1.0) {
			needEnds = true
			continue
		}
		consider(t, q.Eval(t))
	}
	if needEnds {
		consider(0.0, q.P0)
		consider(1.0, q.P2)
	}
	return rBest.value, tBest
}
