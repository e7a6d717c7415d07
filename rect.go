package bearimy

// Rect is an axis-aligned rectangle spanning (X0, Y0) to (X1, Y1).
type Rect struct {
	X0, Y0 float64
	X1, Y1 float64
}

// NewRectFromCenter returns a rectangle with the given size, centered around the center
// point.
func NewRectFromCenter(center Point, size Size) Rect {
	hw, hh := 0.5*size.Width, 0.5*size.Height
	return Rect{
		X0: center.X - hw,
		Y0: center.Y - hh,
		X1: center.X + hw,
		Y1: center.Y + hh,
	}
}

// BoundsOf returns the smallest rectangle enclosing every point of every
// slice. ok is false if there were no points at all.
func BoundsOf(pts ...[]Point) (r Rect, ok bool) {
	for _, s := range pts {
		for _, p := range s {
			if !ok {
				r = Rect{p.X, p.Y, p.X, p.Y}
				ok = true
				continue
			}
			r = r.UnionPoint(p)
		}
	}
	return r, ok
}

// Abs returns a new rectangle with the same extents as r, but ensuring that width and
// height are non-negative.
func (r Rect) Abs() Rect {
	return Rect{
		X0: min(r.X0, r.X1),
		Y0: min(r.Y0, r.Y1),
		X1: max(r.X0, r.X1),
		Y1: max(r.Y0, r.Y1),
	}
}

// Min returns the corner with the smallest coordinates.
func (r Rect) Min() Point { return Point{min(r.X0, r.X1), min(r.Y0, r.Y1)} }

// Max returns the corner with the largest coordinates.
func (r Rect) Max() Point { return Point{max(r.X0, r.X1), max(r.Y0, r.Y1)} }

// Width returns the rectangle's width, defined as X1 − X0. It may be negative.
func (r Rect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the rectangle's height, defined as Y1 − Y0. It may be negative.
func (r Rect) Height() float64 {
	return r.Y1 - r.Y0
}

func (r Rect) Size() Size {
	return Size{
		Width:  r.Width(),
		Height: r.Height(),
	}
}

func (r Rect) Center() Point {
	return Point{
		X: 0.5 * (r.X0 + r.X1),
		Y: 0.5 * (r.Y0 + r.Y1),
	}
}

// Contains reports whether pt lies inside r, edges included.
func (r Rect) Contains(pt Point) bool {
	return pt.X >= r.X0 &&
		pt.X <= r.X1 &&
		pt.Y >= r.Y0 &&
		pt.Y <= r.Y1
}

// Union returns the smallest rectangle enclosing r and o.
//
// Results are valid only if width and height are non-negative.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		X0: min(r.X0, o.X0),
		Y0: min(r.Y0, o.Y0),
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
	}
}

// UnionPoint computes the union of a rectangle with a point.
//
// Results are valid only if width and height are non-negative.
func (r Rect) UnionPoint(pt Point) Rect {
	return Rect{
		X0: min(r.X0, pt.X),
		Y0: min(r.Y0, pt.Y),
		X1: max(r.X1, pt.X),
		Y1: max(r.Y1, pt.Y),
	}
}

// Inflate expands a rectangle by a constant amount in both directions.
func (r Rect) Inflate(width, height float64) Rect {
	return Rect{
		X0: r.X0 - width,
		Y0: r.Y0 - height,
		X1: r.X1 + width,
		Y1: r.Y1 + height,
	}
}
