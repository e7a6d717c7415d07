package bearimy

import (
	"github.com/peterstace/simplefeatures/geom"
)

// ring returns the control polygon as a closed line string. It fails when
// the points are not all finite or are all the same.
func (p ControlPolygon) ring() (geom.LineString, error) {
	flat := make([]float64, 0, 2*(len(p.points)+1))
	for _, pt := range p.points {
		flat = append(flat, pt.X, pt.Y)
	}
	if len(p.points) > 0 {
		flat = append(flat, p.points[0].X, p.points[0].Y)
	}
	return geom.NewLineString(geom.NewSequence(flat, geom.DimXY))
}

// IsSimple reports whether the closed control polygon has no
// self-intersections. Polygons whose points coincide or are not finite are
// not simple. A map whose polygon is not simple still builds a valid
// curve, but that curve will usually cross itself too.
//
// Polygons of two points double back on themselves and are never simple.
func (p ControlPolygon) IsSimple() bool {
	if len(p.points) < 3 {
		return false
	}
	ring, err := p.ring()
	if err != nil {
		return false
	}
	return ring.IsSimple()
}

// Perimeter returns the length of the closed control polygon, including the
// closing edge.
func (p ControlPolygon) Perimeter() float64 {
	if len(p.points) < 2 {
		return 0
	}
	ring, err := p.ring()
	if err != nil {
		// Coincident points have no length; non-finite ones are summed as is.
		var total float64
		for _, seg := range p.Segments() {
			total += seg.Length()
		}
		return total
	}
	return ring.Length()
}
