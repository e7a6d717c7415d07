package bearimy

import "math"

// ClosestSegment returns the index of the edge nearest to pt and the squared
// distance to it. Edge i runs from point i to point i+1, and the closing edge
// from the last point back to the first is included. Distances are measured
// to the segment, not to its infinite line. On exact ties the lowest index
// wins. ok is false only for an empty polygon.
func (p ControlPolygon) ClosestSegment(pt Point) (index int, distSq float64, ok bool) {
	index, distSq = -1, math.Inf(1)
	for i, seg := range p.Segments() {
		d, _ := seg.Nearest(pt)
		if d < distSq {
			index, distSq = i, d
		}
	}
	return index, distSq, index >= 0
}

// ClosestPoint returns the index of the control point nearest to pt and its
// distance. Ties resolve to the lowest index.
func (p ControlPolygon) ClosestPoint(pt Point) (index int, dist float64, ok bool) {
	return closestOf(p.points, pt)
}

func closestOf(pts []Point, pt Point) (index int, dist float64, ok bool) {
	index, best := -1, math.Inf(1)
	for i, q := range pts {
		if d := q.DistanceSquared(pt); d < best {
			index, best = i, d
		}
	}
	if index < 0 {
		return -1, math.Inf(1), false
	}
	return index, math.Sqrt(best), true
}

// ClosestSegment returns the control polygon edge nearest to pt. See
// [ControlPolygon.ClosestSegment].
func (m *Map) ClosestSegment(pt Point) (index int, distSq float64, ok bool) {
	return m.polygon.ClosestSegment(pt)
}

// ClosestControlPoint returns the control point nearest to pt and its
// distance.
func (m *Map) ClosestControlPoint(pt Point) (index int, dist float64, ok bool) {
	return m.polygon.ClosestPoint(pt)
}

// ClosestMarker returns the auxiliary marker nearest to pt and its distance.
func (m *Map) ClosestMarker(pt Point) (index int, dist float64, ok bool) {
	return closestOf(m.markers, pt)
}

// ClosestHandle returns whichever of the nearest control point and the
// nearest marker is closer to pt. A control point wins an exact tie. With
// nothing to grab it returns a [NoHandle] handle at infinite distance.
func (m *Map) ClosestHandle(pt Point) (Handle, float64) {
	h, best := None, noHandleDistance
	if i, d, ok := m.ClosestControlPoint(pt); ok {
		h, best = ControlPoint(i), d
	}
	if i, d, ok := m.ClosestMarker(pt); ok && d < best {
		h, best = Marker(i), d
	}
	return h, best
}

// InteractableHandle is [Map.ClosestHandle] restricted to handles within
// radius of pt. Callers scale radius with their view zoom so the grab
// tolerance stays constant on screen.
func (m *Map) InteractableHandle(pt Point, radius float64) Handle {
	h, d := m.ClosestHandle(pt)
	if d > radius {
		return None
	}
	return h
}
