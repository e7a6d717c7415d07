package bearimy

import (
	"fmt"
	"slices"
)

// DefaultSize is the display size of a map that has not been given one.
var DefaultSize = Sz(1920, 1080)

// DefaultControlPoints returns the control points of the default map, a
// square of side 200 centered on the origin.
func DefaultControlPoints() []Point {
	return []Point{
		Pt(-100, 100),
		Pt(100, 100),
		Pt(100, -100),
		Pt(-100, -100),
	}
}

// AssetHandle is an opaque reference to a resolved asset, such as a map's
// backing image. Resolution is performed by the caller's asset layer.
type AssetHandle interface {
	AssetPath() string
}

// Map is the editable aggregate behind a level's arena: a control polygon,
// the curve derived from it, a list of auxiliary markers, a backing image
// reference and a display size.
//
// Every edit is atomic. Either the polygon and the curve both change, or
// neither does, and the curve observed between calls always matches the
// polygon. A Map has a single owner and is not safe for concurrent use.
type Map struct {
	polygon ControlPolygon
	curve   Curve
	markers []Point

	background       string
	backgroundHandle AssetHandle
	size             Size
}

// NewMap builds a map from control points. It returns
// [ErrInsufficientPoints] if fewer than [MinControlPoints] are given.
func NewMap(points []Point) (*Map, error) {
	poly, err := NewControlPolygon(points)
	if err != nil {
		return nil, err
	}
	curve, err := BuildCurve(poly)
	if err != nil {
		return nil, err
	}
	return &Map{polygon: poly, curve: curve, size: DefaultSize}, nil
}

// DefaultMap returns a new map over [DefaultControlPoints].
func DefaultMap() *Map {
	m, err := NewMap(DefaultControlPoints())
	if err != nil {
		panic(fmt.Sprintf("default map is invalid: %s", err))
	}
	return m
}

// Clone returns a deep copy of m. The background handle is shared.
func (m *Map) Clone() *Map {
	out := *m
	out.markers = slices.Clone(m.markers)
	return &out
}

// Reset replaces the contents of m with the default map.
func (m *Map) Reset() {
	*m = *DefaultMap()
}

// commit installs poly and its curve, leaving m untouched on failure.
func (m *Map) commit(poly ControlPolygon) error {
	curve, err := BuildCurve(poly)
	if err != nil {
		return err
	}
	m.polygon, m.curve = poly, curve
	return nil
}

func (m *Map) Polygon() ControlPolygon { return m.polygon }

// ControlPoints returns a copy of the control points.
func (m *Map) ControlPoints() []Point { return m.polygon.Points() }

func (m *Map) Curve() Curve { return m.curve }

// Markers returns a copy of the auxiliary markers.
func (m *Map) Markers() []Point { return slices.Clone(m.markers) }

func (m *Map) Size() Size { return m.size }

func (m *Map) SetSize(sz Size) { m.size = sz }

// Background returns the path of the backing image, and its resolved handle
// if one has been set.
func (m *Map) Background() (path string, h AssetHandle) {
	return m.background, m.backgroundHandle
}

// SetBackground sets the backing image path and its resolved handle. h may be
// nil if the path has not been resolved.
func (m *Map) SetBackground(path string, h AssetHandle) {
	m.background, m.backgroundHandle = path, h
}

// AddPoint inserts pt into the edge nearest to it, directly after that edge's
// first endpoint, and returns the new point's index.
func (m *Map) AddPoint(pt Point) (int, error) {
	seg, _, ok := m.polygon.ClosestSegment(pt)
	if !ok {
		return 0, ErrNoSegment
	}
	i := seg + 1
	if err := m.commit(m.polygon.inserted(i, pt)); err != nil {
		return 0, err
	}
	logger().Debug().Int("segment", seg).Stringer("point", pt).Msg("inserted control point")
	return i, nil
}

// MovePoint moves control point i to pt.
func (m *Map) MovePoint(i int, pt Point) error {
	if !m.polygon.inBounds(i) {
		return indexOutOfRange("control point", i, m.polygon.Len())
	}
	return m.commit(m.polygon.replaced(i, pt))
}

// RemovePoint removes control point i and returns its former position. It
// returns a [*TooFewPointsError] if the polygon would drop below
// [MinControlPoints].
func (m *Map) RemovePoint(i int) (Point, error) {
	n := m.polygon.Len()
	if n <= MinControlPoints {
		return Point{}, &TooFewPointsError{Count: n}
	}
	if !m.polygon.inBounds(i) {
		return Point{}, indexOutOfRange("control point", i, n)
	}
	removed := m.polygon.At(i)
	if err := m.commit(m.polygon.removed(i)); err != nil {
		return Point{}, err
	}
	logger().Debug().Int("index", i).Stringer("point", removed).Msg("removed control point")
	return removed, nil
}

// InsertPoint inserts pt so that it ends up at index i, 0 <= i <= Len.
func (m *Map) InsertPoint(i int, pt Point) error {
	if i < 0 || i > m.polygon.Len() {
		return indexOutOfRange("insertion index", i, m.polygon.Len())
	}
	return m.commit(m.polygon.inserted(i, pt))
}

// RotatePoints cyclically shifts the control point list by offset places,
// towards the end for positive offsets and towards the start for negative
// ones. The shape is unchanged; only which point is index 0 differs.
func (m *Map) RotatePoints(offset int) {
	if m.polygon.Wrap(offset) == 0 {
		return
	}
	// Rotation preserves the point count, so commit cannot fail.
	_ = m.commit(m.polygon.rotated(offset))
}

// AddMarker appends a marker and returns its index.
func (m *Map) AddMarker(pt Point) int {
	m.markers = append(m.markers, pt)
	return len(m.markers) - 1
}

func (m *Map) MoveMarker(i int, pt Point) error {
	if i < 0 || i >= len(m.markers) {
		return indexOutOfRange("marker", i, len(m.markers))
	}
	m.markers[i] = pt
	return nil
}

// RemoveMarker removes marker i and returns its former position.
func (m *Map) RemoveMarker(i int) (Point, error) {
	if i < 0 || i >= len(m.markers) {
		return Point{}, indexOutOfRange("marker", i, len(m.markers))
	}
	removed := m.markers[i]
	m.markers = slices.Delete(m.markers, i, i+1)
	return removed, nil
}

// MoveHandle moves whatever h refers to. Moving [None] is a no-op.
func (m *Map) MoveHandle(h Handle, pt Point) error {
	switch h.Kind {
	case ControlPointHandle:
		return m.MovePoint(h.Index, pt)
	case MarkerHandle:
		return m.MoveMarker(h.Index, pt)
	default:
		return nil
	}
}

// RemoveHandle removes whatever h refers to.
func (m *Map) RemoveHandle(h Handle) (Point, error) {
	switch h.Kind {
	case ControlPointHandle:
		return m.RemovePoint(h.Index)
	case MarkerHandle:
		return m.RemoveMarker(h.Index)
	default:
		return Point{}, fmt.Errorf("%w: %s", ErrIndexOutOfRange, h)
	}
}

// FindCenter returns the mean of all control points and markers.
func (m *Map) FindCenter() Point {
	return centroid(m.polygon.points, m.markers)
}

// BoundingRect returns the smallest rectangle enclosing all control points
// and markers.
func (m *Map) BoundingRect() Rect {
	r, _ := BoundsOf(m.polygon.points, m.markers)
	return r
}

// Translate moves every control point and marker by delta.
func (m *Map) Translate(delta Vec2) {
	_ = m.transform(Translate(delta))
}

// Recenter translates the map so its bounding rectangle is centered on the
// origin.
func (m *Map) Recenter() {
	c := m.BoundingRect().Center()
	m.Translate(Vec2(c).Negate())
}

// ScaleTo scales the map about the center of its bounding rectangle, each
// axis independently, so that the bounding rectangle ends up with the given
// size.
func (m *Map) ScaleTo(target Size) error {
	if !target.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidSize, target)
	}
	bounds := m.BoundingRect()
	cur := bounds.Size()
	if cur.Width == 0 || cur.Height == 0 {
		return fmt.Errorf("%w: %s", ErrDegenerateBounds, cur)
	}
	fx, fy := target.Width/cur.Width, target.Height/cur.Height
	if err := m.transform(ScaleAbout(fx, fy, bounds.Center())); err != nil {
		return err
	}
	logger().Debug().Stringer("from", cur).Stringer("to", target).Msg("scaled map")
	return nil
}

func (m *Map) transform(aff Affine) error {
	if err := m.commit(m.polygon.transformed(aff)); err != nil {
		return err
	}
	m.markers = transformAll(m.markers, aff)
	return nil
}
