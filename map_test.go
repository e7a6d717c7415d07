package bearimy

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

// assertConsistent checks that the curve is the one built from the polygon.
func assertConsistent(t *testing.T, m *Map) {
	t.Helper()
	want, err := BuildCurve(m.Polygon())
	if err != nil {
		t.Fatal(err)
	}
	diff(t, want.Segments(), m.Curve().Segments())
	if m.Curve().Len() != m.Polygon().Len() {
		t.Errorf("curve has %d segments for %d points", m.Curve().Len(), m.Polygon().Len())
	}
}

func TestNewMap(t *testing.T) {
	if _, err := NewMap([]Point{Pt(1, 2)}); !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("got %v, want ErrInsufficientPoints", err)
	}
	m, err := NewMap([]Point{Pt(0, 0), Pt(10, 0)})
	if err != nil {
		t.Fatal(err)
	}
	diff(t, DefaultSize, m.Size())
	assertConsistent(t, m)
}

func TestAddPoint(t *testing.T) {
	m := DefaultMap()
	i, err := m.AddPoint(Pt(0, 150))
	if err != nil {
		t.Fatal(err)
	}
	want := []Point{Pt(-100, 100), Pt(0, 150), Pt(100, 100), Pt(100, -100), Pt(-100, -100)}
	diff(t, 1, i)
	diff(t, want, m.ControlPoints())
	assertConsistent(t, m)

	// the closing edge inserts at the end
	i, err = m.AddPoint(Pt(-150, 0))
	if err != nil {
		t.Fatal(err)
	}
	diff(t, 5, i)
	diff(t, Pt(-150, 0), m.Polygon().At(5))
}

func TestMovePoint(t *testing.T) {
	m := DefaultMap()
	if err := m.MovePoint(2, Pt(300, -300)); err != nil {
		t.Fatal(err)
	}
	diff(t, Pt(300, -300), m.Polygon().At(2))
	assertConsistent(t, m)

	before := m.ControlPoints()
	if err := m.MovePoint(4, Pt(0, 0)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("got %v, want ErrIndexOutOfRange", err)
	}
	diff(t, before, m.ControlPoints())
}

func TestRemovePoint(t *testing.T) {
	m := DefaultMap()
	got, err := m.RemovePoint(1)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, Pt(100, 100), got)
	diff(t, []Point{Pt(-100, 100), Pt(100, -100), Pt(-100, -100)}, m.ControlPoints())
	assertConsistent(t, m)

	if _, err := m.RemovePoint(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("got %v, want ErrIndexOutOfRange", err)
	}

	if _, err := m.RemovePoint(0); err != nil {
		t.Fatal(err)
	}
	before := m.ControlPoints()
	_, err = m.RemovePoint(0)
	var tooFew *TooFewPointsError
	if !errors.As(err, &tooFew) {
		t.Fatalf("got %v, want *TooFewPointsError", err)
	}
	diff(t, 2, tooFew.Count)
	if !errors.Is(err, ErrTooFewPoints) {
		t.Error("TooFewPointsError does not match ErrTooFewPoints")
	}
	diff(t, before, m.ControlPoints())
	assertConsistent(t, m)
}

func TestInsertPoint(t *testing.T) {
	m := DefaultMap()
	if err := m.InsertPoint(4, Pt(-120, 0)); err != nil {
		t.Fatal(err)
	}
	diff(t, Pt(-120, 0), m.Polygon().At(4))
	if err := m.InsertPoint(6, Pt(0, 0)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("got %v, want ErrIndexOutOfRange", err)
	}
}

func TestRotatePoints(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(50, 120), Pt(130, 90), Pt(160, -20), Pt(40, -60)}
	m, _ := NewMap(pts)
	orig := m.Curve()

	m.RotatePoints(1)
	diff(t, []Point{pts[4], pts[0], pts[1], pts[2], pts[3]}, m.ControlPoints())
	assertConsistent(t, m)

	// same shape, parameters shifted by one segment
	approx := cmpopts.EquateApprox(0, 1e-9)
	for _, tt := range []float64{0, 0.4, 2.2, 4.9} {
		diff(t, orig.Eval(tt-1), m.Curve().Eval(tt), approx)
	}

	m.RotatePoints(-1)
	diff(t, pts, m.ControlPoints())
}

func TestRotatePointsOffsets(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(50, 120), Pt(130, 90), Pt(160, -20), Pt(40, -60)}
	n := len(pts)

	// shift is offset reduced modulo 5. MaxInt is 2⁶³-1 and MinInt is -2⁶³,
	// and 2⁶³ leaves 3.
	tests := []struct {
		offset int
		shift  int
	}{
		{0, 0},
		{1, 1},
		{-1, 4},
		{n, 0},
		{-n, 0},
		{n + 1, 1},
		{-(n + 1), 4},
		{1 << 40, 1},
		{-(1 << 40), 4},
		{math.MaxInt, 2},
		{math.MaxInt - 1, 1},
		{math.MinInt, 2},
		{math.MinInt + 1, 3},
	}
	for _, tt := range tests {
		m, _ := NewMap(pts)
		m.RotatePoints(tt.offset)

		want := make([]Point, n)
		for i, pt := range pts {
			want[(i+tt.shift)%n] = pt
		}
		diff(t, want, m.ControlPoints())
		assertConsistent(t, m)

		// -MinInt overflows back to MinInt, so undo by the reduced shift.
		if tt.offset == math.MinInt {
			m.RotatePoints(-tt.shift)
		} else {
			m.RotatePoints(-tt.offset)
		}
		diff(t, pts, m.ControlPoints())
		assertConsistent(t, m)
	}
}

func TestRemoveThenInsertRestores(t *testing.T) {
	pts := []Point{Pt(0, 0), Pt(50, 120), Pt(130, 90), Pt(160, -20), Pt(40, -60)}
	orig, _ := NewMap(pts)
	approx := cmpopts.EquateApprox(0, 1e-9)

	for i := range pts {
		m := orig.Clone()
		removed, err := m.RemovePoint(i)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, pts[i], removed)
		if err := m.InsertPoint(i, removed); err != nil {
			t.Fatal(err)
		}

		diff(t, pts, m.ControlPoints())
		assertConsistent(t, m)
		for _, tt := range []float64{0, 0.3, 1.5, 2.7, 4.99} {
			diff(t, orig.Curve().Eval(tt), m.Curve().Eval(tt), approx)
		}
	}
}

func TestTranslate(t *testing.T) {
	m := DefaultMap()
	m.AddMarker(Pt(0, 0))
	m.Translate(Vec(10, -5))
	diff(t, Pt(-90, 95), m.Polygon().At(0))
	diff(t, []Point{Pt(10, -5)}, m.Markers())
	assertConsistent(t, m)
}

func TestFindCenterAndBounds(t *testing.T) {
	m := DefaultMap()
	diff(t, Pt(0, 0), m.FindCenter())
	diff(t, Rect{-100, -100, 100, 100}, m.BoundingRect())

	m.AddMarker(Pt(150, 0))
	diff(t, Pt(30, 0), m.FindCenter())
	diff(t, Rect{-100, -100, 150, 100}, m.BoundingRect())
}

func TestRecenter(t *testing.T) {
	m := DefaultMap()
	m.Translate(Vec(50, 50))
	m.Recenter()
	diff(t, DefaultControlPoints(), m.ControlPoints(), cmpopts.EquateApprox(0, 1e-9))
	diff(t, Pt(0, 0), m.BoundingRect().Center(), cmpopts.EquateApprox(0, 1e-9))
}

func TestScaleTo(t *testing.T) {
	m := DefaultMap()
	m.Translate(Vec(10, 10))
	m.AddMarker(Pt(10, 10))
	if err := m.ScaleTo(Sz(400, 100)); err != nil {
		t.Fatal(err)
	}
	approx := cmpopts.EquateApprox(0, 1e-9)
	want := []Point{Pt(-190, 60), Pt(210, 60), Pt(210, -40), Pt(-190, -40)}
	diff(t, want, m.ControlPoints(), approx)
	diff(t, []Point{Pt(10, 10)}, m.Markers(), approx)
	diff(t, Sz(400, 100), m.BoundingRect().Size(), approx)
	assertConsistent(t, m)
}

func TestScaleToErrors(t *testing.T) {
	m := DefaultMap()
	for _, sz := range []Size{Sz(0, 10), Sz(10, -1), Sz(nan(), 1)} {
		if err := m.ScaleTo(sz); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("ScaleTo(%v): got %v, want ErrInvalidSize", sz, err)
		}
	}

	flat, _ := NewMap([]Point{Pt(0, 0), Pt(10, 0)})
	if err := flat.ScaleTo(Sz(20, 20)); !errors.Is(err, ErrDegenerateBounds) {
		t.Errorf("got %v, want ErrDegenerateBounds", err)
	}
	diff(t, []Point{Pt(0, 0), Pt(10, 0)}, flat.ControlPoints())
}

func TestMarkers(t *testing.T) {
	m := DefaultMap()
	diff(t, 0, m.AddMarker(Pt(1, 1)))
	diff(t, 1, m.AddMarker(Pt(2, 2)))

	if err := m.MoveMarker(1, Pt(3, 3)); err != nil {
		t.Fatal(err)
	}
	if err := m.MoveMarker(2, Pt(3, 3)); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("got %v, want ErrIndexOutOfRange", err)
	}

	got, err := m.RemoveMarker(0)
	if err != nil {
		t.Fatal(err)
	}
	diff(t, Pt(1, 1), got)
	diff(t, []Point{Pt(3, 3)}, m.Markers())

	// markers never change the curve
	assertConsistent(t, m)
	diff(t, 4, m.Curve().Len())
}

func TestMoveAndRemoveHandle(t *testing.T) {
	m := DefaultMap()
	m.AddMarker(Pt(0, 0))

	if err := m.MoveHandle(ControlPoint(0), Pt(-120, 120)); err != nil {
		t.Fatal(err)
	}
	if err := m.MoveHandle(Marker(0), Pt(5, 5)); err != nil {
		t.Fatal(err)
	}
	if err := m.MoveHandle(None, Pt(5, 5)); err != nil {
		t.Errorf("moving no handle: %v", err)
	}
	diff(t, Pt(-120, 120), m.Polygon().At(0))
	diff(t, []Point{Pt(5, 5)}, m.Markers())

	if _, err := m.RemoveHandle(Marker(0)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RemoveHandle(ControlPoint(3)); err != nil {
		t.Fatal(err)
	}
	if _, err := m.RemoveHandle(None); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("got %v, want ErrIndexOutOfRange", err)
	}
	diff(t, 3, m.Polygon().Len())
	diff(t, 0, len(m.Markers()))
}

type testAsset string

func (a testAsset) AssetPath() string { return string(a) }

func TestCloneAndReset(t *testing.T) {
	m := DefaultMap()
	m.AddMarker(Pt(1, 1))
	m.SetBackground("maps/bg.png", testAsset("maps/bg.png"))
	m.SetSize(Sz(800, 600))

	c := m.Clone()
	c.AddMarker(Pt(2, 2))
	if err := c.MovePoint(0, Pt(0, 0)); err != nil {
		t.Fatal(err)
	}
	diff(t, []Point{Pt(1, 1)}, m.Markers())
	diff(t, Pt(-100, 100), m.Polygon().At(0))
	assertConsistent(t, m)

	path, h := c.Background()
	diff(t, "maps/bg.png", path)
	diff(t, "maps/bg.png", h.AssetPath())
	diff(t, Sz(800, 600), c.Size())

	m.Reset()
	diff(t, DefaultControlPoints(), m.ControlPoints())
	diff(t, 0, len(m.Markers()))
	if path, h := m.Background(); path != "" || h != nil {
		t.Errorf("background survived reset: %q %v", path, h)
	}
	diff(t, DefaultSize, m.Size())
}
