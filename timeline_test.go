package bearimy

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTimelineAdvance(t *testing.T) {
	c := mustCurve(t, square())
	approx := cmpopts.EquateApprox(0, 1e-9)

	tests := []struct {
		start, speed, dt float64
		want             float64
	}{
		{0, 1, 2, 1},
		{0, 1, 0.5, 0.25},
		// wraps past the end
		{3.5, 2, 1, 0.5},
		{3, 1, 2, 0},
		// and backwards past the start
		{0.25, -1, 1, 3.75},
		{0, 0, 10, 0},
	}
	for _, tt := range tests {
		tp := TimelinePosition{T: tt.start, Speed: tt.speed}
		pt, err := tp.Advance(c, tt.dt)
		if err != nil {
			t.Fatal(err)
		}
		diff(t, tt.want, tp.T, approx)
		diff(t, c.Eval(tt.want), pt, approx)
		if tp.T < 0 || tp.T >= c.DomainEnd() {
			t.Errorf("T=%g escaped the domain", tp.T)
		}
	}
}

func TestTimelineAdvanceFailure(t *testing.T) {
	tp := TimelinePosition{T: 1.5, Speed: 1}
	if _, err := tp.Advance(Curve{}, 1); !errors.Is(err, ErrEmptyCurve) {
		t.Errorf("got %v, want ErrEmptyCurve", err)
	}
	diff(t, 1.5, tp.T)

	c := mustCurve(t, square())
	tp = TimelinePosition{T: 1.5, Speed: math.NaN()}
	if _, err := tp.Advance(c, 1); !errors.Is(err, ErrOutsideDomain) {
		t.Errorf("got %v, want ErrOutsideDomain", err)
	}
	diff(t, 1.5, tp.T)
}

func TestTimelineTick(t *testing.T) {
	c := mustCurve(t, square())
	var tl Timeline
	tl.Track(2, TimelinePosition{T: 0, Speed: 1})
	tl.Track(1, TimelinePosition{T: 1, Speed: -2})
	diff(t, 2, tl.Len())

	if err := tl.Tick(c, 1); err != nil {
		t.Fatal(err)
	}
	approx := cmpopts.EquateApprox(0, 1e-9)

	pos, pt, ok := tl.Get(2)
	if !ok {
		t.Fatal("entity 2 not tracked")
	}
	diff(t, 0.5, pos.T, approx)
	diff(t, c.Eval(0.5), pt, approx)

	pos, _, _ = tl.Get(1)
	diff(t, 0.0, pos.T, approx)

	var ids []EntityID
	for id := range tl.Positions() {
		ids = append(ids, id)
	}
	diff(t, []EntityID{1, 2}, ids)

	// a failed tick keeps every position
	if err := tl.Tick(Curve{}, 1); !errors.Is(err, ErrEmptyCurve) {
		t.Errorf("got %v, want ErrEmptyCurve", err)
	}
	pos, pt, _ = tl.Get(2)
	diff(t, 0.5, pos.T, approx)
	diff(t, c.Eval(0.5), pt, approx)

	if !tl.Untrack(1) || tl.Untrack(1) {
		t.Error("Untrack reported wrong membership")
	}
	if _, _, ok := tl.Get(1); ok {
		t.Error("untracked entity still present")
	}
}
