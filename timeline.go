package bearimy

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// TimelineSpeedScale converts a timeline speed into domain units per second.
// A speed of 1 moves half a segment per second.
const TimelineSpeedScale = 0.5

// TimelinePosition is an entity's position along a map's curve, as a
// parameter T in the curve's domain and a signed Speed.
type TimelinePosition struct {
	T     float64
	Speed float64
}

// Advance moves the position by Speed·dt·[TimelineSpeedScale], wrapping
// around the end of the curve in either direction, and returns the sampled
// point at the new parameter. On failure T is left unchanged.
func (tp *TimelinePosition) Advance(c Curve, dt float64) (Point, error) {
	end := c.DomainEnd()
	if end == 0 {
		return Point{}, ErrEmptyCurve
	}
	t := c.Wrap(tp.T + tp.Speed*dt*TimelineSpeedScale)
	pt, err := c.Sample(t)
	if err != nil {
		return Point{}, err
	}
	tp.T = t
	return pt, nil
}

// EntityID identifies something moving along a timeline.
type EntityID uint64

type tracked struct {
	pos   TimelinePosition
	point Point
}

// Timeline advances any number of entities along one curve.
type Timeline struct {
	entities map[EntityID]*tracked
}

// Track starts moving id from pos. Tracking an id again replaces its
// position.
func (tl *Timeline) Track(id EntityID, pos TimelinePosition) {
	if tl.entities == nil {
		tl.entities = make(map[EntityID]*tracked)
	}
	tl.entities[id] = &tracked{pos: pos}
}

// Untrack stops moving id and reports whether it was tracked.
func (tl *Timeline) Untrack(id EntityID) bool {
	_, ok := tl.entities[id]
	delete(tl.entities, id)
	return ok
}

func (tl *Timeline) Len() int { return len(tl.entities) }

// Get returns the timeline position of id and the point it was last sampled
// at. The point is the zero Point until the first successful Tick.
func (tl *Timeline) Get(id EntityID) (TimelinePosition, Point, bool) {
	e, ok := tl.entities[id]
	if !ok {
		return TimelinePosition{}, Point{}, false
	}
	return e.pos, e.point, true
}

// Tick advances every tracked entity by dt seconds. Entities that fail to
// sample keep their previous position and point. The returned error joins
// every failure.
func (tl *Timeline) Tick(c Curve, dt float64) error {
	var errs []error
	for _, id := range slices.Sorted(maps.Keys(tl.entities)) {
		e := tl.entities[id]
		pt, err := e.pos.Advance(c, dt)
		if err != nil {
			logger().Warn().Err(err).Uint64("entity", uint64(id)).Float64("t", e.pos.T).Msg("timeline sample failed")
			errs = append(errs, fmt.Errorf("entity %d: %w", id, err))
			continue
		}
		e.point = pt
	}
	return errors.Join(errs...)
}

// Positions iterates over the tracked entities in ascending id order,
// yielding each one's last sampled point.
func (tl *Timeline) Positions() iter.Seq2[EntityID, Point] {
	return func(yield func(EntityID, Point) bool) {
		for _, id := range slices.Sorted(maps.Keys(tl.entities)) {
			if !yield(id, tl.entities[id].point) {
				return
			}
		}
	}
}
