// Package level describes playable levels: which map they use, the goal that
// ends them, and the waves of portals that move along the map's curve.
package level

import (
	"fmt"
	"time"

	"github.com/Waridley/bearimy"
)

// GoalKind selects how a level is won.
type GoalKind int

const (
	// GoalTime is won by surviving for the level's duration.
	GoalTime GoalKind = iota
	// GoalKills is won by killing Count enemies before time runs out.
	GoalKills
	// GoalMaxMissed is won by letting fewer than Count enemies through
	// before time runs out.
	GoalMaxMissed
)

var goalNames = map[GoalKind]string{
	GoalTime:      "time",
	GoalKills:     "kills",
	GoalMaxMissed: "max_missed",
}

func (k GoalKind) String() string {
	if s, ok := goalNames[k]; ok {
		return s
	}
	return fmt.Sprintf("GoalKind(%d)", int(k))
}

func parseGoalKind(s string) (GoalKind, error) {
	for k, name := range goalNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown goal kind %q", s)
}

type Goal struct {
	Kind  GoalKind
	Count uint32
}

// Result is the outcome of a level.
type Result int

const (
	Undecided Result = iota
	Win
	TimedOut
	MissedTooMany
)

func (r Result) String() string {
	switch r {
	case Undecided:
		return "undecided"
	case Win:
		return "win"
	case TimedOut:
		return "timed out"
	case MissedTooMany:
		return "missed too many"
	default:
		return fmt.Sprintf("Result(%d)", int(r))
	}
}

// Stats is the running tally a goal is checked against.
type Stats struct {
	Elapsed time.Duration
	Killed  uint32
	Missed  uint32
}

// Check returns the outcome of a level with this goal and duration, given
// the stats so far.
func (g Goal) Check(duration time.Duration, s Stats) Result {
	over := s.Elapsed >= duration
	switch g.Kind {
	case GoalTime:
		if over {
			return Win
		}
	case GoalKills:
		if s.Killed >= g.Count {
			return Win
		}
		if over {
			return TimedOut
		}
	case GoalMaxMissed:
		if s.Missed >= g.Count {
			return MissedTooMany
		}
		if over {
			return Win
		}
	}
	return Undecided
}

// PortalDescriptor places a portal on a level's curve.
type PortalDescriptor struct {
	SpawnInterval time.Duration
	TStart        float64
	Speed         float64
}

// DefaultPortal returns the portal used when a level does not describe one.
func DefaultPortal() PortalDescriptor {
	return PortalDescriptor{
		SpawnInterval: 50 * time.Millisecond,
		TStart:        0,
		Speed:         1,
	}
}

// Position returns the portal's starting position on the timeline.
func (p PortalDescriptor) Position() bearimy.TimelinePosition {
	return bearimy.TimelinePosition{T: p.TStart, Speed: p.Speed}
}

type Wave struct {
	Portals []PortalDescriptor
}

// Track registers every portal of the wave on tl, with ids starting at
// first, and returns the ids in portal order.
func (w Wave) Track(tl *bearimy.Timeline, first bearimy.EntityID) []bearimy.EntityID {
	ids := make([]bearimy.EntityID, len(w.Portals))
	for i, p := range w.Portals {
		id := first + bearimy.EntityID(i)
		tl.Track(id, p.Position())
		ids[i] = id
	}
	return ids
}

type Level struct {
	Name     string
	Map      string
	Goal     Goal
	Duration time.Duration
	Waves    []Wave
}

// Default returns the level used when none is configured.
func Default() Level {
	return Level{
		Name:     "Level 1",
		Map:      "maps/map.toml",
		Goal:     Goal{Kind: GoalKills, Count: 500},
		Duration: 2 * time.Minute,
		Waves:    []Wave{{Portals: []PortalDescriptor{DefaultPortal()}}},
	}
}

// Wave returns wave i, or false if the level has no such wave.
func (l Level) Wave(i int) (Wave, bool) {
	if i < 0 || i >= len(l.Waves) {
		return Wave{}, false
	}
	return l.Waves[i], true
}
