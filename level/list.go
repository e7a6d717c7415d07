package level

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ErrInvalidList is returned for level lists that cannot be decoded.
var ErrInvalidList = errors.New("level: invalid level list")

// A level list is a TOML document of [[levels]] tables. Every key is
// optional and falls back to [Default]:
//
//	[[levels]]
//	name = "Forest"
//	map = "maps/forest.toml"
//	duration = "90s"
//	goal = { kind = "kills", count = 200 }
//
//	[[levels.waves]]
//	portals = [{ t_start = 0.0, speed = 1.0, spawn_interval = "50ms" }]
type listDoc struct {
	Levels []levelDoc `toml:"levels"`
}

type levelDoc struct {
	Name     *string   `toml:"name"`
	Map      *string   `toml:"map"`
	Duration *string   `toml:"duration"`
	Goal     *goalDoc  `toml:"goal"`
	Waves    []waveDoc `toml:"waves"`
}

type goalDoc struct {
	Kind  string `toml:"kind"`
	Count uint32 `toml:"count"`
}

type waveDoc struct {
	Portals []portalDoc `toml:"portals"`
}

type portalDoc struct {
	SpawnInterval *string  `toml:"spawn_interval"`
	TStart        *float64 `toml:"t_start"`
	Speed         *float64 `toml:"speed"`
}

// LoadList decodes a level list.
func LoadList(r io.Reader) ([]Level, error) {
	var doc listDoc
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidList, err)
	}
	levels := make([]Level, len(doc.Levels))
	for i, ld := range doc.Levels {
		l, err := ld.level()
		if err != nil {
			return nil, fmt.Errorf("%w: level %d: %w", ErrInvalidList, i, err)
		}
		levels[i] = l
	}
	return levels, nil
}

// ParseList is like [LoadList] for a document in memory.
func ParseList(data []byte) ([]Level, error) {
	return LoadList(bytes.NewReader(data))
}

func (ld levelDoc) level() (Level, error) {
	l := Default()
	if ld.Name != nil {
		l.Name = *ld.Name
	}
	if ld.Map != nil {
		l.Map = *ld.Map
	}
	if ld.Duration != nil {
		d, err := parseDuration("duration", *ld.Duration)
		if err != nil {
			return Level{}, err
		}
		l.Duration = d
	}
	if ld.Goal != nil {
		kind, err := parseGoalKind(ld.Goal.Kind)
		if err != nil {
			return Level{}, err
		}
		l.Goal = Goal{Kind: kind, Count: ld.Goal.Count}
	}
	if ld.Waves != nil {
		l.Waves = make([]Wave, len(ld.Waves))
		for i, wd := range ld.Waves {
			w := Wave{Portals: make([]PortalDescriptor, len(wd.Portals))}
			for j, pd := range wd.Portals {
				p, err := pd.portal()
				if err != nil {
					return Level{}, fmt.Errorf("wave %d portal %d: %w", i, j, err)
				}
				w.Portals[j] = p
			}
			l.Waves[i] = w
		}
	}
	return l, nil
}

func (pd portalDoc) portal() (PortalDescriptor, error) {
	p := DefaultPortal()
	if pd.SpawnInterval != nil {
		d, err := parseDuration("spawn_interval", *pd.SpawnInterval)
		if err != nil {
			return PortalDescriptor{}, err
		}
		p.SpawnInterval = d
	}
	if pd.TStart != nil {
		p.TStart = *pd.TStart
	}
	if pd.Speed != nil {
		p.Speed = *pd.Speed
	}
	return p, nil
}

func parseDuration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: negative duration %s", key, s)
	}
	return d, nil
}
