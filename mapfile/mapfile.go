// Package mapfile reads and writes maps as versioned TOML documents.
//
// A document looks like this:
//
//	version = 1
//	background = "maps/forest.png"
//	size = [1920.0, 1080.0]
//	control_points = [[-100.0, 100.0], [100.0, 100.0], [100.0, -100.0]]
//	markers = [[0.0, 0.0]]
//
// Only control points, markers, the background path and the display size are
// stored. The curve is always rebuilt on load.
package mapfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Waridley/bearimy"
	"github.com/pelletier/go-toml/v2"
)

// Version is the schema version written by [Save] and the only one [Load]
// accepts.
const Version = 1

// A Resolver turns a background path into a handle for the loaded asset.
type Resolver interface {
	Resolve(path string) (bearimy.AssetHandle, error)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(path string) (bearimy.AssetHandle, error)

func (f ResolverFunc) Resolve(path string) (bearimy.AssetHandle, error) { return f(path) }

type document struct {
	Version       int         `toml:"version"`
	Background    string      `toml:"background,omitempty"`
	Size          []float64   `toml:"size,omitempty"`
	ControlPoints [][]float64 `toml:"control_points"`
	Markers       [][]float64 `toml:"markers,omitempty"`
}

// prettyDocument is document with one point per line. The pairs themselves
// stay inline.
type prettyDocument struct {
	Version       int         `toml:"version"`
	Background    string      `toml:"background,omitempty"`
	Size          []float64   `toml:"size,omitempty"`
	ControlPoints [][]float64 `toml:"control_points,multiline"`
	Markers       [][]float64 `toml:"markers,omitempty,multiline"`
}

// Load decodes a map document and rebuilds its curve. If the document names
// a background and r is not nil, the background is resolved through r.
//
// Every error is a [*LoadError]. Decoding stops at the first failing stage:
// TOML syntax, then the schema, then the background, then the geometry.
func Load(data []byte, r Resolver) (*bearimy.Map, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, loadError(Malformed, describe(err))
	}

	var doc document
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, loadError(TypeMismatch, describe(err))
	}
	if doc.Version != Version {
		return nil, loadError(TypeMismatch, fmt.Errorf("unsupported version %d", doc.Version))
	}
	points, err := toPoints("control_points", doc.ControlPoints)
	if err != nil {
		return nil, loadError(TypeMismatch, err)
	}
	markers, err := toPoints("markers", doc.Markers)
	if err != nil {
		return nil, loadError(TypeMismatch, err)
	}
	size := bearimy.DefaultSize
	if doc.Size != nil {
		if len(doc.Size) != 2 {
			return nil, loadError(TypeMismatch, fmt.Errorf("size has %d components, want 2", len(doc.Size)))
		}
		size = bearimy.Sz(doc.Size[0], doc.Size[1])
	}

	var bg bearimy.AssetHandle
	if doc.Background != "" && r != nil {
		bg, err = r.Resolve(doc.Background)
		if err != nil {
			return nil, loadError(UnresolvedAsset, fmt.Errorf("background %q: %w", doc.Background, err))
		}
	}

	if !size.IsPositive() {
		return nil, loadError(Geometry, fmt.Errorf("%w: %s", bearimy.ErrInvalidSize, size))
	}
	for _, set := range [][]bearimy.Point{points, markers} {
		for i, pt := range set {
			if !pt.IsFinite() {
				return nil, loadError(Geometry, fmt.Errorf("point %d is not finite: %s", i, pt))
			}
		}
	}
	m, err := bearimy.NewMap(points)
	if err != nil {
		return nil, loadError(Geometry, err)
	}
	for _, pt := range markers {
		m.AddMarker(pt)
	}
	m.SetSize(size)
	m.SetBackground(doc.Background, bg)

	if !m.Polygon().IsSimple() {
		bearimy.Logger().Warn().Int("points", m.Polygon().Len()).Msg("control polygon intersects itself")
	}
	return m, nil
}

func toPoints(key string, in [][]float64) ([]bearimy.Point, error) {
	out := make([]bearimy.Point, len(in))
	for i, pair := range in {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%s[%d] has %d components, want 2", key, i, len(pair))
		}
		out[i] = bearimy.Pt(pair[0], pair[1])
	}
	return out, nil
}

// describe adds the document position to decoder errors.
func describe(err error) error {
	var de *toml.DecodeError
	if errors.As(err, &de) {
		row, col := de.Position()
		return fmt.Errorf("line %d, column %d: %w", row, col, err)
	}
	var sme *toml.StrictMissingError
	if errors.As(err, &sme) {
		return fmt.Errorf("unknown fields:\n%s", sme.String())
	}
	return err
}

func fromPoints(pts []bearimy.Point) [][]float64 {
	if len(pts) == 0 {
		return nil
	}
	out := make([][]float64, len(pts))
	for i, pt := range pts {
		out[i] = []float64{pt.X, pt.Y}
	}
	return out
}

// Save writes m as a document. Pretty output puts every control point and
// marker on its own line, with each [x, y] pair and the size kept inline.
// Compact output keeps every array on one line.
func Save(w io.Writer, m *bearimy.Map, pretty bool) error {
	bg, _ := m.Background()
	sz := m.Size()
	doc := document{
		Version:       Version,
		Background:    bg,
		Size:          []float64{sz.Width, sz.Height},
		ControlPoints: fromPoints(m.ControlPoints()),
		Markers:       fromPoints(m.Markers()),
	}
	var v any = doc
	if pretty {
		v = prettyDocument(doc)
	}
	if err := toml.NewEncoder(w).Encode(v); err != nil {
		return fmt.Errorf("mapfile: encoding map: %w", err)
	}
	return nil
}

// Marshal returns the document for m. See [Save].
func Marshal(m *bearimy.Map, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	if err := Save(&buf, m, pretty); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LoadFile reads and loads the document at path.
func LoadFile(path string, r Resolver) (*bearimy.Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("mapfile: %w", err)
	}
	m, err := Load(data, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// SaveFile writes m to path. The document is written to a temporary file in
// the same directory first and renamed into place, so readers never see a
// partial document.
func SaveFile(path string, m *bearimy.Map, pretty bool) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("mapfile: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(f.Name())
		}
	}()
	if err := Save(f, m, pretty); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("mapfile: %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		return fmt.Errorf("mapfile: %w", err)
	}
	bearimy.Logger().Debug().Str("path", path).Bool("pretty", pretty).Msg("saved map")
	return nil
}
