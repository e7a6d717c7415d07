package mapfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/Waridley/bearimy"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAsset string

func (a fakeAsset) AssetPath() string { return string(a) }

func resolveAll(path string) (bearimy.AssetHandle, error) { return fakeAsset(path), nil }

const squareDoc = `
version = 1
background = "maps/bg.png"
size = [800.0, 600.0]
control_points = [[-100.0, 100.0], [100.0, 100.0], [100.0, -100.0], [-100.0, -100.0]]
markers = [[5.0, -5.0]]
`

func TestLoad(t *testing.T) {
	m, err := Load([]byte(squareDoc), ResolverFunc(resolveAll))
	require.NoError(t, err)

	assert.Equal(t, bearimy.DefaultControlPoints(), m.ControlPoints())
	assert.Equal(t, []bearimy.Point{bearimy.Pt(5, -5)}, m.Markers())
	assert.Equal(t, bearimy.Sz(800, 600), m.Size())
	assert.Equal(t, 4, m.Curve().Len())

	path, h := m.Background()
	assert.Equal(t, "maps/bg.png", path)
	require.NotNil(t, h)
	assert.Equal(t, "maps/bg.png", h.AssetPath())
}

func TestLoadDefaults(t *testing.T) {
	doc := `
version = 1
control_points = [[0.0, 0.0], [10.0, 0.0], [5.0, 8.0]]
`
	m, err := Load([]byte(doc), nil)
	require.NoError(t, err)
	assert.Equal(t, bearimy.DefaultSize, m.Size())
	assert.Empty(t, m.Markers())

	path, h := m.Background()
	assert.Empty(t, path)
	assert.Nil(t, h)
}

func TestLoadWithoutResolverKeepsPath(t *testing.T) {
	m, err := Load([]byte(squareDoc), nil)
	require.NoError(t, err)
	path, h := m.Background()
	assert.Equal(t, "maps/bg.png", path)
	assert.Nil(t, h)
}

func TestLoadErrors(t *testing.T) {
	failing := ResolverFunc(func(path string) (bearimy.AssetHandle, error) {
		return nil, os.ErrNotExist
	})

	tests := []struct {
		name string
		doc  string
		r    Resolver
		kind ErrorKind
		want error
	}{
		{"syntax", `control_points = [[1.0, 2.0]`, nil, Malformed, ErrMalformed},
		{"duplicate key", "version = 1\nversion = 1\n", nil, Malformed, ErrMalformed},
		{"unknown key", "version = 1\ncontrol_points = [[0.0, 0.0], [1.0, 1.0]]\ncurve = 3\n", nil, TypeMismatch, ErrTypeMismatch},
		{"wrong type", "version = 1\ncontrol_points = \"square\"\n", nil, TypeMismatch, ErrTypeMismatch},
		{"short point", "version = 1\ncontrol_points = [[0.0, 0.0], [1.0]]\n", nil, TypeMismatch, ErrTypeMismatch},
		{"long size", "version = 1\nsize = [1.0, 2.0, 3.0]\ncontrol_points = [[0.0, 0.0], [1.0, 1.0]]\n", nil, TypeMismatch, ErrTypeMismatch},
		{"future version", "version = 2\ncontrol_points = [[0.0, 0.0], [1.0, 1.0]]\n", nil, TypeMismatch, ErrTypeMismatch},
		{"missing version", "control_points = [[0.0, 0.0], [1.0, 1.0]]\n", nil, TypeMismatch, ErrTypeMismatch},
		{"missing background", squareDoc, failing, UnresolvedAsset, ErrUnresolvedAsset},
		{"one point", "version = 1\ncontrol_points = [[0.0, 0.0]]\n", nil, Geometry, ErrGeometry},
		{"no points", "version = 1\n", nil, Geometry, ErrGeometry},
		{"infinite point", "version = 1\ncontrol_points = [[0.0, 0.0], [inf, 1.0]]\n", nil, Geometry, ErrGeometry},
		{"empty size", "version = 1\nsize = [0.0, 10.0]\ncontrol_points = [[0.0, 0.0], [1.0, 1.0]]\n", nil, Geometry, ErrGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Load([]byte(tt.doc), tt.r)
			require.Error(t, err)
			assert.Nil(t, m)
			assert.ErrorIs(t, err, tt.want)

			var le *LoadError
			require.ErrorAs(t, err, &le)
			assert.Equal(t, tt.kind, le.Kind)
		})
	}
}

func TestLoadGeometryWrapsCause(t *testing.T) {
	_, err := Load([]byte("version = 1\ncontrol_points = [[0.0, 0.0]]\n"), nil)
	assert.ErrorIs(t, err, bearimy.ErrInsufficientPoints)

	_, err = Load([]byte(squareDoc), ResolverFunc(func(string) (bearimy.AssetHandle, error) {
		return nil, os.ErrNotExist
	}))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadWarnsOnSelfIntersection(t *testing.T) {
	var buf bytes.Buffer
	bearimy.SetLogger(zerolog.New(&buf))
	t.Cleanup(func() { bearimy.SetLogger(zerolog.Nop()) })

	doc := "version = 1\ncontrol_points = [[0.0, 0.0], [10.0, 10.0], [10.0, 0.0], [0.0, 10.0]]\n"
	m, err := Load([]byte(doc), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, m.Polygon().Len())
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "intersects itself")
}

func TestRoundTrip(t *testing.T) {
	m, err := bearimy.NewMap([]bearimy.Point{
		bearimy.Pt(0.1, 0.2),
		bearimy.Pt(-123.456789, 1e-7),
		bearimy.Pt(1.0/3, 2.0/3),
	})
	require.NoError(t, err)
	m.AddMarker(bearimy.Pt(0.3, -0.7))
	m.SetSize(bearimy.Sz(1280, 720))
	m.SetBackground("bg.webp", nil)

	for _, pretty := range []bool{false, true} {
		data, err := Marshal(m, pretty)
		require.NoError(t, err)

		got, err := Load(data, nil)
		require.NoError(t, err)
		assert.Equal(t, m.ControlPoints(), got.ControlPoints())
		assert.Equal(t, m.Markers(), got.Markers())
		assert.Equal(t, m.Size(), got.Size())
		bg, _ := got.Background()
		assert.Equal(t, "bg.webp", bg)

		start, end := got.Curve().Domain()
		assert.Equal(t, 0.0, start)
		assert.Equal(t, 3.0, end)
	}
}

func TestSaveFormatting(t *testing.T) {
	m := bearimy.DefaultMap()

	compact, err := Marshal(m, false)
	require.NoError(t, err)
	pretty, err := Marshal(m, true)
	require.NoError(t, err)

	assert.Contains(t, string(compact), "version = 1")
	assert.NotContains(t, string(compact), "curve")
	assert.NotContains(t, string(compact), "markers")
	assert.NotContains(t, string(compact), "background")
	assert.Greater(t, strings.Count(string(pretty), "\n"), strings.Count(string(compact), "\n"))
}

func TestSavePrettyKeepsPairsInline(t *testing.T) {
	m := bearimy.DefaultMap()
	m.AddMarker(bearimy.Pt(5, -5))

	data, err := Marshal(m, true)
	require.NoError(t, err)
	text := string(data)

	assert.Regexp(t, `(?m)^size = \[1920(\.0)?, 1080(\.0)?\]$`, text)
	assert.Regexp(t, `(?m)^control_points = \[$`, text)
	assert.Regexp(t, `(?m)^markers = \[$`, text)

	pairs := regexp.MustCompile(`(?m)^\s+\[-?\d+(\.0)?, -?\d+(\.0)?\],?$`).FindAllString(text, -1)
	assert.Len(t, pairs, 5)
	// No coordinate sits on a line of its own.
	assert.NotRegexp(t, `(?m)^\s*-?\d+(\.\d+)?,?$`, text)
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "map.toml")

	m := bearimy.DefaultMap()
	m.AddMarker(bearimy.Pt(1, 2))
	require.NoError(t, SaveFile(path, m, true))

	got, err := LoadFile(path, nil)
	require.NoError(t, err)
	assert.Equal(t, m.ControlPoints(), got.ControlPoints())
	assert.Equal(t, m.Markers(), got.Markers())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file left behind")

	_, err = LoadFile(filepath.Join(dir, "missing.toml"), nil)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, os.WriteFile(path, []byte("version = 1\n"), 0o644))
	_, err = LoadFile(path, nil)
	assert.ErrorIs(t, err, ErrGeometry)
}
