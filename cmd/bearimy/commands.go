package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/Waridley/bearimy"
	"github.com/Waridley/bearimy/asset"
	"github.com/Waridley/bearimy/internal/config"
	"github.com/Waridley/bearimy/level"
	"github.com/Waridley/bearimy/loading"
	"github.com/Waridley/bearimy/mapfile"
	"github.com/spf13/pflag"
)

func resolver() *asset.FileResolver {
	return asset.NewFileResolver(config.GetString("assetRoot"), config.GetBool("probeImages"))
}

// loadMap loads the map at path, resolving its background against the asset
// root.
func loadMap(path string) (*bearimy.Map, error) {
	return mapfile.LoadFile(path, resolver())
}

// loadMapUnresolved loads the map at path without touching its background,
// for commands that only rewrite the file.
func loadMapUnresolved(path string) (*bearimy.Map, error) {
	return mapfile.LoadFile(path, nil)
}

func saveMap(e *env, path string, m *bearimy.Map) error {
	if err := mapfile.SaveFile(path, m, config.GetBool("pretty")); err != nil {
		return err
	}
	e.log.Info().Str("path", path).Msg("wrote map")
	return nil
}

func runNew(e *env, args []string) error {
	fs := e.flagSet("new")
	fs.Bool("pretty", false, "write one point per line")
	force := fs.Bool("force", false, "overwrite an existing file")
	path, err := e.parse(fs, args)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !*force {
		return fmt.Errorf("%s already exists", path)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return saveMap(e, path, bearimy.DefaultMap())
}

func runInfo(e *env, args []string) error {
	fs := e.flagSet("info")
	path, err := e.parse(fs, args)
	if err != nil {
		return err
	}
	m, err := loadMap(path)
	if err != nil {
		return err
	}

	poly := m.Polygon()
	bounds := m.BoundingRect()
	_, end := m.Curve().Domain()
	bg, h := m.Background()

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "control points:\t%d\n", poly.Len())
	fmt.Fprintf(tw, "markers:\t%d\n", len(m.Markers()))
	fmt.Fprintf(tw, "curve domain:\t[0, %g)\n", end)
	fmt.Fprintf(tw, "bounds:\t%s to %s\n", bounds.Min(), bounds.Max())
	fmt.Fprintf(tw, "center:\t%s\n", m.FindCenter())
	fmt.Fprintf(tw, "perimeter:\t%.4g\n", poly.Perimeter())
	fmt.Fprintf(tw, "simple:\t%t\n", poly.IsSimple())
	fmt.Fprintf(tw, "size:\t%s\n", m.Size())
	switch {
	case bg == "":
		fmt.Fprintf(tw, "background:\tnone\n")
	case h != nil:
		fmt.Fprintf(tw, "background:\t%s\n", h)
	default:
		fmt.Fprintf(tw, "background:\t%s\n", bg)
	}
	return tw.Flush()
}

// rewrite loads the map, applies edit and saves it to the output path.
func rewrite(e *env, name string, args []string, setup func(fs *pflag.FlagSet), edit func(m *bearimy.Map) error) error {
	fs := e.flagSet(name)
	fs.Bool("pretty", false, "write one point per line")
	out := fs.StringP("output", "o", "", "write to this file instead of the input")
	if setup != nil {
		setup(fs)
	}
	path, err := e.parse(fs, args)
	if err != nil {
		return err
	}
	m, err := loadMapUnresolved(path)
	if err != nil {
		return err
	}
	if edit != nil {
		if err := edit(m); err != nil {
			return err
		}
	}
	if *out != "" {
		path = *out
	}
	return saveMap(e, path, m)
}

func runFmt(e *env, args []string) error {
	return rewrite(e, "fmt", args, nil, nil)
}

func runScale(e *env, args []string) error {
	var width, height *float64
	return rewrite(e, "scale", args,
		func(fs *pflag.FlagSet) {
			width = fs.Float64("width", 0, "target bounding width")
			height = fs.Float64("height", 0, "target bounding height")
		},
		func(m *bearimy.Map) error {
			return m.ScaleTo(bearimy.Sz(*width, *height))
		})
}

func runRecenter(e *env, args []string) error {
	return rewrite(e, "recenter", args, nil, func(m *bearimy.Map) error {
		m.Recenter()
		return nil
	})
}

func runRotate(e *env, args []string) error {
	var by *int
	return rewrite(e, "rotate", args,
		func(fs *pflag.FlagSet) {
			by = fs.Int("by", 1, "places to shift the points towards the end of the list")
		},
		func(m *bearimy.Map) error {
			m.RotatePoints(*by)
			return nil
		})
}

func runSample(e *env, args []string) error {
	fs := e.flagSet("sample")
	resolution := fs.IntP("resolution", "n", 100, "number of intervals")
	path, err := e.parse(fs, args)
	if err != nil {
		return err
	}
	m, err := loadMapUnresolved(path)
	if err != nil {
		return err
	}
	n := config.GetInt("sample.resolution")
	if fs.Changed("resolution") {
		n = *resolution
	}
	if n <= 0 {
		return fmt.Errorf("resolution must be positive, got %d", n)
	}
	for pt := range m.Curve().Positions(n) {
		fmt.Fprintf(e.stdout, "%g %g\n", pt.X, pt.Y)
	}
	return nil
}

func runWalk(e *env, args []string) error {
	fs := e.flagSet("walk")
	start := fs.Float64("t", 0, "starting curve parameter")
	from := fs.String("from", "", "start at the curve point nearest to \"x,y\" instead of --t")
	speed := fs.Float64("speed", 1, "timeline speed")
	dt := fs.Duration("dt", 100*time.Millisecond, "time step")
	steps := fs.Int("steps", 10, "number of steps")
	path, err := e.parse(fs, args)
	if err != nil {
		return err
	}
	m, err := loadMapUnresolved(path)
	if err != nil {
		return err
	}
	c := m.Curve()

	pos := bearimy.TimelinePosition{T: *start, Speed: *speed}
	if *from != "" {
		var x, y float64
		if _, err := fmt.Sscanf(*from, "%g,%g", &x, &y); err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		t, _, ok := c.Nearest(bearimy.Pt(x, y), config.GetFloat("sample.accuracy"))
		if !ok {
			return bearimy.ErrEmptyCurve
		}
		pos.T = t
	}
	pos.T = c.Wrap(pos.T)

	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "step\tt\tx\ty")
	for i := range *steps {
		pt, err := pos.Advance(c, dt.Seconds())
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%d\t%.4f\t%.4f\t%.4f\n", i+1, pos.T, pt.X, pt.Y)
	}
	return tw.Flush()
}

func runLevels(e *env, args []string) error {
	fs := e.flagSet("levels")
	timeout := fs.Duration("timeout", 30*time.Second, "give up waiting for maps after this long")
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := config.GetString("levelList")
	if fs.NArg() > 0 {
		path = fs.Arg(0)
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	levels, err := level.LoadList(f)
	if err != nil {
		return err
	}

	var tasks loading.Tasks
	loader := loading.NewLoader(resolver(), loading.WithTasks(&tasks))
	root := config.GetString("assetRoot")
	reqs := make([]*loading.Request, len(levels))
	for i, l := range levels {
		reqs[i] = loader.Load(filepath.Join(root, l.Map))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	select {
	case <-tasks.Idle():
	case <-ctx.Done():
		return fmt.Errorf("still loading: %v", tasks.Pending())
	}

	var errs []error
	tw := tabwriter.NewWriter(e.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "level\tmap\tgoal\tduration\twaves\tstatus")
	for i, l := range levels {
		m, err := reqs[i].Wait(ctx)
		status := "ok"
		if err != nil {
			status = "error"
			errs = append(errs, fmt.Errorf("level %q: %w", l.Name, err))
		} else if !m.Polygon().IsSimple() {
			status = "self-intersecting"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s %d\t%s\t%d\t%s\n", l.Name, l.Map, l.Goal.Kind, l.Goal.Count, l.Duration, len(l.Waves), status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	return errors.Join(errs...)
}
