package main

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	"github.com/Waridley/bearimy"
	"github.com/Waridley/bearimy/internal/config"
	"github.com/Waridley/bearimy/loading"
	"github.com/Waridley/bearimy/mapfile"
	"github.com/gdamore/tcell/v2"
	"github.com/rs/zerolog"
)

// Terminal cells are roughly twice as tall as they are wide.
const cellAspect = 2

const (
	minScale = 0.05
	maxScale = 1000
)

var (
	curveStyle    = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	pointStyle    = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	markerStyle   = tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true)
	selectedStyle = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
	statusStyle   = tcell.StyleDefault.Reverse(true)
)

func runEdit(e *env, args []string) error {
	fset := e.flagSet("edit")
	fset.Bool("pretty", false, "write one point per line when saving")
	path, err := e.parse(fset, args)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	ed := newEditor(screen, path, e.log)
	ed.open(loading.NewLoader(resolver()))
	ed.run()
	if ed.dirty {
		e.log.Warn().Str("path", path).Msg("quit with unsaved changes")
	}
	return nil
}

// editor is an interactive map editor. The left button drags the control
// point or marker under the pointer, or inserts a control point into the
// nearest edge when there is none. The right button removes.
type editor struct {
	screen tcell.Screen
	slot   *loading.Slot
	path   string
	log    zerolog.Logger
	save   func(path string, m *bearimy.Map, pretty bool) error

	grabRadius float64
	panSpeed   float64
	zoomStep   float64

	// center is the world point at the middle of the drawing area and scale
	// the width of one cell in world units.
	center bearimy.Point
	scale  float64

	loading    bool
	markerMode bool
	dragging   bearimy.Handle
	buttons    tcell.ButtonMask

	dirty       bool
	confirmQuit bool
	quit        bool
	status      string
}

func newEditor(screen tcell.Screen, path string, log zerolog.Logger) *editor {
	return &editor{
		screen:     screen,
		slot:       loading.NewSlot(bearimy.DefaultMap()),
		path:       path,
		log:        log,
		save:       mapfile.SaveFile,
		grabRadius: config.GetFloat("editor.grabRadius"),
		panSpeed:   config.GetFloat("editor.panSpeed"),
		zoomStep:   config.GetFloat("editor.zoomStep"),
		scale:      5,
	}
}

func (ed *editor) m() *bearimy.Map { return ed.slot.Current() }

// open starts loading the map at ed.path. A missing file leaves the default
// map in place, to be written on the first save.
func (ed *editor) open(l *loading.Loader) {
	if _, err := os.Stat(ed.path); errors.Is(err, fs.ErrNotExist) {
		ed.setStatus("new map %s", ed.path)
		ed.fit()
		return
	}
	req := l.Load(ed.path)
	ed.loading = true
	ed.setStatus("loading %s", ed.path)
	go func() {
		<-req.Done()
		ed.screen.PostEvent(tcell.NewEventInterrupt(req))
	}()
}

func (ed *editor) run() {
	ed.draw()
	for !ed.quit {
		ev := ed.screen.PollEvent()
		if ev == nil {
			return
		}
		ed.handle(ev)
		ed.draw()
	}
}

func (ed *editor) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		ed.screen.Sync()
	case *tcell.EventInterrupt:
		if req, ok := ev.Data().(*loading.Request); ok {
			ed.installed(req)
		}
	case *tcell.EventKey:
		ed.key(ev.Key(), ev.Rune(), ev.Modifiers())
	case *tcell.EventMouse:
		x, y := ev.Position()
		ed.mouse(x, y, ev.Buttons())
	}
}

func (ed *editor) installed(req *loading.Request) {
	ed.loading = false
	if _, err := ed.slot.Install(req); err != nil {
		ed.log.Error().Err(err).Str("path", req.Path()).Msg("failed to load map")
		ed.setStatus("load failed, editing the default map: %s", err)
		return
	}
	ed.setStatus("loaded %s", req.Path())
	ed.fit()
}

func (ed *editor) key(k tcell.Key, r rune, mod tcell.ModMask) {
	if k != tcell.KeyRune || r != 'q' {
		ed.confirmQuit = false
	}
	switch k {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		ed.quit = true
	case tcell.KeyCtrlS:
		ed.write()
	case tcell.KeyLeft:
		ed.pan(-1, 0)
	case tcell.KeyRight:
		ed.pan(1, 0)
	case tcell.KeyUp:
		ed.pan(0, 1)
	case tcell.KeyDown:
		ed.pan(0, -1)
	case tcell.KeyRune:
		ed.command(r)
	}
}

func (ed *editor) command(r rune) {
	switch r {
	case 'q':
		if ed.dirty && !ed.confirmQuit {
			ed.confirmQuit = true
			ed.setStatus("unsaved changes, press q again to quit")
			return
		}
		ed.quit = true
	case 'm':
		ed.markerMode = !ed.markerMode
		if ed.markerMode {
			ed.setStatus("click to place a marker")
		} else {
			ed.setStatus("")
		}
	case '[', ']':
		if ed.loading {
			return
		}
		offset := 1
		if r == '[' {
			offset = -1
		}
		ed.m().RotatePoints(offset)
		ed.dirty = true
		ed.setStatus("rotated control points by %d", offset)
	case 'r':
		if ed.loading {
			return
		}
		ed.m().Recenter()
		ed.dirty = true
		ed.fit()
	case 'f':
		ed.fit()
	case '+', '=':
		ed.zoom(1 / ed.zoomStep)
	case '-':
		ed.zoom(ed.zoomStep)
	}
}

func (ed *editor) mouse(x, y int, btn tcell.ButtonMask) {
	pt := ed.toWorld(x, y)
	pressed := btn &^ ed.buttons
	ed.buttons = btn & (tcell.Button1 | tcell.Button2 | tcell.Button3)

	switch {
	case btn&tcell.WheelUp != 0:
		ed.zoom(1 / ed.zoomStep)
	case btn&tcell.WheelDown != 0:
		ed.zoom(ed.zoomStep)
	case ed.loading:
	case pressed&tcell.Button1 != 0:
		ed.press(pt)
	case btn&tcell.Button1 != 0:
		ed.drag(pt)
	case pressed&tcell.Button2 != 0:
		ed.remove(pt)
	case btn == tcell.ButtonNone:
		ed.dragging = bearimy.None
	}
}

func (ed *editor) press(pt bearimy.Point) {
	m := ed.m()
	if ed.markerMode {
		i := m.AddMarker(pt)
		ed.markerMode = false
		ed.dragging = bearimy.Marker(i)
		ed.dirty = true
		ed.setStatus("added marker %d", i)
		return
	}
	if h := m.InteractableHandle(pt, ed.radius()); !h.IsNone() {
		ed.dragging = h
		ed.setStatus("grabbed %s", h)
		return
	}
	i, err := m.AddPoint(pt)
	if err != nil {
		ed.setStatus("%s", err)
		return
	}
	ed.dragging = bearimy.ControlPoint(i)
	ed.dirty = true
	ed.setStatus("inserted control point %d", i)
}

func (ed *editor) drag(pt bearimy.Point) {
	if ed.dragging.IsNone() {
		return
	}
	if err := ed.m().MoveHandle(ed.dragging, pt); err != nil {
		ed.setStatus("%s", err)
		ed.dragging = bearimy.None
		return
	}
	ed.dirty = true
}

func (ed *editor) remove(pt bearimy.Point) {
	h := ed.m().InteractableHandle(pt, ed.radius())
	if h.IsNone() {
		return
	}
	if _, err := ed.m().RemoveHandle(h); err != nil {
		ed.setStatus("%s", err)
		return
	}
	ed.dragging = bearimy.None
	ed.dirty = true
	ed.setStatus("removed %s", h)
}

func (ed *editor) write() {
	if ed.loading {
		ed.setStatus("still loading %s", ed.path)
		return
	}
	if err := ed.save(ed.path, ed.m(), config.GetBool("pretty")); err != nil {
		ed.log.Error().Err(err).Str("path", ed.path).Msg("failed to save map")
		ed.setStatus("save failed: %s", err)
		return
	}
	ed.dirty = false
	ed.log.Info().Str("path", ed.path).Msg("saved map")
	ed.setStatus("saved %s", ed.path)
}

// radius is the grab radius in world units. It never drops below the height
// of one cell so that every handle drawn on screen can be grabbed.
func (ed *editor) radius() float64 {
	return max(ed.grabRadius, ed.scale*cellAspect)
}

func (ed *editor) pan(dx, dy float64) {
	step := ed.panSpeed * ed.scale
	ed.center = ed.center.Translate(bearimy.Vec2{X: dx * step, Y: dy * step * cellAspect})
}

func (ed *editor) zoom(f float64) {
	ed.scale = min(max(ed.scale*f, minScale), maxScale)
}

// fit centers the view on the map and zooms so the whole curve is visible.
func (ed *editor) fit() {
	m := ed.m()
	b := m.Curve().Bounds().Union(m.BoundingRect())
	ed.center = b.Center()
	w, h := ed.screen.Size()
	cols, rows := float64(max(w-2, 1)), float64(max(h-3, 1))
	ed.scale = min(max(b.Width()/cols, b.Height()/(rows*cellAspect), minScale), maxScale)
}

// origin returns the cell the view center is drawn at. The last row is
// reserved for the status line.
func (ed *editor) origin() (int, int) {
	w, h := ed.screen.Size()
	return w / 2, (h - 1) / 2
}

func (ed *editor) toScreen(pt bearimy.Point) (int, int) {
	cx, cy := ed.origin()
	x := cx + int(math.Round((pt.X-ed.center.X)/ed.scale))
	y := cy - int(math.Round((pt.Y-ed.center.Y)/(ed.scale*cellAspect)))
	return x, y
}

func (ed *editor) toWorld(x, y int) bearimy.Point {
	cx, cy := ed.origin()
	return bearimy.Pt(
		ed.center.X+float64(x-cx)*ed.scale,
		ed.center.Y+float64(cy-y)*ed.scale*cellAspect,
	)
}

func (ed *editor) setStatus(format string, args ...any) {
	ed.status = fmt.Sprintf(format, args...)
}

func (ed *editor) set(x, y int, r rune, style tcell.Style) {
	w, h := ed.screen.Size()
	if x < 0 || y < 0 || x >= w || y >= h-1 {
		return
	}
	ed.screen.SetContent(x, y, r, nil, style)
}

func (ed *editor) draw() {
	ed.screen.Clear()
	m := ed.m()

	c := m.Curve()
	for pt := range c.Positions(c.Len() * 64) {
		x, y := ed.toScreen(pt)
		ed.set(x, y, '·', curveStyle)
	}
	for i, pt := range m.Polygon().All() {
		x, y := ed.toScreen(pt)
		style := pointStyle
		if ed.dragging == bearimy.ControlPoint(i) {
			style = selectedStyle
		}
		ed.set(x, y, 'o', style)
	}
	for i, pt := range m.Markers() {
		x, y := ed.toScreen(pt)
		style := markerStyle
		if ed.dragging == bearimy.Marker(i) {
			style = selectedStyle
		}
		ed.set(x, y, 'x', style)
	}
	ed.drawStatus()
	ed.screen.Show()
}

func (ed *editor) drawStatus() {
	w, h := ed.screen.Size()
	m := ed.m()
	line := fmt.Sprintf(" %s  points %d  markers %d", ed.path, m.Polygon().Len(), len(m.Markers()))
	if ed.dirty {
		line += " [modified]"
	}
	if ed.markerMode {
		line += " [marker]"
	}
	if ed.status != "" {
		line += "  " + ed.status
	}
	x := 0
	for _, r := range line {
		if x >= w {
			break
		}
		ed.screen.SetContent(x, h-1, r, nil, statusStyle)
		x++
	}
	for ; x < w; x++ {
		ed.screen.SetContent(x, h-1, ' ', nil, statusStyle)
	}
}
