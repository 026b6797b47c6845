package isobuild

import (
	"cmp"
	"fmt"
	"image/color"
	"slices"
	"time"

	"github.com/tanema/gween/ease"
)

// frameBuildDuration is the length of the eased pan started by KeyF.
const frameBuildDuration = 0.4

// labelMinCell is the cell edge, in pixels, above which grid cells carry a
// short text label.
const labelMinCell = 30

// editorLayout caches panel geometry for one window size.
type editorLayout struct {
	iso  Rect
	grid Rect
	cell float64
}

// gridLabel is a short text drawn over a grid cell.
type gridLabel struct {
	text string
	at   Vec2
	c    color.NRGBA
}

type editorPointer struct {
	down  bool
	panel View
	lastX int
	lastZ int
}

// Editor is the interactive layer editor and isometric preview. It owns the
// voxel store, the viewport and the compositor, and turns input events into
// store edits and view transitions. Redraws are debounced per view; Draw
// only replays the most recently built command lists.
type Editor struct {
	cfg     Config
	store   *VoxelStore
	catalog *MapCatalog
	comp    *Compositor
	view    *Viewport
	sched   *RedrawScheduler
	now     func() time.Time

	theme Theme
	dark  bool
	layer int
	block string

	hoverX, hoverZ int
	hovering       bool

	width, height int
	layout        *editorLayout
	pointer       editorPointer

	injectQueue []Event
	runner      *ScriptRunner

	isoCmds    []DrawCommand
	gridCmds   []DrawCommand
	gridLabels []gridLabel
	info       string

	screenshotDir string
}

// NewEditor creates an editor. cat may be nil for DefaultCatalog; src may
// be nil to render every block flat.
func NewEditor(cfg Config, cat *MapCatalog, src TextureSource) *Editor {
	cfg.Validate()
	if cat == nil {
		cat = DefaultCatalog()
	}
	e := &Editor{
		cfg:           cfg,
		store:         NewVoxelStore(cfg.Grid.Size),
		catalog:       cat,
		comp:          NewCompositor(cfg, cat, src),
		now:           time.Now,
		dark:          cfg.Editor.DarkMode,
		block:         "stone",
		width:         cfg.Window.Width,
		height:        cfg.Window.Height,
		screenshotDir: cfg.Editor.ScreenshotDir,
	}
	if _, ok := cat.Lookup(e.block); !ok {
		if ids := cat.IDs(); len(ids) > 0 {
			e.block = ids[0]
		}
	}
	e.view = NewViewport(cfg.Zoom, e.comp)
	e.sched = NewRedrawScheduler(cfg.Redraw.Delay, func() time.Time { return e.now() })
	e.sched.Register(ViewGrid, e.rebuildGrid)
	e.sched.Register(ViewIso, e.rebuildIso)
	e.applyTheme()
	e.refreshInfo()
	e.sched.Schedule(ViewGrid)
	e.sched.Schedule(ViewIso)
	return e
}

// SetClock replaces the time source used for debouncing.
func (e *Editor) SetClock(now func() time.Time) {
	e.now = now
}

// SetDebugMode enables per-frame stats logging.
func (e *Editor) SetDebugMode(on bool) {
	e.comp.SetDebugMode(on)
}

func (e *Editor) Store() *VoxelStore          { return e.store }
func (e *Editor) Viewport() *Viewport         { return e.view }
func (e *Editor) Compositor() *Compositor     { return e.comp }
func (e *Editor) Scheduler() *RedrawScheduler { return e.sched }
func (e *Editor) Catalog() *MapCatalog        { return e.catalog }
func (e *Editor) Config() Config              { return e.cfg }
func (e *Editor) Layer() int                  { return e.layer }
func (e *Editor) Block() string               { return e.block }
func (e *Editor) Info() string                { return e.info }
func (e *Editor) DarkMode() bool              { return e.dark }
func (e *Editor) Theme() Theme                { return e.theme }

// IsoCommands returns the draw commands of the last isometric redraw.
func (e *Editor) IsoCommands() []DrawCommand { return e.isoCmds }

// Hover returns the hovered grid cell.
func (e *Editor) Hover() (x, z int, ok bool) {
	return e.hoverX, e.hoverZ, e.hovering
}

// --- Layout ---

func (e *Editor) layoutFor() *editorLayout {
	if e.layout != nil {
		return e.layout
	}
	w, h := float64(e.width), float64(e.height)
	p := min(float64(e.cfg.Window.GridPanel), h, w/2)
	l := &editorLayout{
		iso:  Rect{X: 0, Y: 0, Width: w - p, Height: h},
		grid: Rect{X: w - p, Y: 0, Width: p, Height: p},
	}
	l.cell = p / float64(e.store.Size())
	e.layout = l
	return l
}

// IsoRect returns the isometric panel rectangle.
func (e *Editor) IsoRect() Rect { return e.layoutFor().iso }

// GridRect returns the layer editor panel rectangle.
func (e *Editor) GridRect() Rect { return e.layoutFor().grid }

// CellCenter returns the window position of the center of grid cell (x, z).
func (e *Editor) CellCenter(x, z int) Vec2 {
	l := e.layoutFor()
	return Vec2{
		X: l.grid.X + (float64(x)+0.5)*l.cell,
		Y: l.grid.Y + (float64(z)+0.5)*l.cell,
	}
}

// Resize sets the window size, dropping the cached layout.
func (e *Editor) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	e.width, e.height = width, height
	e.layout = nil
	e.scheduleAll()
}

func (e *Editor) cellAt(x, y float64) (cx, cz int, ok bool) {
	l := e.layoutFor()
	if !l.grid.Contains(x, y) || l.cell <= 0 {
		return 0, 0, false
	}
	cx = int((x - l.grid.X) / l.cell)
	cz = int((y - l.grid.Y) / l.cell)
	size := e.store.Size()
	if cx < 0 || cx >= size || cz < 0 || cz >= size {
		return 0, 0, false
	}
	return cx, cz, true
}

// --- Edits ---

// SetLayer selects the edited layer, clamped to the grid.
func (e *Editor) SetLayer(y int) {
	y = min(max(y, 0), e.store.Size()-1)
	if y == e.layer {
		return
	}
	e.layer = y
	e.sched.Schedule(ViewGrid)
}

// SetBlock selects the block placed by clicks. Unknown ids are rejected.
func (e *Editor) SetBlock(id string) bool {
	if _, ok := e.catalog.Lookup(id); !ok {
		return false
	}
	e.block = id
	return true
}

// CycleBlock moves the selection dir steps through the catalog order.
func (e *Editor) CycleBlock(dir int) {
	ids := e.catalog.IDs()
	if len(ids) == 0 {
		return
	}
	cur := 0
	for i, id := range ids {
		if id == e.block {
			cur = i
			break
		}
	}
	n := len(ids)
	e.block = ids[((cur+dir)%n+n)%n]
}

// Place applies the selected block at (x, z) on the current layer. Cells
// outside the grid are ignored. It reports whether the store changed.
func (e *Editor) Place(x, z int) bool {
	c := Coord{X: x, Z: z, Y: e.layer}
	if !c.InBounds(e.store.Size()) {
		return false
	}
	prev, had := e.store.Get(c)
	e.store.Set(c, e.block)
	cur, has := e.store.Get(c)
	if had == has && prev == cur {
		return false
	}
	e.refreshInfo()
	e.scheduleAll()
	return true
}

// Clear empties the build and flushes the render caches.
func (e *Editor) Clear() {
	e.store.Clear()
	e.comp.FlushTextures()
	e.comp.InvalidateRotation()
	e.refreshInfo()
	e.scheduleAll()
	Logger().Info("build cleared")
}

// Save writes the build to path, or to the configured save path when path
// is empty.
func (e *Editor) Save(path string) error {
	if path == "" {
		path = e.cfg.Editor.SavePath
	}
	return SaveBuildFile(path, e.store)
}

// Load replaces the build with the one at path, or at the configured save
// path when path is empty.
func (e *Editor) Load(path string) (LoadReport, error) {
	if path == "" {
		path = e.cfg.Editor.SavePath
	}
	rep, err := LoadBuildFile(path, e.store, e.catalog)
	if err != nil {
		return rep, err
	}
	e.layer = min(e.layer, e.store.Size()-1)
	e.layout = nil
	e.comp.InvalidateRotation()
	e.refreshInfo()
	e.scheduleAll()
	return rep, nil
}

// ResetView restores the default view and drops the layout cache.
func (e *Editor) ResetView() {
	e.view.Reset()
	e.layout = nil
	e.sched.Schedule(ViewIso)
}

// FrameBuild starts an eased pan that centers the occupied region.
func (e *Editor) FrameBuild() bool {
	target, ok := e.view.CenterOffset(e.store, e.comp.TileWidth)
	if !ok {
		return false
	}
	e.view.ScrollTo(target, frameBuildDuration, ease.OutCubic)
	return true
}

// ToggleTheme switches between the light and dark palettes.
func (e *Editor) ToggleTheme() {
	e.dark = !e.dark
	e.applyTheme()
	e.scheduleAll()
}

func (e *Editor) applyTheme() {
	if e.dark {
		e.theme = DarkTheme
	} else {
		e.theme = LightTheme
	}
}

func (e *Editor) scheduleAll() {
	e.sched.Schedule(ViewGrid)
	e.sched.Schedule(ViewIso)
}

func (e *Editor) refreshInfo() {
	mu, ok := e.store.MostUsed()
	if !ok {
		e.info = "Total Blocks: 0"
		return
	}
	e.info = fmt.Sprintf("Total Blocks: %d | Most used: %s (%d)", e.store.Len(), mu.ID, mu.Count)
}

// --- Events ---

// HandleEvent applies one input event.
func (e *Editor) HandleEvent(ev Event) {
	switch ev.Type {
	case EventPointerDown:
		e.pointerDown(ev)
	case EventPointerMove:
		e.pointerMove(ev)
	case EventPointerUp:
		e.pointerUp()
	case EventPointerLeave:
		e.pointerUp()
		e.setHover(0, 0, false)
	case EventScroll:
		if e.layoutFor().iso.Contains(ev.X, ev.Y) && e.view.ZoomBy(ev.Delta) {
			e.sched.Schedule(ViewIso)
		}
	case EventResize:
		e.Resize(ev.Width, ev.Height)
	case EventKey:
		e.handleKey(ev.Key, ev.Mods)
	}
}

func (e *Editor) pointerDown(ev Event) {
	if ev.Button != MouseButtonLeft {
		return
	}
	l := e.layoutFor()
	switch {
	case l.grid.Contains(ev.X, ev.Y):
		e.pointer = editorPointer{down: true, panel: ViewGrid, lastX: -1, lastZ: -1}
		e.paintAt(ev.X, ev.Y)
	case l.iso.Contains(ev.X, ev.Y):
		e.pointer = editorPointer{down: true, panel: ViewIso}
		e.view.StartPan(Vec2{ev.X, ev.Y})
	}
}

func (e *Editor) pointerMove(ev Event) {
	x, z, inGrid := e.cellAt(ev.X, ev.Y)
	e.setHover(x, z, inGrid)
	if !e.pointer.down {
		return
	}
	switch e.pointer.panel {
	case ViewGrid:
		e.paintAt(ev.X, ev.Y)
	case ViewIso:
		if e.view.DragPan(Vec2{ev.X, ev.Y}) {
			e.sched.Schedule(ViewIso)
		}
	}
}

func (e *Editor) pointerUp() {
	if e.pointer.down && e.pointer.panel == ViewIso {
		e.view.EndPan()
	}
	e.pointer.down = false
}

// paintAt places the selected block under (x, y) once per entered cell.
func (e *Editor) paintAt(x, y float64) {
	cx, cz, ok := e.cellAt(x, y)
	if !ok || (cx == e.pointer.lastX && cz == e.pointer.lastZ) {
		return
	}
	e.pointer.lastX, e.pointer.lastZ = cx, cz
	e.Place(cx, cz)
}

func (e *Editor) setHover(x, z int, ok bool) {
	if ok == e.hovering && (!ok || (x == e.hoverX && z == e.hoverZ)) {
		return
	}
	e.hoverX, e.hoverZ, e.hovering = x, z, ok
	e.sched.Schedule(ViewGrid)
}

func (e *Editor) handleKey(k Key, mods KeyModifiers) {
	switch {
	case k == KeyS && mods&ModCtrl != 0:
		if err := e.Save(""); err != nil {
			Logger().Warn("save failed", "err", err)
		}
	case k == KeyO && mods&ModCtrl != 0:
		if _, err := e.Load(""); err != nil {
			Logger().Warn("load failed", "err", err)
		}
	case k == KeyDelete && mods&ModShift != 0:
		e.Clear()
	case k == KeyQ:
		e.view.RotateLeft()
		e.sched.Schedule(ViewIso)
	case k == KeyE:
		e.view.RotateRight()
		e.sched.Schedule(ViewIso)
	case k == KeyR:
		e.ResetView()
	case k == KeyF:
		e.FrameBuild()
	case k == KeyW || k == KeyUp:
		e.SetLayer(e.layer + 1)
	case k == KeyS || k == KeyDown:
		e.SetLayer(e.layer - 1)
	case k == KeyBracketLeft:
		e.CycleBlock(-1)
	case k == KeyBracketRight:
		e.CycleBlock(1)
	case k == KeyT:
		e.ToggleTheme()
	case k == KeyF3:
		e.comp.SetDebugMode(!e.comp.debug)
	}
}

// --- Frame loop ---

// Update consumes at most one injected event, advances the view animation
// by dt seconds and fires due redraws.
func (e *Editor) Update(dt float32) {
	if e.runner != nil {
		e.runner.step(e)
	}
	e.processInjected()
	e.tick(dt)
}

func (e *Editor) tick(dt float32) {
	if e.view.Update(dt) {
		e.sched.Schedule(ViewIso)
	}
	e.sched.Tick(e.now())
}

// Flush fires all pending redraws immediately.
func (e *Editor) Flush() {
	e.sched.Flush()
}

func (e *Editor) rebuildIso() {
	l := e.layoutFor()
	e.isoCmds = e.comp.RenderFrame(e.store, e.view.State(), l.iso.Size())
}

func (e *Editor) rebuildGrid() {
	l := e.layoutFor()
	g, cell := l.grid, l.cell
	size := e.store.Size()
	th := e.theme

	cmds := e.gridCmds[:0]
	labels := e.gridLabels[:0]
	box := func(x, y, w, h float64) [4]Vec2 {
		return [4]Vec2{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	}
	cellBox := func(x, z int) [4]Vec2 {
		return box(g.X+float64(x)*cell, g.Y+float64(z)*cell, cell, cell)
	}
	label := func(id string, x, z int, c color.NRGBA) {
		if cell <= labelMinCell {
			return
		}
		if len(id) > 3 {
			id = id[:3]
		}
		labels = append(labels, gridLabel{text: id, at: Vec2{g.X + (float64(x)+0.5)*cell, g.Y + (float64(z)+0.5)*cell}, c: c})
	}

	cmds = append(cmds, DrawCommand{Type: CommandPolygon, Points: box(g.X, g.Y, g.Width, g.Height), Fill: th.Canvas, HasFill: true})
	for i := 0; i <= size; i++ {
		o := float64(i) * cell
		cmds = append(cmds,
			DrawCommand{Type: CommandPolygon, Points: box(g.X+o-0.5, g.Y, 1, g.Height), Fill: th.GridLine, HasFill: true},
			DrawCommand{Type: CommandPolygon, Points: box(g.X, g.Y+o-0.5, g.Width, 1), Fill: th.GridLine, HasFill: true},
		)
	}

	cur, ghost := e.layerCells(size)

	// Ghost cells: the layer below, where the current layer is empty.
	for _, gc := range ghost {
		cmds = append(cmds, DrawCommand{
			Type: CommandPolygon, Points: cellBox(gc.x, gc.z),
			Fill: GhostColor(gc.def.Color), HasFill: true,
			Stroke: th.GhostOutline, StrokeWidth: 1,
		})
		label(gc.id, gc.x, gc.z, th.GhostText)
	}

	for _, gc := range cur {
		cmds = append(cmds, DrawCommand{
			Type: CommandPolygon, Points: cellBox(gc.x, gc.z),
			Fill: gc.def.Color, HasFill: true,
			Stroke: colorBlack, StrokeWidth: 1,
		})
		label(gc.id, gc.x, gc.z, th.LabelText)
	}

	if e.hovering {
		cmds = append(cmds, DrawCommand{
			Type: CommandPolygon, Points: cellBox(e.hoverX, e.hoverZ),
			Stroke: th.Hover, StrokeWidth: 2,
		})
	}
	e.gridCmds = cmds
	e.gridLabels = labels
}

type gridCell struct {
	x, z int
	id   string
	def  BlockDef
}

// layerCells collects the known blocks of the current layer and the ghost
// cells of the layer below in one pass over the store, so the cost follows
// the block count rather than the grid area. Both are sorted by (x, z).
func (e *Editor) layerCells(size int) (cur, ghost []gridCell) {
	var below []gridCell
	occupied := make(map[xz]struct{})
	e.store.Each(func(c Coord, id string) {
		if c.X < 0 || c.Z < 0 || c.X >= size || c.Z >= size {
			return
		}
		if c.Y != e.layer && (e.layer == 0 || c.Y != e.layer-1) {
			return
		}
		if c.Y == e.layer {
			occupied[xz{c.X, c.Z}] = struct{}{}
		}
		def, ok := e.catalog.Lookup(id)
		if !ok {
			return
		}
		if c.Y == e.layer {
			cur = append(cur, gridCell{c.X, c.Z, id, def})
		} else {
			below = append(below, gridCell{c.X, c.Z, id, def})
		}
	})
	for _, gc := range below {
		if _, ok := occupied[xz{gc.x, gc.z}]; !ok {
			ghost = append(ghost, gc)
		}
	}
	byCell := func(a, b gridCell) int {
		if a.x != b.x {
			return cmp.Compare(a.x, b.x)
		}
		return cmp.Compare(a.z, b.z)
	}
	slices.SortFunc(cur, byCell)
	slices.SortFunc(ghost, byCell)
	return cur, ghost
}

// Draw paints the whole window onto s from the last built command lists.
func (e *Editor) Draw(s Surface) {
	l := e.layoutFor()
	s.Clear(e.theme.Background)
	e.drawIso(s, l)
	Submit(e.gridCmds, s)
	if ts, ok := s.(TextSurface); ok {
		for _, lb := range e.gridLabels {
			ts.DrawText(lb.text, Vec2{lb.at.X - 9, lb.at.Y - 8}, lb.c)
		}
		status := fmt.Sprintf("Layer %d/%d | Block: %s", e.layer, e.store.Size()-1, e.block)
		ts.DrawText(status, Vec2{l.grid.X + 4, l.grid.Y + l.grid.Height + 8}, e.theme.Text)
	}
}

// DrawIso paints only the isometric panel onto s. The panel's top-left
// corner is the surface origin.
func (e *Editor) DrawIso(s Surface) {
	l := e.layoutFor()
	s.Clear(e.theme.IsoCanvas)
	Submit(e.isoCmds, s)
	if ts, ok := s.(TextSurface); ok {
		ts.DrawText(e.info, Vec2{4, l.iso.Height - 16}, e.theme.Text)
	}
}

func (e *Editor) drawIso(s Surface, l *editorLayout) {
	iso := l.iso
	s.DrawPolygon([]Vec2{{iso.X, iso.Y}, {iso.X + iso.Width, iso.Y}, {iso.X + iso.Width, iso.Y + iso.Height}, {iso.X, iso.Y + iso.Height}},
		e.theme.IsoCanvas, true, color.NRGBA{}, 0)
	Submit(e.isoCmds, s)
	if ts, ok := s.(TextSurface); ok {
		ts.DrawText(e.info, Vec2{iso.X + 4, iso.Y + iso.Height - 16}, e.theme.Text)
	}
}
