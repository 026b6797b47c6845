package isobuild

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// viewCaches is the set of caches a viewport transition can invalidate.
// *Compositor implements it.
type viewCaches interface {
	InvalidateRotation()
	FlushTextures()
}

// panAnim holds active scroll-to tweens for the pan offset.
type panAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Viewport owns rotation, zoom and pan of the isometric view.
type Viewport struct {
	rotation Rotation
	zoom     float64
	pan      Vec2

	cfg       ZoomConfig
	caches    viewCaches
	zoomSteps int

	panning bool
	panLast Vec2

	scroll *panAnim
}

// NewViewport creates a viewport at cfg.Initial zoom. caches may be nil.
func NewViewport(cfg ZoomConfig, caches viewCaches) *Viewport {
	return &Viewport{
		zoom:   clamp(cfg.Initial, cfg.Min, cfg.Max),
		cfg:    cfg,
		caches: caches,
	}
}

// State returns the current view state.
func (v *Viewport) State() ViewState {
	return ViewState{Rotation: v.rotation, Zoom: v.zoom, Pan: v.pan}
}

func (v *Viewport) Rotation() Rotation { return v.rotation }
func (v *Viewport) Zoom() float64      { return v.zoom }
func (v *Viewport) Pan() Vec2          { return v.pan }

// RotateLeft turns the view 90 degrees counter-clockwise.
func (v *Viewport) RotateLeft() {
	v.setRotation(v.rotation.Left())
}

// RotateRight turns the view 90 degrees clockwise.
func (v *Viewport) RotateRight() {
	v.setRotation(v.rotation.Right())
}

func (v *Viewport) setRotation(r Rotation) {
	v.rotation = r
	if v.caches != nil {
		v.caches.InvalidateRotation()
	}
}

// ZoomBy multiplies (in > 0) or divides (in < 0) the zoom by the configured
// factor, clamped to [Min, Max]. It reports whether the change exceeds the
// epsilon and therefore warrants a redraw. Smaller changes are still kept so
// repeated steps at tiny zoom levels accumulate. Every ClearEvery effective
// steps the texture cache is flushed.
func (v *Viewport) ZoomBy(in float64) bool {
	if in == 0 {
		return false
	}
	old := v.zoom
	if in > 0 {
		v.zoom *= v.cfg.Factor
	} else {
		v.zoom /= v.cfg.Factor
	}
	v.zoom = clamp(v.zoom, v.cfg.Min, v.cfg.Max)
	if math.Abs(v.zoom-old) <= v.cfg.Epsilon {
		return false
	}
	v.zoomSteps++
	if v.cfg.ClearEvery > 0 && v.zoomSteps%v.cfg.ClearEvery == 0 && v.caches != nil {
		v.caches.FlushTextures()
	}
	return true
}

// SetZoom sets the zoom directly, clamped.
func (v *Viewport) SetZoom(z float64) {
	v.zoom = clamp(z, v.cfg.Min, v.cfg.Max)
}

// StartPan begins a drag gesture at screen position p.
func (v *Viewport) StartPan(p Vec2) {
	v.panning = true
	v.panLast = p
	v.scroll = nil
}

// DragPan moves the drag gesture to p, accumulating the delta into the pan
// offset. It reports whether the offset changed.
func (v *Viewport) DragPan(p Vec2) bool {
	if !v.panning {
		return false
	}
	dx, dy := p.X-v.panLast.X, p.Y-v.panLast.Y
	v.panLast = p
	if dx == 0 && dy == 0 {
		return false
	}
	v.PanBy(dx, dy)
	return true
}

// EndPan finishes the drag gesture.
func (v *Viewport) EndPan() {
	v.panning = false
}

// Panning reports whether a drag gesture is active.
func (v *Viewport) Panning() bool {
	return v.panning
}

// PanBy adds (dx, dy) to the pan offset. There is no clamping.
func (v *Viewport) PanBy(dx, dy float64) {
	v.pan.X += dx
	v.pan.Y += dy
}

// Reset restores rotation 0, the default zoom and zero pan, and drops the
// rotation memo.
func (v *Viewport) Reset() {
	v.rotation = Rotation0
	v.zoom = clamp(v.cfg.Default, v.cfg.Min, v.cfg.Max)
	v.pan = Vec2{}
	v.panning = false
	v.scroll = nil
	if v.caches != nil {
		v.caches.InvalidateRotation()
	}
}

// ScrollTo animates the pan offset to target over duration seconds.
func (v *Viewport) ScrollTo(target Vec2, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	v.scroll = &panAnim{
		tweenX: gween.New(float32(v.pan.X), float32(target.X), duration, easeFn),
		tweenY: gween.New(float32(v.pan.Y), float32(target.Y), duration, easeFn),
	}
}

// Scrolling reports whether a ScrollTo animation is running.
func (v *Viewport) Scrolling() bool {
	return v.scroll != nil
}

// Update advances the scroll animation by dt seconds and reports whether the
// pan offset changed.
func (v *Viewport) Update(dt float32) bool {
	if v.scroll == nil {
		return false
	}
	prev := v.pan
	if !v.scroll.doneX {
		val, done := v.scroll.tweenX.Update(dt)
		v.pan.X = float64(val)
		v.scroll.doneX = done
	}
	if !v.scroll.doneY {
		val, done := v.scroll.tweenY.Update(dt)
		v.pan.Y = float64(val)
		v.scroll.doneY = done
	}
	if v.scroll.doneX && v.scroll.doneY {
		v.scroll = nil
	}
	return v.pan != prev
}

// CenterOffset returns the pan offset that brings the middle of the
// occupied region of store to the canvas center, for the current rotation
// and zoom. ok is false for an empty store.
func (v *Viewport) CenterOffset(store *VoxelStore, tileWidth float64) (Vec2, bool) {
	lo, hi, ok := store.Bounds()
	if !ok {
		return Vec2{}, false
	}
	size := store.Size()
	p := Projector{TileWidth: tileWidth, rotated: make(map[xz]xz)}
	var minX, minY, maxX, maxY float64
	first := true
	for _, c := range [...]Coord{
		{lo.X, lo.Z, lo.Y}, {hi.X, lo.Z, lo.Y}, {lo.X, hi.Z, lo.Y}, {hi.X, hi.Z, lo.Y},
		{lo.X, lo.Z, hi.Y}, {hi.X, lo.Z, hi.Y}, {lo.X, hi.Z, hi.Y}, {hi.X, hi.Z, hi.Y},
	} {
		dx, dy, _ := p.Project(c, v.rotation, v.zoom, size)
		if first {
			minX, maxX, minY, maxY = dx, dx, dy, dy
			first = false
			continue
		}
		minX, maxX = math.Min(minX, dx), math.Max(maxX, dx)
		minY, maxY = math.Min(minY, dy), math.Max(maxY, dy)
	}
	// Anchors sit on the top vertex; the voxel body extends one tile down.
	tile := tileWidth * v.zoom
	cx := (minX + maxX) / 2
	cy := (minY+maxY)/2 + tile/2
	return Vec2{-cx, -cy}, true
}
