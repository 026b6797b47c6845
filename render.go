package isobuild

import (
	"image"
	"image/color"
	"math"
	"time"
)

// CommandType identifies the kind of draw command.
type CommandType uint8

const (
	CommandPolygon CommandType = iota // filled and/or stroked quadrilateral
	CommandImage                      // pre-rendered face image
)

// DrawCommand is a single draw instruction emitted by the compositor, in
// final canvas coordinates.
type DrawCommand struct {
	Type CommandType

	// Polygon fields.
	Points      [4]Vec2
	Fill        color.NRGBA
	HasFill     bool
	Stroke      color.NRGBA
	StrokeWidth float64

	// Image fields. The image's top-left corner lands on At and is scaled
	// uniformly by Scale.
	Image image.Image
	At    Vec2
	Scale float64

	// Provenance, for hit-testing and tests.
	Coord Coord
	Face  Face
	Depth int
}

// ViewState is the viewport state read by the compositor.
type ViewState struct {
	Rotation Rotation
	Zoom     float64
	Pan      Vec2
}

// voxelEntry is one projected voxel awaiting depth sorting.
type voxelEntry struct {
	depth  int
	rx     int
	dx, dy float64
	coord  Coord
	def    BlockDef
}

// FrameStats describes the most recent RenderFrame call.
type FrameStats struct {
	Voxels   int
	Skipped  int
	Commands int
	Project  time.Duration
	Sort     time.Duration
	Emit     time.Duration
}

// Compositor turns a voxel store and a view state into an ordered list of
// draw commands. Voxels are painted back to front; within a voxel the left
// and right faces are painted before the top.
type Compositor struct {
	Catalog   Catalog
	Projector *Projector
	Shader    *Shader
	// Warper is optional. Without one every block renders flat.
	Warper *Warper

	TileWidth      float64
	MinTextureSize int
	TextureBucket  float64
	OutlineWidth   float64
	Outline        color.NRGBA

	entries  []voxelEntry
	sortBuf  []voxelEntry
	commands []DrawCommand
	stats    FrameStats
	debug    bool
}

// NewCompositor creates a compositor from cfg. src may be nil, in which case
// textured blocks fall back to flat shading.
func NewCompositor(cfg Config, cat Catalog, src TextureSource) *Compositor {
	c := &Compositor{
		Catalog:        cat,
		Projector:      NewProjector(cfg.Render.TileWidth),
		Shader:         NewShader(cfg.Cache.ColorEntries),
		TileWidth:      cfg.Render.TileWidth,
		MinTextureSize: cfg.Render.MinTextureSize,
		TextureBucket:  cfg.Render.TextureBucket,
		OutlineWidth:   cfg.Render.OutlineWidth,
		Outline:        colorBlack,
	}
	if src != nil {
		c.Warper = NewWarper(src, WarperConfig{
			WarpEntries:   cfg.Cache.WarpEntries,
			SourceEntries: cfg.Cache.SourceEntries,
			CoeffEntries:  cfg.Cache.CoeffEntries,
		})
	}
	return c
}

// SetDebugMode enables per-frame stats logging at debug level.
func (c *Compositor) SetDebugMode(on bool) {
	c.debug = on
}

// Stats returns the stats of the last frame.
func (c *Compositor) Stats() FrameStats {
	return c.stats
}

// InvalidateRotation drops the projector's rotation memo.
func (c *Compositor) InvalidateRotation() {
	c.Projector.Invalidate()
}

// FlushTextures drops every warped texture and the broken-asset memo.
func (c *Compositor) FlushTextures() {
	if c.Warper != nil {
		c.Warper.Flush()
	}
}

// TextureSize returns the warped texture edge for zoom. Zoom is rounded to
// TextureBucket so continuous zooming reuses a bounded set of cache keys.
func (c *Compositor) TextureSize(zoom float64) int {
	bucket := c.TextureBucket
	if bucket <= 0 {
		bucket = 0.1
	}
	rounded := math.Round(zoom/bucket) * bucket
	return max(c.MinTextureSize, int(c.TileWidth*rounded))
}

// RenderFrame projects, sorts and paints every known voxel in store. The
// returned slice is reused by the next call. An empty store yields no
// commands.
func (c *Compositor) RenderFrame(store *VoxelStore, view ViewState, canvas Vec2) []DrawCommand {
	c.entries = c.entries[:0]
	c.commands = c.commands[:0]
	stats := FrameStats{}
	if store == nil {
		c.stats = stats
		return c.commands
	}

	t0 := time.Now()
	size := store.Size()
	store.Each(func(coord Coord, id string) {
		def, ok := c.Catalog.Lookup(id)
		if !ok {
			stats.Skipped++
			return
		}
		dx, dy, depth, rx := c.Projector.project(coord, view.Rotation, view.Zoom, size)
		c.entries = append(c.entries, voxelEntry{depth: depth, rx: rx, dx: dx, dy: dy, coord: coord, def: def})
	})
	t1 := time.Now()

	c.mergeSort()
	t2 := time.Now()

	origin := Vec2{canvas.X/2 + view.Pan.X, canvas.Y/2 + view.Pan.Y}
	tile := c.TileWidth * view.Zoom
	texSize := c.TextureSize(view.Zoom)
	for i := range c.entries {
		e := &c.entries[i]
		anchor := Vec2{origin.X + e.dx, origin.Y + e.dy}
		c.emitVoxel(e, anchor, tile, texSize)
	}
	t3 := time.Now()

	stats.Voxels = len(c.entries)
	stats.Commands = len(c.commands)
	stats.Project = t1.Sub(t0)
	stats.Sort = t2.Sub(t1)
	stats.Emit = t3.Sub(t2)
	c.stats = stats
	c.debugLog(stats)
	return c.commands
}

func (c *Compositor) emitVoxel(e *voxelEntry, anchor Vec2, tile float64, texSize int) {
	look := e.def.Appearance()
	if look.Kind == AppearanceTextured && c.Warper != nil {
		at := Vec2{anchor.X - tile/2, anchor.Y}
		scale := tile / float64(texSize)
		for _, face := range faceDrawOrder {
			img, ok := c.Warper.Warp(look.Asset, face, texSize)
			if !ok {
				c.emitFlatFace(e, face, anchor, tile, look.Color)
				continue
			}
			c.commands = append(c.commands, DrawCommand{
				Type:  CommandImage,
				Image: img,
				At:    at,
				Scale: scale,
				Coord: e.coord,
				Face:  face,
				Depth: e.depth,
			})
		}
		for _, face := range faceDrawOrder {
			c.commands = append(c.commands, DrawCommand{
				Type:        CommandPolygon,
				Points:      FaceQuadAt(face, anchor, tile),
				Stroke:      c.Outline,
				StrokeWidth: c.OutlineWidth,
				Coord:       e.coord,
				Face:        face,
				Depth:       e.depth,
			})
		}
		return
	}
	for _, face := range faceDrawOrder {
		c.emitFlatFace(e, face, anchor, tile, look.Color)
	}
}

func (c *Compositor) emitFlatFace(e *voxelEntry, face Face, anchor Vec2, tile float64, base color.NRGBA) {
	c.commands = append(c.commands, DrawCommand{
		Type:        CommandPolygon,
		Points:      FaceQuadAt(face, anchor, tile),
		Fill:        c.Shader.Shade(base, face.ShadeFactor()),
		HasFill:     true,
		Stroke:      c.Outline,
		StrokeWidth: c.OutlineWidth,
		Coord:       e.coord,
		Face:        face,
		Depth:       e.depth,
	})
}

// --- Merge sort ---

// entryLessOrEqual orders by depth key. Equal depths share a layer and an
// anti-diagonal, where voxels never overlap; rx breaks the tie so frames are
// reproducible regardless of map iteration order.
func entryLessOrEqual(a, b *voxelEntry) bool {
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.rx <= b.rx
}

// mergeSort sorts c.entries in-place using c.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (c *Compositor) mergeSort() {
	n := len(c.entries)
	if n <= 1 {
		return
	}
	if cap(c.sortBuf) < n {
		c.sortBuf = make([]voxelEntry, n)
	}
	c.sortBuf = c.sortBuf[:n]

	a := c.entries
	b := c.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(c.entries, c.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []voxelEntry, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if entryLessOrEqual(&src[i], &src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
