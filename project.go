package isobuild

// RotateXZ applies a yaw rotation to the (x, z) plane of a grid with the
// given extent.
func RotateXZ(x, z int, rot Rotation, size int) (rx, rz int) {
	switch rot {
	case Rotation90:
		return z, size - 1 - x
	case Rotation180:
		return size - 1 - x, size - 1 - z
	case Rotation270:
		return size - 1 - z, x
	default:
		return x, z
	}
}

// DepthKey orders voxels back to front. The layer term is scaled by 2*size,
// which exceeds the largest possible rx+rz, so upper layers always sort after
// lower ones.
func DepthKey(rx, rz, y, size int) int {
	return (rx + rz) + y*size*2
}

type xz struct{ x, z int }

// Projector maps grid cells to screen offsets relative to the canvas center.
// Rotated (x, z) pairs are memoized; the memo is dropped whenever the
// rotation or grid size it was built for changes.
type Projector struct {
	// TileWidth is the on-screen voxel width at zoom 1.
	TileWidth float64

	rot     Rotation
	size    int
	rotated map[xz]xz

	hits, misses int
}

// NewProjector creates a projector with the given base tile width.
func NewProjector(tileWidth float64) *Projector {
	return &Projector{TileWidth: tileWidth, rotated: make(map[xz]xz)}
}

// Invalidate drops the rotation memo.
func (p *Projector) Invalidate() {
	clear(p.rotated)
}

func (p *Projector) rotate(x, z int, rot Rotation, size int) (int, int) {
	if rot != p.rot || size != p.size {
		p.rot, p.size = rot, size
		clear(p.rotated)
	}
	k := xz{x, z}
	if r, ok := p.rotated[k]; ok {
		p.hits++
		return r.x, r.z
	}
	p.misses++
	rx, rz := RotateXZ(x, z, rot, size)
	p.rotated[k] = xz{rx, rz}
	return rx, rz
}

// Project returns the screen offset of c's anchor (the top vertex of its top
// face) relative to the canvas center, and its depth key.
func (p *Projector) Project(c Coord, rot Rotation, zoom float64, size int) (dx, dy float64, depth int) {
	dx, dy, depth, _ = p.project(c, rot, zoom, size)
	return dx, dy, depth
}

// project is Project that also returns the rotated x used for tie-breaks.
func (p *Projector) project(c Coord, rot Rotation, zoom float64, size int) (dx, dy float64, depth, rx int) {
	rx, rz := p.rotate(c.X, c.Z, rot, size)
	tw := p.TileWidth * zoom
	th := tw / 2
	dx = float64(rx-rz) * tw / 2
	dy = float64(rx+rz)*th/2 - float64(c.Y)*th
	return dx, dy, DepthKey(rx, rz, c.Y, size), rx
}

// Len returns the number of memoized rotations.
func (p *Projector) Len() int {
	return len(p.rotated)
}

func (p *Projector) hitRate() float64 {
	total := p.hits + p.misses
	if total == 0 {
		return 0
	}
	return float64(p.hits) / float64(total)
}
