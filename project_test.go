package isobuild

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

// --- Rotation ---

func TestRotationSteps(t *testing.T) {
	tests := []struct {
		r           Rotation
		left, right Rotation
	}{
		{Rotation0, Rotation270, Rotation90},
		{Rotation90, Rotation0, Rotation180},
		{Rotation180, Rotation90, Rotation270},
		{Rotation270, Rotation180, Rotation0},
	}
	for _, tt := range tests {
		if got := tt.r.Left(); got != tt.left {
			t.Errorf("%d.Left() = %d, want %d", tt.r, got, tt.left)
		}
		if got := tt.r.Right(); got != tt.right {
			t.Errorf("%d.Right() = %d, want %d", tt.r, got, tt.right)
		}
	}
}

func TestNormalizeRotation(t *testing.T) {
	tests := []struct {
		in   int
		want Rotation
	}{
		{0, Rotation0},
		{360, Rotation0},
		{-90, Rotation270},
		{450, Rotation90},
		{-720, Rotation0},
	}
	for _, tt := range tests {
		if got := normalizeRotation(tt.in); got != tt.want {
			t.Errorf("normalizeRotation(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRotateXZ(t *testing.T) {
	const size = 16
	tests := []struct {
		rot    Rotation
		x, z   int
		rx, rz int
	}{
		{Rotation0, 3, 5, 3, 5},
		{Rotation90, 3, 5, 5, 12},
		{Rotation180, 3, 5, 12, 10},
		{Rotation270, 3, 5, 10, 3},
		{Rotation90, 0, 0, 0, 15},
	}
	for _, tt := range tests {
		rx, rz := RotateXZ(tt.x, tt.z, tt.rot, size)
		if rx != tt.rx || rz != tt.rz {
			t.Errorf("RotateXZ(%d,%d,%d) = (%d,%d), want (%d,%d)",
				tt.x, tt.z, tt.rot, rx, rz, tt.rx, tt.rz)
		}
	}
}

func TestRotateXZGroupOfOrderFour(t *testing.T) {
	for _, size := range []int{1, 2, 7, 16, 33} {
		for x := 0; x < size; x++ {
			for z := 0; z < size; z++ {
				rx, rz := x, z
				for i := 0; i < 4; i++ {
					rx, rz = RotateXZ(rx, rz, Rotation90, size)
					if rx < 0 || rx >= size || rz < 0 || rz >= size {
						t.Fatalf("size %d: (%d,%d) left the grid", size, rx, rz)
					}
				}
				if rx != x || rz != z {
					t.Fatalf("size %d: four quarter turns took (%d,%d) to (%d,%d)", size, x, z, rx, rz)
				}

				// Two quarter turns equal one half turn.
				ax, az := RotateXZ(x, z, Rotation90, size)
				ax, az = RotateXZ(ax, az, Rotation90, size)
				hx, hz := RotateXZ(x, z, Rotation180, size)
				if ax != hx || az != hz {
					t.Fatalf("size %d: 90+90 != 180 at (%d,%d)", size, x, z)
				}
			}
		}
	}
}

// --- Depth ---

func TestDepthKeyLayerDominates(t *testing.T) {
	for _, size := range []int{1, 4, 16} {
		maxFloor := DepthKey(size-1, size-1, 0, size)
		minNext := DepthKey(0, 0, 1, size)
		if maxFloor >= minNext {
			t.Errorf("size %d: floor max %d >= next layer min %d", size, maxFloor, minNext)
		}
	}
}

// --- Projector ---

func TestProjectOrigin(t *testing.T) {
	p := NewProjector(64)
	dx, dy, depth := p.Project(Coord{}, Rotation0, 1, 16)
	if dx != 0 || dy != 0 || depth != 0 {
		t.Errorf("Project(origin) = (%v,%v,%d), want (0,0,0)", dx, dy, depth)
	}

	_, _, depth = p.Project(Coord{}, Rotation90, 1, 16)
	if depth != 15 {
		t.Errorf("depth after quarter turn = %d, want 15", depth)
	}
}

func TestProjectOffsets(t *testing.T) {
	p := NewProjector(64)
	tests := []struct {
		c      Coord
		zoom   float64
		dx, dy float64
	}{
		{Coord{X: 1}, 1, 32, 16},
		{Coord{Z: 1}, 1, -32, 16},
		{Coord{Y: 1}, 1, 0, -32},
		{Coord{X: 2, Z: 1, Y: 1}, 2, 64, 32},
	}
	for _, tt := range tests {
		dx, dy, _ := p.Project(tt.c, Rotation0, tt.zoom, 16)
		if !approxEqual(dx, tt.dx, epsilon) || !approxEqual(dy, tt.dy, epsilon) {
			t.Errorf("Project(%v, zoom %v) = (%v,%v), want (%v,%v)", tt.c, tt.zoom, dx, dy, tt.dx, tt.dy)
		}
	}
}

func TestProjectScalesWithZoom(t *testing.T) {
	p := NewProjector(64)
	c := Coord{X: 3, Z: 1, Y: 2}
	dx1, dy1, d1 := p.Project(c, Rotation0, 1, 16)
	dx3, dy3, d3 := p.Project(c, Rotation0, 3, 16)
	if !approxEqual(dx3, dx1*3, epsilon) || !approxEqual(dy3, dy1*3, epsilon) {
		t.Errorf("zoom 3 = (%v,%v), want (%v,%v)", dx3, dy3, dx1*3, dy1*3)
	}
	if d1 != d3 {
		t.Errorf("depth changed with zoom: %d vs %d", d1, d3)
	}
}

func TestProjectorMemo(t *testing.T) {
	p := NewProjector(64)
	p.Project(Coord{X: 1}, Rotation0, 1, 16)
	p.Project(Coord{X: 1, Y: 5}, Rotation0, 1, 16)
	p.Project(Coord{X: 2}, Rotation0, 1, 16)
	if p.Len() != 2 {
		t.Fatalf("Len = %d, want 2", p.Len())
	}
	if p.hitRate() <= 0 {
		t.Errorf("hitRate = %v, want > 0", p.hitRate())
	}

	// A new rotation drops the memo for the old one.
	p.Project(Coord{X: 1}, Rotation90, 1, 16)
	if p.Len() != 1 {
		t.Errorf("Len after rotation change = %d, want 1", p.Len())
	}

	p.Invalidate()
	if p.Len() != 0 {
		t.Errorf("Len after Invalidate = %d, want 0", p.Len())
	}
}

func TestProjectorMemoDroppedOnSizeChange(t *testing.T) {
	p := NewProjector(64)
	p.Project(Coord{X: 1}, Rotation90, 1, 16)
	if rx, rz := p.rotate(1, 0, Rotation90, 16); rx != 0 || rz != 14 {
		t.Fatalf("size 16: rotate = (%d,%d), want (0,14)", rx, rz)
	}

	_, _, depth := p.Project(Coord{X: 1}, Rotation90, 1, 8)
	if rx, rz := p.rotate(1, 0, Rotation90, 8); rx != 0 || rz != 6 {
		t.Errorf("size 8: rotate = (%d,%d), want (0,6)", rx, rz)
	}
	if depth != 6 {
		t.Errorf("size 8: depth = %d, want 6", depth)
	}
	if p.Len() != 1 {
		t.Errorf("Len after size change = %d, want 1", p.Len())
	}
}
