package isobuild

import (
	"image/color"
	"testing"
)

// --- Helpers ---

func filledStore(size, layers int) *VoxelStore {
	ids := []string{"stone", "dirt", "grass", "sand", "brick"}
	s := NewVoxelStore(size)
	for y := 0; y < layers; y++ {
		for x := 0; x < size; x++ {
			for z := 0; z < size; z++ {
				s.Set(Coord{X: x, Z: z, Y: y}, ids[(x+z+y)%len(ids)])
			}
		}
	}
	return s
}

// --- Compositor ---

func BenchmarkRenderFrame_Flat4096(b *testing.B) {
	c := newTestCompositor(nil)
	store := filledStore(16, 16)
	view := ViewState{Zoom: 2}
	canvas := Vec2{X: 1520, Y: 1080}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.RenderFrame(store, view, canvas)
	}
}

func BenchmarkRenderFrame_Rotating(b *testing.B) {
	c := newTestCompositor(nil)
	store := filledStore(16, 4)
	canvas := Vec2{X: 1520, Y: 1080}
	rot := Rotation0

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rot = rot.Right()
		c.RenderFrame(store, ViewState{Zoom: 1, Rotation: rot}, canvas)
	}
}

func BenchmarkRenderFrame_Textured(b *testing.B) {
	src := newCountingSource()
	src.images["stone.png"] = solidImage(16, 16, NeutralGray)
	c := texturedCompositor(src)
	store := filledStore(16, 2)
	canvas := Vec2{X: 1520, Y: 1080}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.RenderFrame(store, ViewState{Zoom: 2}, canvas)
	}
}

// --- Warping ---

func BenchmarkWarpImage_64(b *testing.B) {
	src := solidImage(64, 64, color.NRGBA{120, 80, 40, 255})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := WarpImage(src, FaceLeft, 64); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolvePerspective(b *testing.B) {
	quad, _ := FaceQuad(FaceRight, 64)
	for i := 0; i < b.N; i++ {
		if _, err := SolvePerspective(quad, unitSquare); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkShaderShade(b *testing.B) {
	s := NewShader(256)
	c := color.NRGBA{0x7f, 0x7f, 0x7f, 0xff}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		s.Shade(c, faceDrawOrder[i%3].ShadeFactor())
	}
}

// --- Editor ---

func BenchmarkEditorGridRebuild(b *testing.B) {
	cfg := DefaultConfig()
	e := NewEditor(cfg, nil, nil)
	for x := 0; x < 16; x++ {
		for z := 0; z < 16; z++ {
			e.Place(x, z)
		}
	}
	e.SetLayer(1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.rebuildGrid()
	}
}
