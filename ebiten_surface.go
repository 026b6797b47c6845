package isobuild

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// imageIdleFrames is how many frames an uploaded image may go unused before
// its GPU copy is released.
const imageIdleFrames = 120

type uploadedImage struct {
	img      *ebiten.Image
	lastUsed int
}

// EbitenSurface draws onto an ebiten image. Polygons are fan-triangulated
// over a white pixel; strokes are emitted as one quad per edge. Images are
// uploaded once and reused while the same image value keeps being drawn.
type EbitenSurface struct {
	target *ebiten.Image
	white  *ebiten.Image

	verts []ebiten.Vertex
	inds  []uint16

	images map[image.Image]*uploadedImage
	frame  int
}

// NewEbitenSurface creates a surface. Call Begin before drawing each frame.
func NewEbitenSurface() *EbitenSurface {
	return &EbitenSurface{images: make(map[image.Image]*uploadedImage)}
}

// Begin targets dst for the coming frame and releases images that have
// been idle too long.
func (s *EbitenSurface) Begin(dst *ebiten.Image) {
	s.target = dst
	s.frame++
	for k, u := range s.images {
		if s.frame-u.lastUsed > imageIdleFrames {
			u.img.Deallocate()
			delete(s.images, k)
		}
	}
}

func (s *EbitenSurface) whitePixel() *ebiten.Image {
	if s.white == nil {
		s.white = ebiten.NewImage(1, 1)
		s.white.Fill(color.White)
	}
	return s.white
}

func vertexAt(p Vec2, c color.NRGBA) ebiten.Vertex {
	return ebiten.Vertex{
		DstX:   float32(p.X),
		DstY:   float32(p.Y),
		SrcX:   0.5,
		SrcY:   0.5,
		ColorR: float32(c.R) / 255,
		ColorG: float32(c.G) / 255,
		ColorB: float32(c.B) / 255,
		ColorA: float32(c.A) / 255,
	}
}

// DrawPolygon implements Surface.
func (s *EbitenSurface) DrawPolygon(points []Vec2, fill color.NRGBA, hasFill bool, stroke color.NRGBA, width float64) {
	n := len(points)
	if n < 3 || s.target == nil {
		return
	}
	s.verts = s.verts[:0]
	s.inds = s.inds[:0]

	if hasFill {
		// Fan triangulation: vertex 0 is the hub.
		for _, p := range points {
			s.verts = append(s.verts, vertexAt(p, fill))
		}
		for i := 0; i < n-2; i++ {
			s.inds = append(s.inds, 0, uint16(i+1), uint16(i+2))
		}
	}

	if width > 0 {
		half := width / 2
		for i := 0; i < n; i++ {
			a, b := points[i], points[(i+1)%n]
			px, py := perpendicular(a, b)
			ox, oy := px*half, py*half
			// Extend along the edge so corners close.
			ex, ey := py*half, -px*half
			base := uint16(len(s.verts))
			s.verts = append(s.verts,
				vertexAt(Vec2{a.X + ox - ex, a.Y + oy - ey}, stroke),
				vertexAt(Vec2{b.X + ox + ex, b.Y + oy + ey}, stroke),
				vertexAt(Vec2{b.X - ox + ex, b.Y - oy + ey}, stroke),
				vertexAt(Vec2{a.X - ox - ex, a.Y - oy - ey}, stroke),
			)
			s.inds = append(s.inds, base, base+1, base+2, base, base+2, base+3)
		}
	}

	if len(s.inds) == 0 {
		return
	}
	var op ebiten.DrawTrianglesOptions
	op.AntiAlias = true
	s.target.DrawTriangles(s.verts, s.inds, s.whitePixel(), &op)
}

// perpendicular returns the unit left-perpendicular of the segment from a to b.
func perpendicular(a, b Vec2) (float64, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	ln := math.Sqrt(dx*dx + dy*dy)
	if ln < 1e-10 {
		return 0, -1
	}
	return -dy / ln, dx / ln
}

// DrawImage implements Surface.
func (s *EbitenSurface) DrawImage(img image.Image, at Vec2, scale float64) {
	if s.target == nil || img.Bounds().Empty() {
		return
	}
	u, ok := s.images[img]
	if !ok {
		u = &uploadedImage{img: ebiten.NewImageFromImage(img)}
		s.images[img] = u
	}
	u.lastUsed = s.frame

	var op ebiten.DrawImageOptions
	if scale > 0 && scale != 1 {
		op.GeoM.Scale(scale, scale)
	}
	op.GeoM.Translate(at.X, at.Y)
	op.Filter = ebiten.FilterLinear
	s.target.DrawImage(u.img, &op)
}

// Clear implements Surface.
func (s *EbitenSurface) Clear(c color.NRGBA) {
	if s.target != nil {
		s.target.Fill(c)
	}
}

// DrawText implements TextSurface with ebiten's debug font. The debug font
// has a fixed color, so c is ignored.
func (s *EbitenSurface) DrawText(text string, at Vec2, _ color.NRGBA) {
	if s.target != nil {
		ebitenutil.DebugPrintAt(s.target, text, int(at.X), int(at.Y))
	}
}

// Uploaded returns the number of images currently held on the GPU.
func (s *EbitenSurface) Uploaded() int {
	return len(s.images)
}
