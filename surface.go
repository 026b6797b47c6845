package isobuild

import (
	"image"
	"image/color"
)

// Surface is a drawable target. Implementations exist for an ebiten window
// (EbitenSurface), an in-memory raster (ImageSurface) and tests
// (RecordingSurface).
type Surface interface {
	// DrawPolygon fills (when hasFill) and strokes a closed polygon. A
	// non-positive width disables the stroke.
	DrawPolygon(points []Vec2, fill color.NRGBA, hasFill bool, stroke color.NRGBA, width float64)
	// DrawImage draws img with its top-left corner at at, scaled uniformly.
	DrawImage(img image.Image, at Vec2, scale float64)
	// Clear fills the whole surface with c.
	Clear(c color.NRGBA)
}

// TextSurface is implemented by surfaces that can draw short labels.
type TextSurface interface {
	DrawText(s string, at Vec2, c color.NRGBA)
}

// Submit plays commands onto s in order.
func Submit(cmds []DrawCommand, s Surface) {
	for i := range cmds {
		cmd := &cmds[i]
		switch cmd.Type {
		case CommandPolygon:
			s.DrawPolygon(cmd.Points[:], cmd.Fill, cmd.HasFill, cmd.Stroke, cmd.StrokeWidth)
		case CommandImage:
			if cmd.Image != nil {
				s.DrawImage(cmd.Image, cmd.At, cmd.Scale)
			}
		}
	}
}

// RecordedOp is one call captured by a RecordingSurface.
type RecordedOp struct {
	Kind    string // "polygon", "image", "clear" or "text"
	Points  []Vec2
	Fill    color.NRGBA
	HasFill bool
	Stroke  color.NRGBA
	Width   float64
	Image   image.Image
	At      Vec2
	Scale   float64
	Text    string
}

// RecordingSurface records every call for later inspection. It also
// implements TextSurface.
type RecordingSurface struct {
	Ops []RecordedOp
}

func (r *RecordingSurface) DrawPolygon(points []Vec2, fill color.NRGBA, hasFill bool, stroke color.NRGBA, width float64) {
	pts := make([]Vec2, len(points))
	copy(pts, points)
	r.Ops = append(r.Ops, RecordedOp{Kind: "polygon", Points: pts, Fill: fill, HasFill: hasFill, Stroke: stroke, Width: width})
}

func (r *RecordingSurface) DrawImage(img image.Image, at Vec2, scale float64) {
	r.Ops = append(r.Ops, RecordedOp{Kind: "image", Image: img, At: at, Scale: scale})
}

func (r *RecordingSurface) Clear(c color.NRGBA) {
	r.Ops = append(r.Ops, RecordedOp{Kind: "clear", Fill: c, HasFill: true})
}

func (r *RecordingSurface) DrawText(s string, at Vec2, c color.NRGBA) {
	r.Ops = append(r.Ops, RecordedOp{Kind: "text", Text: s, At: at, Fill: c})
}

// Count returns the number of recorded ops of the given kind.
func (r *RecordingSurface) Count(kind string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset discards recorded ops.
func (r *RecordingSurface) Reset() {
	r.Ops = r.Ops[:0]
}
