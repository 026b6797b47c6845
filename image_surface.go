package isobuild

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"
)

// ImageSurface is a headless Surface backed by a gg software raster. It
// is used for screenshots, the CLI renderer and pixel tests.
type ImageSurface struct {
	dc  *gg.Context
	err error
}

// NewImageSurface creates a width x height raster surface.
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{dc: gg.NewContext(width, height)}
}

// DrawPolygon implements Surface.
func (s *ImageSurface) DrawPolygon(points []Vec2, fill color.NRGBA, hasFill bool, stroke color.NRGBA, width float64) {
	if len(points) < 3 {
		return
	}
	s.path(points)
	if hasFill {
		s.dc.SetColor(fill)
		if width > 0 {
			s.keep(s.dc.FillPreserve())
		} else {
			s.keep(s.dc.Fill())
			return
		}
	}
	if width <= 0 {
		return
	}
	s.dc.SetColor(stroke)
	s.dc.SetLineWidth(width)
	s.keep(s.dc.Stroke())
}

func (s *ImageSurface) path(points []Vec2) {
	s.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		s.dc.LineTo(p.X, p.Y)
	}
	s.dc.ClosePath()
}

// DrawImage implements Surface.
func (s *ImageSurface) DrawImage(img image.Image, at Vec2, scale float64) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	s.dc.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:             at.X,
		Y:             at.Y,
		DstWidth:      float64(b.Dx()) * scale,
		DstHeight:     float64(b.Dy()) * scale,
		Interpolation: gg.InterpBicubic,
	})
}

// Clear implements Surface.
func (s *ImageSurface) Clear(c color.NRGBA) {
	s.dc.ClearWithColor(gg.FromColor(c))
}

func (s *ImageSurface) keep(err error) {
	if err != nil && s.err == nil {
		s.err = err
	}
}

// Err returns the first rasterization error, if any.
func (s *ImageSurface) Err() error {
	return s.err
}

// Image returns the rendered raster.
func (s *ImageSurface) Image() image.Image {
	return s.dc.Image()
}

// SavePNG writes the raster to path.
func (s *ImageSurface) SavePNG(path string) error {
	if err := s.dc.SavePNG(path); err != nil {
		return fmt.Errorf("save png %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes the raster as PNG to w.
func (s *ImageSurface) EncodePNG(w io.Writer) error {
	return s.dc.EncodePNG(w)
}

// Close releases the raster.
func (s *ImageSurface) Close() error {
	return s.dc.Close()
}
