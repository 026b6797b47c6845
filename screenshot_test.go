package isobuild

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"hello", "hello"},
		{"after-rotate", "after-rotate"},
		{"frame.01", "frame.01"},
		{"has spaces", "has_spaces"},
		{"path/to/thing", "path_to_thing"},
		{"back\\slash", "back_slash"},
		{"special!@#$%", "special_____"},
		{"", "unlabeled"},
		{"   ", "unlabeled"},
		{"MixedCase123", "MixedCase123"},
	}
	for _, tt := range tests {
		got := sanitizeLabel(tt.in)
		if got != tt.want {
			t.Errorf("sanitizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEditorScreenshot(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Resize(400, 300)
	e.Viewport().SetZoom(2)
	e.Place(0, 0)
	e.Flush()

	path, err := e.Screenshot("two blocks")
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if filepath.Dir(path) != e.Config().Editor.ScreenshotDir {
		t.Errorf("dir = %q, want %q", filepath.Dir(path), e.Config().Editor.ScreenshotDir)
	}
	if !strings.HasSuffix(path, "_two_blocks.png") {
		t.Errorf("path = %q, want suffix _two_blocks.png", path)
	}
	if !strings.HasPrefix(filepath.Base(path), "20240301_120000") {
		t.Errorf("name = %q, want the editor clock stamp", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	// The iso panel is 200x300 after the resize.
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 300 {
		t.Errorf("size = %dx%d, want 200x300", b.Dx(), b.Dy())
	}
	got := color.NRGBAModel.Convert(img.At(2, 2)).(color.NRGBA)
	if !nearColor(got, DarkTheme.IsoCanvas, 2) {
		t.Errorf("corner = %v, want iso canvas %v", got, DarkTheme.IsoCanvas)
	}
}

func TestSetScreenshotDir(t *testing.T) {
	e, _ := newTestEditor(t)
	dir := filepath.Join(t.TempDir(), "nested", "shots")
	e.SetScreenshotDir(dir)
	e.Resize(200, 100)
	path, err := e.Screenshot("")
	if err != nil {
		t.Fatalf("Screenshot: %v", err)
	}
	if filepath.Dir(path) != dir || !strings.HasSuffix(path, "_unlabeled.png") {
		t.Errorf("path = %q", path)
	}
}

// --- ImageSurface ---

// nearColor reports whether every channel of a and b differs by at most tol.
func nearColor(a, b color.NRGBA, tol int) bool {
	d := func(x, y uint8) bool {
		v := int(x) - int(y)
		return v <= tol && v >= -tol
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}

func TestImageSurfaceFill(t *testing.T) {
	s := NewImageSurface(40, 40)
	defer s.Close()
	s.Clear(colorRed)
	blue := color.NRGBA{0, 0, 0xff, 0xff}
	s.DrawPolygon([]Vec2{{10, 10}, {30, 10}, {30, 30}, {10, 30}}, blue, true, colorBlack, 0)
	if err := s.Err(); err != nil {
		t.Fatalf("Err = %v", err)
	}

	img := s.Image()
	at := func(x, y int) color.NRGBA {
		return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
	}
	if got := at(20, 20); !nearColor(got, blue, 2) {
		t.Errorf("inside = %v, want %v", got, blue)
	}
	if got := at(2, 2); !nearColor(got, colorRed, 2) {
		t.Errorf("outside = %v, want %v", got, colorRed)
	}

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Errorf("encoded PNG does not decode: %v", err)
	}
}

func TestImageSurfaceDrawImage(t *testing.T) {
	s := NewImageSurface(40, 40)
	defer s.Close()
	s.Clear(color.NRGBA{A: 0xff})
	green := color.NRGBA{0, 0xff, 0, 0xff}
	s.DrawImage(solidImage(8, 8, green), Vec2{X: 10, Y: 10}, 2)

	got := color.NRGBAModel.Convert(s.Image().At(18, 18)).(color.NRGBA)
	if !nearColor(got, green, 2) {
		t.Errorf("inside image = %v, want %v", got, green)
	}
	got = color.NRGBAModel.Convert(s.Image().At(35, 35)).(color.NRGBA)
	if got.G != 0 {
		t.Errorf("outside image = %v, want black", got)
	}
}
