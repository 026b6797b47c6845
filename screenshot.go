package isobuild

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Screenshot renders the isometric panel headlessly and writes it to
// <ScreenshotDir>/<stamp>_<label>.png. Pending redraws are not flushed;
// the image shows what the panel currently displays.
func (e *Editor) Screenshot(label string) (string, error) {
	if err := os.MkdirAll(e.screenshotDir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: mkdir %s: %w", e.screenshotDir, err)
	}
	iso := e.layoutFor().iso
	w, h := int(iso.Width), int(iso.Height)
	if w <= 0 || h <= 0 {
		return "", fmt.Errorf("screenshot: %w", ErrEmptyImage)
	}

	surf := NewImageSurface(w, h)
	defer surf.Close()
	e.DrawIso(surf)
	if err := surf.Err(); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}

	stamp := e.now().Format("20060102_150405")
	path := filepath.Join(e.screenshotDir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label)))
	if err := surf.SavePNG(path); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}

// SetScreenshotDir changes where screenshots are written.
func (e *Editor) SetScreenshotDir(dir string) {
	e.screenshotDir = dir
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
