package isobuild

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/gogpu/gg/cache"
)

// Fallback colors substituted for malformed input.
var (
	// NeutralGray replaces a base color that cannot be parsed or shaded.
	NeutralGray = color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff}
	// GhostFallback replaces a ghost-layer color that cannot be derived.
	GhostFallback = color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}

	colorBlack = color.NRGBA{A: 0xff}
	colorRed   = color.NRGBA{R: 0xff, A: 0xff}
)

// ParseHexColor parses "#RRGGBB" or "RRGGBB". Any other shape is rejected.
func ParseHexColor(value string) (color.NRGBA, bool) {
	s := strings.TrimPrefix(strings.TrimSpace(value), "#")
	if len(s) != 6 {
		return color.NRGBA{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, false
	}
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
}

// HexString formats a color as "#rrggbb".
func HexString(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Shade multiplies each RGB channel by factor, truncating toward zero and
// clamping to [0, 255]. Alpha is left untouched.
func Shade(c color.NRGBA, factor float64) color.NRGBA {
	if factor == FactorNone {
		return c
	}
	return color.NRGBA{
		R: shadeChannel(c.R, factor),
		G: shadeChannel(c.G, factor),
		B: shadeChannel(c.B, factor),
		A: c.A,
	}
}

func shadeChannel(v uint8, factor float64) uint8 {
	s := float64(v) * factor
	if s <= 0 {
		return 0
	}
	if s >= 255 {
		return 255
	}
	return uint8(s)
}

// ColorOrGray parses a hex color, returning NeutralGray for input that is
// not a six-digit hex color. attrs are added to the warning.
func ColorOrGray(hex string, attrs ...any) color.NRGBA {
	c, ok := ParseHexColor(hex)
	if !ok {
		Logger().Warn("malformed color, using neutral gray", append([]any{"color", hex}, attrs...)...)
		return NeutralGray
	}
	return c
}

// GhostColor fades a color 70% toward white for the layer below the one
// being edited.
func GhostColor(c color.NRGBA) color.NRGBA {
	const fade = 0.7
	mix := func(v uint8) uint8 {
		return uint8(float64(v) + (255-float64(v))*fade)
	}
	return color.NRGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: 0xff}
}

// Shader memoizes Shade results keyed by (base color, factor). The domain is
// one catalog's worth of colors times three face factors, so a small bounded
// cache holds every live entry.
type Shader struct {
	cache *cache.ShardedCache[shadeKey, color.NRGBA]
}

// NewShader creates a shader with room for roughly capacity entries.
func NewShader(capacity int) *Shader {
	return &Shader{cache: newLRU[shadeKey, color.NRGBA](capacity, hashShadeKey)}
}

// Shade returns the shaded color, computing it on first use.
func (s *Shader) Shade(c color.NRGBA, factor float64) color.NRGBA {
	key := shadeKey{rgb: uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B), factor: factor}
	out := s.cache.GetOrCreate(key, func() color.NRGBA {
		return Shade(color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}, factor)
	})
	out.A = c.A
	return out
}

// Len returns the number of memoized entries.
func (s *Shader) Len() int {
	return s.cache.Len()
}

// Clear drops every memoized entry.
func (s *Shader) Clear() {
	s.cache.Clear()
}

// HitRate returns the fraction of lookups served from the cache.
func (s *Shader) HitRate() float64 {
	return s.cache.Stats().HitRate
}
