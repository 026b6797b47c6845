package isobuild

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	stddraw "image/draw"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/gogpu/gg/cache"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var (
	// ErrEmptyImage is returned when a source texture has no pixels.
	ErrEmptyImage = errors.New("isobuild: empty image")
	// ErrTextureUnavailable is returned for an asset that previously failed
	// to load and is memoized as broken.
	ErrTextureUnavailable = errors.New("isobuild: texture unavailable")
)

// TextureSource opens texture assets by reference.
type TextureSource interface {
	Open(asset string) (image.Image, error)
}

// FSSource decodes textures from a file system. PNG, JPEG, BMP and WebP are
// recognized.
type FSSource struct {
	FS fs.FS
}

// DirSource reads textures from the OS file system. Asset references are
// ordinary paths, absolute or relative to the working directory.
func DirSource() FSSource {
	return FSSource{}
}

// Open implements TextureSource.
func (s FSSource) Open(asset string) (image.Image, error) {
	var (
		f   fs.File
		err error
	)
	if s.FS != nil {
		f, err = s.FS.Open(filepath.ToSlash(asset))
	} else {
		f, err = os.Open(asset)
	}
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %s: %w", asset, err)
	}
	return img, nil
}

// Warper produces perspective-warped face images from square textures and
// memoizes them by (asset, face, size, shade factor). Decoded sources and
// geometry solves are memoized separately. Assets that fail to load are
// remembered until Flush so a broken file is reported once.
type Warper struct {
	src     TextureSource
	sources *cache.ShardedCache[string, image.Image]
	warps   *cache.ShardedCache[warpKey, *image.NRGBA]
	coeffs  *cache.ShardedCache[coeffKey, Perspective]
	failed  map[string]error
}

// WarperConfig sizes a Warper's caches.
type WarperConfig struct {
	WarpEntries   int
	SourceEntries int
	CoeffEntries  int
}

// NewWarper creates a warper reading from src.
func NewWarper(src TextureSource, cfg WarperConfig) *Warper {
	return &Warper{
		src:     src,
		sources: newLRU[string, image.Image](cfg.SourceEntries, hashString),
		warps:   newLRU[warpKey, *image.NRGBA](cfg.WarpEntries, hashWarpKey),
		coeffs:  newLRU[coeffKey, Perspective](cfg.CoeffEntries, hashCoeffKey),
		failed:  make(map[string]error),
	}
}

// Warp returns the warped image for asset on face at size x size pixels.
// Failures are logged and reported as ok=false; the caller draws the face
// flat instead.
func (w *Warper) Warp(asset string, face Face, size int) (*image.NRGBA, bool) {
	img, err := w.warp(asset, face, size)
	if err != nil {
		if !errors.Is(err, ErrTextureUnavailable) {
			Logger().Warn("texture warp failed", "asset", asset, "face", face.String(), "size", size, "err", err)
		}
		return nil, false
	}
	return img, true
}

func (w *Warper) warp(asset string, face Face, size int) (*image.NRGBA, error) {
	key := warpKey{asset: asset, face: face, size: size, factor: face.ShadeFactor()}
	if img, ok := w.warps.Get(key); ok {
		return img, nil
	}
	if _, broken := w.failed[asset]; broken {
		return nil, ErrTextureUnavailable
	}

	src, err := w.source(asset)
	if err != nil {
		w.failed[asset] = err
		return nil, err
	}
	inv, err := w.inverse(face, size)
	if err != nil {
		return nil, err
	}
	out, err := warpWith(src, size, key.factor, inv)
	if err != nil {
		return nil, err
	}
	w.warps.Set(key, out)
	return out, nil
}

func (w *Warper) source(asset string) (image.Image, error) {
	if img, ok := w.sources.Get(asset); ok {
		return img, nil
	}
	img, err := w.src.Open(asset)
	if err != nil {
		return nil, err
	}
	w.sources.Set(asset, img)
	return img, nil
}

func (w *Warper) inverse(face Face, size int) (Perspective, error) {
	key := coeffKey{face: face, size: size}
	if p, ok := w.coeffs.Get(key); ok {
		return p, nil
	}
	p, err := faceInverse(face, size)
	if err != nil {
		return Perspective{}, err
	}
	w.coeffs.Set(key, p)
	return p, nil
}

// Flush drops warped images, decoded sources and the failure memo. Geometry
// solves are kept since they never depend on pixel data.
func (w *Warper) Flush() {
	w.warps.Clear()
	w.sources.Clear()
	clear(w.failed)
}

// Len returns the number of cached warped images.
func (w *Warper) Len() int {
	return w.warps.Len()
}

// HitRate returns the warp cache hit rate.
func (w *Warper) HitRate() float64 {
	return w.warps.Stats().HitRate
}

// WarpImage is the uncached warp: resize src to size x size if needed, shade
// its RGB channels by the face factor, and map it onto the face quadrilateral
// with bicubic sampling. Pixels outside the quadrilateral are transparent.
func WarpImage(src image.Image, face Face, size int) (*image.NRGBA, error) {
	inv, err := faceInverse(face, size)
	if err != nil {
		return nil, err
	}
	return warpWith(src, size, face.ShadeFactor(), inv)
}

func warpWith(src image.Image, size int, factor float64, inv Perspective) (*image.NRGBA, error) {
	b := src.Bounds()
	if b.Empty() || size <= 0 {
		return nil, ErrEmptyImage
	}

	tex := image.NewNRGBA(image.Rect(0, 0, size, size))
	if b.Dx() == size && b.Dy() == size {
		stddraw.Draw(tex, tex.Bounds(), src, b.Min, stddraw.Src)
	} else {
		draw.CatmullRom.Scale(tex, tex.Bounds(), src, b, draw.Src, nil)
	}
	shadeNRGBA(tex, factor)

	out := image.NewNRGBA(image.Rect(0, 0, size, size))
	s := float64(size)
	for py := 0; py < size; py++ {
		for px := 0; px < size; px++ {
			u, v := inv.Apply(float64(px)+0.5, float64(py)+0.5)
			if u < 0 || u > 1 || v < 0 || v > 1 || math.IsNaN(u) || math.IsNaN(v) {
				continue
			}
			out.SetNRGBA(px, py, sampleBicubic(tex, u*s-0.5, v*s-0.5))
		}
	}
	return out, nil
}

// shadeNRGBA multiplies RGB in place, leaving alpha untouched.
func shadeNRGBA(img *image.NRGBA, factor float64) {
	if factor == FactorNone {
		return
	}
	var lut [256]uint8
	for i := range lut {
		lut[i] = shadeChannel(uint8(i), factor)
	}
	for i := 0; i+3 < len(img.Pix); i += 4 {
		img.Pix[i] = lut[img.Pix[i]]
		img.Pix[i+1] = lut[img.Pix[i+1]]
		img.Pix[i+2] = lut[img.Pix[i+2]]
	}
}

// cubicWeight is the Catmull-Rom kernel (a = -0.5).
func cubicWeight(t float64) float64 {
	t = math.Abs(t)
	switch {
	case t < 1:
		return 1.5*t*t*t - 2.5*t*t + 1
	case t < 2:
		return -0.5*t*t*t + 2.5*t*t - 4*t + 2
	default:
		return 0
	}
}

// sampleBicubic reads img at continuous pixel coordinates (x, y), clamping
// at the edges. Interpolation runs on premultiplied values so transparent
// texels do not bleed color.
func sampleBicubic(img *image.NRGBA, x, y float64) color.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	x0, y0 := int(math.Floor(x)), int(math.Floor(y))
	fx, fy := x-float64(x0), y-float64(y0)

	var wx, wy [4]float64
	for i := 0; i < 4; i++ {
		wx[i] = cubicWeight(fx - float64(i-1))
		wy[i] = cubicWeight(fy - float64(i-1))
	}

	var r, g, bl, a float64
	for j := 0; j < 4; j++ {
		sy := min(max(y0+j-1, 0), h-1)
		for i := 0; i < 4; i++ {
			sx := min(max(x0+i-1, 0), w-1)
			wt := wx[i] * wy[j]
			if wt == 0 {
				continue
			}
			o := img.PixOffset(img.Rect.Min.X+sx, img.Rect.Min.Y+sy)
			pa := float64(img.Pix[o+3]) / 255
			r += wt * float64(img.Pix[o]) * pa
			g += wt * float64(img.Pix[o+1]) * pa
			bl += wt * float64(img.Pix[o+2]) * pa
			a += wt * pa
		}
	}
	if a <= 0 {
		return color.NRGBA{}
	}
	if a > 1 {
		a = 1
	}
	return color.NRGBA{
		R: clampByte(r / a),
		G: clampByte(g / a),
		B: clampByte(bl / a),
		A: clampByte(a * 255),
	}
}

func clampByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}
