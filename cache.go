package isobuild

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/gogpu/gg/cache"
)

// newLRU creates a bounded LRU cache holding roughly total entries. The
// underlying cache is sharded, so the bound is applied per shard.
func newLRU[K comparable, V any](total int, hasher cache.Hasher[K]) *cache.ShardedCache[K, V] {
	perShard := (total + cache.DefaultShardCount - 1) / cache.DefaultShardCount
	if perShard < 1 {
		perShard = 1
	}
	return cache.NewSharded[K, V](perShard, hasher)
}

// keyHasher accumulates fixed-width fields into an xxhash digest.
type keyHasher struct {
	d   *xxhash.Digest
	buf [8]byte
}

func newKeyHasher() keyHasher {
	return keyHasher{d: xxhash.New()}
}

func (h *keyHasher) str(s string) {
	_, _ = h.d.WriteString(s)
	_, _ = h.d.Write([]byte{0})
}

func (h *keyHasher) u64(v uint64) {
	binary.LittleEndian.PutUint64(h.buf[:], v)
	_, _ = h.d.Write(h.buf[:])
}

func (h *keyHasher) f64(v float64) {
	h.u64(math.Float64bits(v))
}

func (h *keyHasher) sum() uint64 {
	return h.d.Sum64()
}

// shadeKey identifies a shaded color: base color and factor.
type shadeKey struct {
	rgb    uint32
	factor float64
}

func hashShadeKey(k shadeKey) uint64 {
	h := newKeyHasher()
	h.u64(uint64(k.rgb))
	h.f64(k.factor)
	return h.sum()
}

// warpKey identifies a warped face image: source asset, face, target size,
// and the shade factor baked into the pixels.
type warpKey struct {
	asset  string
	face   Face
	size   int
	factor float64
}

func hashWarpKey(k warpKey) uint64 {
	h := newKeyHasher()
	h.str(k.asset)
	h.u64(uint64(k.face))
	h.u64(uint64(k.size))
	h.f64(k.factor)
	return h.sum()
}

// coeffKey identifies a projective solve; it depends only on geometry.
type coeffKey struct {
	face Face
	size int
}

func hashCoeffKey(k coeffKey) uint64 {
	return uint64(k.face)<<32 ^ uint64(k.size)*0x9E3779B97F4A7C15
}

func hashString(s string) uint64 {
	return xxhash.Sum64String(s)
}
