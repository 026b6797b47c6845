package isobuild

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// FormatVersion is written to every saved build.
const FormatVersion = "1.0"

// buildFile is the persisted form of a voxel store.
type buildFile struct {
	BuildData map[string]string `json:"build_data"`
	BuildSize int               `json:"build_size"`
	Version   string            `json:"version"`
}

// rawBuildFile is buildFile with every value left undecoded, so a single
// wrong-typed value can be skipped without failing the document.
type rawBuildFile struct {
	BuildData map[string]json.RawMessage `json:"build_data"`
	BuildSize json.RawMessage            `json:"build_size"`
	Version   json.RawMessage            `json:"version"`
}

// LoadReport summarizes a load. Entries are skipped individually; a bad
// entry never fails the whole load.
type LoadReport struct {
	Loaded         int
	SkippedUnknown int
	SkippedCorrupt int
	Size           int
	Version        string
}

// ParseCoord parses the persisted "x,z,y" key form.
func ParseCoord(key string) (Coord, error) {
	parts := strings.Split(key, ",")
	if len(parts) != 3 {
		return Coord{}, fmt.Errorf("coordinate %q: want 3 components, got %d", key, len(parts))
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Coord{}, fmt.Errorf("coordinate %q: %w", key, err)
		}
		v[i] = n
	}
	return Coord{X: v[0], Z: v[1], Y: v[2]}, nil
}

// SaveBuild writes store as indented JSON.
func SaveBuild(w io.Writer, store *VoxelStore) error {
	f := buildFile{
		BuildData: make(map[string]string, store.Len()),
		BuildSize: store.Size(),
		Version:   FormatVersion,
	}
	store.Each(func(c Coord, id string) {
		f.BuildData[c.String()] = id
	})
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(&f); err != nil {
		return fmt.Errorf("encode build: %w", err)
	}
	return nil
}

// LoadBuild replaces the contents of store with the build read from r.
// Entries with a malformed or out-of-range key, a value that is not a
// string, or a block id unknown to cat, are skipped. A missing or invalid
// build_size keeps the store's current size, as does one above MaxGridSize.
// The store is left untouched if the document cannot be decoded.
func LoadBuild(r io.Reader, store *VoxelStore, cat Catalog) (LoadReport, error) {
	var f rawBuildFile
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return LoadReport{}, fmt.Errorf("decode build: %w", err)
	}

	rep := LoadReport{Size: store.Size()}
	if len(f.Version) > 0 {
		if err := json.Unmarshal(f.Version, &rep.Version); err != nil {
			Logger().Warn("ignoring invalid build version", "version", string(f.Version))
		}
	}
	if len(f.BuildSize) > 0 && string(f.BuildSize) != "null" {
		var n int
		switch err := json.Unmarshal(f.BuildSize, &n); {
		case err != nil:
			Logger().Warn("ignoring invalid build size", "build_size", string(f.BuildSize))
		case n > MaxGridSize:
			Logger().Warn("ignoring oversized build size", "build_size", n, "max", MaxGridSize)
		case n > 0:
			rep.Size = n
		}
	}

	// Sort keys so skip warnings come out in a stable order.
	keys := make([]string, 0, len(f.BuildData))
	for k := range f.BuildData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	cells := make(map[Coord]string, len(keys))
	for _, k := range keys {
		var id string
		if err := json.Unmarshal(f.BuildData[k], &id); err != nil || id == "" {
			Logger().Warn("skipping corrupt build entry", "key", k, "value", string(f.BuildData[k]))
			rep.SkippedCorrupt++
			continue
		}
		c, err := ParseCoord(k)
		if err != nil {
			Logger().Warn("skipping corrupt build entry", "key", k, "err", err)
			rep.SkippedCorrupt++
			continue
		}
		if !c.InBounds(rep.Size) {
			Logger().Warn("skipping out-of-range build entry", "key", k, "size", rep.Size)
			rep.SkippedCorrupt++
			continue
		}
		if _, ok := cat.Lookup(id); !ok || id == AirID {
			rep.SkippedUnknown++
			continue
		}
		cells[c] = id
	}

	store.SetSize(rep.Size)
	store.BulkLoad(cells)
	rep.Loaded = store.Len()
	Logger().Info("build loaded",
		"blocks", rep.Loaded, "size", rep.Size,
		"skipped_unknown", rep.SkippedUnknown, "skipped_corrupt", rep.SkippedCorrupt)
	return rep, nil
}

// isGzipPath reports whether path names a gzip-compressed build.
func isGzipPath(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".gz")
}

// SaveBuildFile writes store to path, gzip-compressed when path ends in
// ".gz". The file is written to a temporary name and renamed into place.
func SaveBuildFile(path string, store *VoxelStore) error {
	var buf bytes.Buffer
	if isGzipPath(path) {
		zw := gzip.NewWriter(&buf)
		if err := SaveBuild(zw, store); err != nil {
			return err
		}
		if err := zw.Close(); err != nil {
			return fmt.Errorf("compress build: %w", err)
		}
	} else if err := SaveBuild(&buf, store); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write build: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write build: %w", err)
	}
	Logger().Info("build saved", "path", path, "blocks", store.Len())
	return nil
}

// LoadBuildFile reads a build from path, transparently decompressing
// gzip files.
func LoadBuildFile(path string, store *VoxelStore, cat Catalog) (LoadReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return LoadReport{}, fmt.Errorf("open build: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if isGzipPath(path) {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return LoadReport{}, fmt.Errorf("open build %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	rep, err := LoadBuild(r, store, cat)
	if err != nil {
		return rep, fmt.Errorf("load %s: %w", path, err)
	}
	return rep, nil
}
