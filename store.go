package isobuild

// MaxGridSize is the largest grid extent accepted from files and config.
// The editor grid draws a line per row and column, so the extent is bounded.
const MaxGridSize = 256

// VoxelStore is the sparse mapping from grid cell to block id. Absence of a
// key means the cell is empty. The store is owned by a single goroutine.
type VoxelStore struct {
	cells map[Coord]string
	size  int
}

// NewVoxelStore creates an empty store for a grid of the given extent.
func NewVoxelStore(size int) *VoxelStore {
	return &VoxelStore{cells: make(map[Coord]string), size: size}
}

// Size returns the grid extent.
func (s *VoxelStore) Size() int {
	return s.size
}

// SetSize changes the grid extent. Existing entries are kept even if they
// fall outside the new bounds; the projector handles them like any other.
func (s *VoxelStore) SetSize(size int) {
	if size > 0 {
		s.size = size
	}
}

// Set stores id at c. Setting AirID is the same as Remove.
func (s *VoxelStore) Set(c Coord, id string) {
	if id == AirID || id == "" {
		delete(s.cells, c)
		return
	}
	s.cells[c] = id
}

// Remove deletes the entry at c, if any.
func (s *VoxelStore) Remove(c Coord) {
	delete(s.cells, c)
}

// Get returns the block id at c.
func (s *VoxelStore) Get(c Coord) (string, bool) {
	id, ok := s.cells[c]
	return id, ok
}

// Len returns the number of occupied cells.
func (s *VoxelStore) Len() int {
	return len(s.cells)
}

// Each calls fn for every entry in unspecified order.
func (s *VoxelStore) Each(fn func(c Coord, id string)) {
	for c, id := range s.cells {
		fn(c, id)
	}
}

// All returns a copy of the whole mapping.
func (s *VoxelStore) All() map[Coord]string {
	out := make(map[Coord]string, len(s.cells))
	for c, id := range s.cells {
		out[c] = id
	}
	return out
}

// Clear removes every entry.
func (s *VoxelStore) Clear() {
	clear(s.cells)
}

// BulkLoad replaces the whole mapping with m. Air entries are dropped.
func (s *VoxelStore) BulkLoad(m map[Coord]string) {
	s.cells = make(map[Coord]string, len(m))
	for c, id := range m {
		s.Set(c, id)
	}
}

// BlockCount pairs a block id with its number of occurrences.
type BlockCount struct {
	ID    string
	Count int
}

// MostUsed returns the most frequent block id. Ties go to the id that sorts
// first so the result is stable across runs.
func (s *VoxelStore) MostUsed() (BlockCount, bool) {
	counts := make(map[string]int)
	for _, id := range s.cells {
		counts[id]++
	}
	var best BlockCount
	found := false
	for id, n := range counts {
		if !found || n > best.Count || (n == best.Count && id < best.ID) {
			best = BlockCount{ID: id, Count: n}
			found = true
		}
	}
	return best, found
}

// Bounds returns the inclusive min and max cells over all entries.
func (s *VoxelStore) Bounds() (lo, hi Coord, ok bool) {
	for c := range s.cells {
		if !ok {
			lo, hi, ok = c, c, true
			continue
		}
		lo.X, hi.X = min(lo.X, c.X), max(hi.X, c.X)
		lo.Z, hi.Z = min(lo.Z, c.Z), max(hi.Z, c.Z)
		lo.Y, hi.Y = min(lo.Y, c.Y), max(hi.Y, c.Y)
	}
	return lo, hi, ok
}
