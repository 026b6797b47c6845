package isobuild

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// AirID is the block id that means "empty". Placing it removes a voxel.
const AirID = "air"

// BlockDef describes one block type. Definitions are immutable once loaded.
type BlockDef struct {
	ID    string
	Name  string
	Color color.NRGBA
	// Texture is an asset reference resolved by a TextureSource. Empty means
	// the block renders flat.
	Texture string
}

// AppearanceKind tags how a block is painted.
type AppearanceKind uint8

const (
	AppearanceFlat     AppearanceKind = iota // three shaded polygons
	AppearanceTextured                       // three warped images plus outlines
)

// Appearance is the render variant of a block. Textured appearances carry
// the base color so a face can fall back to flat shading when its texture
// cannot be produced.
type Appearance struct {
	Kind  AppearanceKind
	Color color.NRGBA
	Asset string
}

// Appearance returns the block's render variant.
func (b BlockDef) Appearance() Appearance {
	if b.Texture != "" {
		return Appearance{Kind: AppearanceTextured, Color: b.Color, Asset: b.Texture}
	}
	return Appearance{Kind: AppearanceFlat, Color: b.Color}
}

// Catalog resolves block ids to definitions.
type Catalog interface {
	Lookup(id string) (BlockDef, bool)
}

// MapCatalog is a Catalog backed by a map, remembering insertion order for
// palette cycling.
type MapCatalog struct {
	defs  map[string]BlockDef
	order []string
}

// NewMapCatalog creates a catalog from the given definitions. Later
// duplicates replace earlier ones but keep the first position.
func NewMapCatalog(defs ...BlockDef) *MapCatalog {
	c := &MapCatalog{defs: make(map[string]BlockDef, len(defs))}
	for _, d := range defs {
		c.Add(d)
	}
	return c
}

// Add inserts or replaces a definition.
func (c *MapCatalog) Add(d BlockDef) {
	if _, ok := c.defs[d.ID]; !ok {
		c.order = append(c.order, d.ID)
	}
	c.defs[d.ID] = d
}

// Lookup implements Catalog.
func (c *MapCatalog) Lookup(id string) (BlockDef, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// IDs returns block ids in insertion order.
func (c *MapCatalog) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Len returns the number of definitions.
func (c *MapCatalog) Len() int {
	return len(c.order)
}

// AttachTextures assigns <dir>/<id>.png to every block whose file exists and
// which has no texture yet. It returns the number of textures attached.
func (c *MapCatalog) AttachTextures(dir string) int {
	n := 0
	for _, id := range c.order {
		d := c.defs[id]
		if d.Texture != "" || id == AirID {
			continue
		}
		path := filepath.Join(dir, id+".png")
		if st, err := os.Stat(path); err != nil || st.IsDir() {
			continue
		}
		d.Texture = path
		c.defs[id] = d
		n++
	}
	if n > 0 {
		Logger().Info("textures attached", "dir", dir, "count", n)
	}
	return n
}

type catalogFile struct {
	Blocks []struct {
		ID      string `yaml:"id"`
		Name    string `yaml:"name"`
		Color   string `yaml:"color"`
		Texture string `yaml:"texture"`
	} `yaml:"blocks"`
}

// LoadCatalog reads a YAML block list:
//
//	blocks:
//	  - id: stone
//	    name: Stone
//	    color: "#7F7F7F"
//	    texture: blocks/stone.png
//
// Malformed colors become NeutralGray. Relative texture paths are resolved
// against the catalog file's directory.
func LoadCatalog(path string) (*MapCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	base := filepath.Dir(path)
	c := NewMapCatalog()
	for i, b := range f.Blocks {
		if b.ID == "" {
			return nil, fmt.Errorf("catalog %s: block %d has no id", path, i)
		}
		col := ColorOrGray(b.Color, "id", b.ID, "catalog", path)
		name := b.Name
		if name == "" {
			name = b.ID
		}
		tex := b.Texture
		if tex != "" && !filepath.IsAbs(tex) {
			tex = filepath.Join(base, tex)
		}
		c.Add(BlockDef{ID: b.ID, Name: name, Color: col, Texture: tex})
	}
	Logger().Info("catalog loaded", "path", path, "blocks", c.Len())
	return c, nil
}

// DefaultCatalog returns the built-in block palette.
func DefaultCatalog() *MapCatalog {
	c := NewMapCatalog()
	for _, b := range defaultBlocks {
		c.Add(BlockDef{ID: b.id, Name: b.name, Color: ColorOrGray(b.hex, "id", b.id)})
	}
	return c
}

// SortedIDs returns the catalog ids sorted alphabetically.
func (c *MapCatalog) SortedIDs() []string {
	ids := c.IDs()
	sort.Strings(ids)
	return ids
}

var defaultBlocks = []struct {
	id, name, hex string
}{
	{"air", "Air", "#FFFFFF"},
	{"stone", "Stone", "#7F7F7F"},
	{"dirt", "Dirt", "#8B4513"},
	{"grass", "Grass", "#228B22"},
	{"cobblestone", "Cobblestone", "#696969"},
	{"wood_planks", "Wood Planks", "#DEB887"},
	{"wood_log", "Wood Log", "#8B4513"},
	{"leaves", "Leaves", "#228B22"},
	{"sand", "Sand", "#F4A460"},
	{"gravel", "Gravel", "#808080"},
	{"gold_ore", "Gold Ore", "#FFD700"},
	{"iron_ore", "Iron Ore", "#CD853F"},
	{"coal_ore", "Coal Ore", "#2F4F4F"},
	{"diamond_ore", "Diamond Ore", "#4169E1"},
	{"emerald_ore", "Emerald Ore", "#50C878"},
	{"bedrock", "Bedrock", "#36454F"},
	{"water", "Water", "#4682B4"},
	{"lava", "Lava", "#FF4500"},
	{"obsidian", "Obsidian", "#1C1C1C"},
	{"glass", "Glass", "#E0FFFF"},
	{"brick", "Brick", "#B22222"},
	{"tnt", "TNT", "#FF0000"},
	{"bookshelf", "Bookshelf", "#8B4513"},
	{"mossy_cobblestone", "Mossy Cobblestone", "#6B8E23"},
	{"snow", "Snow", "#FFFAFA"},
	{"ice", "Ice", "#B0E0E6"},
	{"clay", "Clay", "#A0522D"},
	{"pumpkin", "Pumpkin", "#FF8C00"},
	{"netherrack", "Netherrack", "#8B0000"},
	{"soul_sand", "Soul Sand", "#654321"},
	{"glowstone", "Glowstone", "#FFFF99"},
	{"wool_white", "White Wool", "#FFFFFF"},
	{"wool_black", "Black Wool", "#000000"},
	{"wool_red", "Red Wool", "#FF0000"},
	{"wool_blue", "Blue Wool", "#0000FF"},
	{"wool_green", "Green Wool", "#008000"},
	{"wool_yellow", "Yellow Wool", "#FFFF00"},
	{"wool_orange", "Orange Wool", "#FFA500"},
	{"wool_purple", "Purple Wool", "#800080"},
	{"wool_pink", "Pink Wool", "#FFC0CB"},
	{"concrete_white", "White Concrete", "#F0F0F0"},
	{"concrete_black", "Black Concrete", "#1A1A1A"},
	{"concrete_red", "Red Concrete", "#CC0000"},
	{"concrete_blue", "Blue Concrete", "#003399"},
	{"concrete_green", "Green Concrete", "#006600"},
	{"concrete_yellow", "Yellow Concrete", "#CCCC00"},
	{"quartz", "Quartz", "#F5F5F5"},
	{"prismarine", "Prismarine", "#5F9EA0"},
	{"end_stone", "End Stone", "#E6E6B8"},
	{"purpur", "Purpur", "#A569BD"},
	{"magma", "Magma", "#8B0000"},
	{"sea_lantern", "Sea Lantern", "#B0E0E6"},
	{"terracotta", "Terracotta", "#A0522D"},
	{"glazed_terracotta", "Glazed Terracotta", "#D2691E"},
	{"sandstone", "Sandstone", "#F4A460"},
	{"red_sandstone", "Red Sandstone", "#CD853F"},
	{"granite", "Granite", "#A0522D"},
	{"diorite", "Diorite", "#D3D3D3"},
	{"andesite", "Andesite", "#696969"},
}
