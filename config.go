package isobuild

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigEnv names the environment variable consulted by LoadConfig when no
// path is given.
const ConfigEnv = "ISOBUILD_CONFIG"

// Config is the root configuration for the renderer and editor.
type Config struct {
	Grid   GridConfig   `yaml:"grid"`
	Render RenderConfig `yaml:"render"`
	Zoom   ZoomConfig   `yaml:"zoom"`
	Cache  CacheConfig  `yaml:"cache"`
	Redraw RedrawConfig `yaml:"redraw"`
	Assets AssetsConfig `yaml:"assets"`
	Window WindowConfig `yaml:"window"`
	Editor EditorConfig `yaml:"editor"`
}

type GridConfig struct {
	Size int `yaml:"size"`
}

// RenderConfig controls voxel geometry and texture sizing.
type RenderConfig struct {
	// TileWidth is the on-screen width of one voxel at zoom 1.
	TileWidth float64 `yaml:"tile_width"`
	// MinTextureSize is the smallest warped texture edge, in pixels.
	MinTextureSize int `yaml:"min_texture_size"`
	// TextureBucket is the zoom rounding step used for texture cache keys.
	TextureBucket float64 `yaml:"texture_bucket"`
	// OutlineWidth is the stroke width of face outlines.
	OutlineWidth float64 `yaml:"outline_width"`
}

// ZoomConfig bounds and steps the viewport zoom.
type ZoomConfig struct {
	// Initial is the zoom the editor opens with; Default is restored by a
	// view reset.
	Initial float64 `yaml:"initial"`
	Default float64 `yaml:"default"`
	Min     float64 `yaml:"min"`
	Max     float64 `yaml:"max"`
	Factor  float64 `yaml:"factor"`
	Epsilon float64 `yaml:"epsilon"`
	// ClearEvery flushes the texture cache after this many effective zoom
	// steps. Zero disables the periodic flush.
	ClearEvery int `yaml:"clear_every"`
}

// CacheConfig sizes the render caches. Sizes are total entry counts.
type CacheConfig struct {
	WarpEntries   int `yaml:"warp_entries"`
	ColorEntries  int `yaml:"color_entries"`
	CoeffEntries  int `yaml:"coeff_entries"`
	SourceEntries int `yaml:"source_entries"`
}

type RedrawConfig struct {
	Delay time.Duration `yaml:"delay"`
}

type AssetsConfig struct {
	TextureDir string `yaml:"texture_dir"`
	Catalog    string `yaml:"catalog"`
}

type WindowConfig struct {
	Title     string `yaml:"title"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
	GridPanel int    `yaml:"grid_panel"`
}

type EditorConfig struct {
	SavePath      string `yaml:"save_path"`
	ScreenshotDir string `yaml:"screenshot_dir"`
	DarkMode      bool   `yaml:"dark_mode"`
}

// DefaultConfig returns the configuration used when no file is supplied.
func DefaultConfig() Config {
	return Config{
		Grid: GridConfig{Size: 16},
		Render: RenderConfig{
			TileWidth:      16,
			MinTextureSize: 16,
			TextureBucket:  0.1,
			OutlineWidth:   1,
		},
		Zoom: ZoomConfig{
			Initial:    5.0,
			Default:    1.0,
			Min:        0.01,
			Max:        10.0,
			Factor:     1.1,
			Epsilon:    0.01,
			ClearEvery: 20,
		},
		Cache: CacheConfig{
			WarpEntries:   1000,
			ColorEntries:  256,
			CoeffEntries:  128,
			SourceEntries: 128,
		},
		Redraw: RedrawConfig{Delay: 16 * time.Millisecond},
		Assets: AssetsConfig{TextureDir: "blocks"},
		Window: WindowConfig{
			Title:     "Isometric Build Preview",
			Width:     1920,
			Height:    1080,
			GridPanel: 400,
		},
		Editor: EditorConfig{
			SavePath:      "build.json",
			ScreenshotDir: "screenshots",
			DarkMode:      true,
		},
	}
}

// LoadConfig reads a YAML configuration file. Fields absent from the file
// keep their DefaultConfig values. If path is empty, the ISOBUILD_CONFIG
// environment variable is consulted; if that is empty too, only the
// defaults are used. Per-field ISOBUILD_* variables are applied last.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	cfg.Validate()
	return cfg, nil
}

// applyEnv overrides individual fields from ISOBUILD_* variables. Values
// that do not parse are ignored.
func (c *Config) applyEnv() {
	if v := os.Getenv("ISOBUILD_GRID_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Grid.Size = n
		}
	}
	if v := os.Getenv("ISOBUILD_TEXTURE_DIR"); v != "" {
		c.Assets.TextureDir = v
	}
	if v := os.Getenv("ISOBUILD_CATALOG"); v != "" {
		c.Assets.Catalog = v
	}
	if v := os.Getenv("ISOBUILD_SAVE_PATH"); v != "" {
		c.Editor.SavePath = v
	}
	if v := os.Getenv("ISOBUILD_SCREENSHOT_DIR"); v != "" {
		c.Editor.ScreenshotDir = v
	}
}

// Validate replaces out-of-range values with their defaults.
func (c *Config) Validate() {
	def := DefaultConfig()
	if c.Grid.Size <= 0 || c.Grid.Size > MaxGridSize {
		c.Grid.Size = def.Grid.Size
	}
	if c.Render.TileWidth <= 0 {
		c.Render.TileWidth = def.Render.TileWidth
	}
	if c.Render.MinTextureSize <= 0 {
		c.Render.MinTextureSize = def.Render.MinTextureSize
	}
	if c.Render.TextureBucket <= 0 {
		c.Render.TextureBucket = def.Render.TextureBucket
	}
	if c.Render.OutlineWidth < 0 {
		c.Render.OutlineWidth = def.Render.OutlineWidth
	}
	if c.Zoom.Min <= 0 {
		c.Zoom.Min = def.Zoom.Min
	}
	if c.Zoom.Max < c.Zoom.Min {
		c.Zoom.Max = c.Zoom.Min
	}
	if c.Zoom.Default < c.Zoom.Min || c.Zoom.Default > c.Zoom.Max {
		c.Zoom.Default = clamp(def.Zoom.Default, c.Zoom.Min, c.Zoom.Max)
	}
	if c.Zoom.Initial < c.Zoom.Min || c.Zoom.Initial > c.Zoom.Max {
		c.Zoom.Initial = clamp(def.Zoom.Initial, c.Zoom.Min, c.Zoom.Max)
	}
	if c.Zoom.Factor <= 1 {
		c.Zoom.Factor = def.Zoom.Factor
	}
	if c.Zoom.Epsilon < 0 {
		c.Zoom.Epsilon = def.Zoom.Epsilon
	}
	if c.Zoom.ClearEvery < 0 {
		c.Zoom.ClearEvery = 0
	}
	if c.Cache.WarpEntries <= 0 {
		c.Cache.WarpEntries = def.Cache.WarpEntries
	}
	if c.Cache.ColorEntries <= 0 {
		c.Cache.ColorEntries = def.Cache.ColorEntries
	}
	if c.Cache.CoeffEntries <= 0 {
		c.Cache.CoeffEntries = def.Cache.CoeffEntries
	}
	if c.Cache.SourceEntries <= 0 {
		c.Cache.SourceEntries = def.Cache.SourceEntries
	}
	if c.Redraw.Delay < 0 {
		c.Redraw.Delay = def.Redraw.Delay
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window.Width, c.Window.Height = def.Window.Width, def.Window.Height
	}
	if c.Window.GridPanel <= 0 {
		c.Window.GridPanel = def.Window.GridPanel
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
