// Isorender renders saved builds to PNG without opening a window, and
// inspects or converts build files.
//
//	isorender render build.json -o build.png --rotation 90 --zoom 2
//	isorender info build.json.gz
//	isorender convert build.json build.json.gz
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/phanxgames/isobuild"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "isorender",
		Usage: "renders isometric voxel builds headlessly",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML config file (default $" + isobuild.ConfigEnv + ")"},
			&cli.StringFlag{Name: "catalog", Usage: "YAML block catalog (default built-in palette)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log to stderr"},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("verbose") {
				isobuild.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "render",
				Usage:     "render a build to PNG",
				ArgsUsage: "<build.json[.gz]>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "build.png", Usage: "output PNG path"},
					&cli.IntFlag{Name: "rotation", Usage: "view rotation in degrees, a multiple of 90 (negative turns left)"},
					&cli.Float64Flag{Name: "zoom", Value: 2, Usage: "zoom level"},
					&cli.IntFlag{Name: "width", Value: 1024, Usage: "image width"},
					&cli.IntFlag{Name: "height", Value: 768, Usage: "image height"},
					&cli.StringFlag{Name: "textures", Usage: "directory of <block>.png textures"},
					&cli.BoolFlag{Name: "frame", Usage: "center the occupied region"},
				},
				Action: render,
			},
			{
				Name:      "info",
				Usage:     "print block counts",
				ArgsUsage: "<build.json[.gz]>",
				Action:    info,
			},
			{
				Name:      "convert",
				Usage:     "rewrite a build, compressing when the output ends in .gz",
				ArgsUsage: "<in> <out>",
				Action:    convert,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func setup(c *cli.Context) (isobuild.Config, *isobuild.MapCatalog, error) {
	cfg, err := isobuild.LoadConfig(c.String("config"))
	if err != nil {
		return cfg, nil, err
	}
	path := c.String("catalog")
	if path == "" {
		path = cfg.Assets.Catalog
	}
	if path == "" {
		return cfg, isobuild.DefaultCatalog(), nil
	}
	cat, err := isobuild.LoadCatalog(path)
	return cfg, cat, err
}

func loadArg(c *cli.Context, cfg isobuild.Config, cat isobuild.Catalog) (*isobuild.VoxelStore, isobuild.LoadReport, error) {
	if c.NArg() < 1 {
		return nil, isobuild.LoadReport{}, fmt.Errorf("missing build file argument")
	}
	store := isobuild.NewVoxelStore(cfg.Grid.Size)
	rep, err := isobuild.LoadBuildFile(c.Args().Get(0), store, cat)
	return store, rep, err
}

func render(c *cli.Context) error {
	cfg, cat, err := setup(c)
	if err != nil {
		return err
	}
	if dir := c.String("textures"); dir != "" {
		cat.AttachTextures(dir)
	}
	store, _, err := loadArg(c, cfg, cat)
	if err != nil {
		return err
	}

	steps, err := rotationSteps(c.Int("rotation"))
	if err != nil {
		return err
	}

	comp := isobuild.NewCompositor(cfg, cat, isobuild.DirSource())
	view := isobuild.NewViewport(cfg.Zoom, comp)
	view.SetZoom(c.Float64("zoom"))
	for i := 0; i < steps; i++ {
		view.RotateRight()
	}
	if c.Bool("frame") {
		if off, ok := view.CenterOffset(store, cfg.Render.TileWidth); ok {
			view.PanBy(off.X, off.Y)
		}
	}

	w, h := c.Int("width"), c.Int("height")
	surf := isobuild.NewImageSurface(w, h)
	defer surf.Close()
	surf.Clear(isobuild.DarkTheme.IsoCanvas)
	cmds := comp.RenderFrame(store, view.State(), isobuild.Vec2{X: float64(w), Y: float64(h)})
	isobuild.Submit(cmds, surf)
	if err := surf.Err(); err != nil {
		return err
	}
	out := c.String("out")
	if err := surf.SavePNG(out); err != nil {
		return err
	}
	fmt.Printf("%s: %d blocks, %d draw commands\n", out, store.Len(), len(cmds))
	return nil
}

// rotationSteps converts a rotation in degrees to clockwise quarter turns.
// Negative angles turn the other way; angles off the 90 degree grid are
// rejected.
func rotationSteps(deg int) (int, error) {
	if deg%90 != 0 {
		return 0, fmt.Errorf("rotation %d: must be a multiple of 90", deg)
	}
	return ((deg/90)%4 + 4) % 4, nil
}

func info(c *cli.Context) error {
	cfg, cat, err := setup(c)
	if err != nil {
		return err
	}
	store, rep, err := loadArg(c, cfg, cat)
	if err != nil {
		return err
	}
	fmt.Printf("size: %d  version: %s\n", store.Size(), rep.Version)
	fmt.Printf("blocks: %d  skipped unknown: %d  skipped corrupt: %d\n", rep.Loaded, rep.SkippedUnknown, rep.SkippedCorrupt)
	if mu, ok := store.MostUsed(); ok {
		fmt.Printf("most used: %s (%d)\n", mu.ID, mu.Count)
	}
	return nil
}

func convert(c *cli.Context) error {
	if c.NArg() < 2 {
		return fmt.Errorf("convert: need <in> <out>")
	}
	cfg, cat, err := setup(c)
	if err != nil {
		return err
	}
	store, _, err := loadArg(c, cfg, cat)
	if err != nil {
		return err
	}
	return isobuild.SaveBuildFile(c.Args().Get(1), store)
}
