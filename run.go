package isobuild

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
}

// RunConfigFrom derives a RunConfig from the window section of cfg.
func RunConfigFrom(cfg Config) RunConfig {
	return RunConfig{Title: cfg.Window.Title, Width: cfg.Window.Width, Height: cfg.Window.Height}
}

// fpsOverlay caches the FPS line and refreshes it about twice a second.
type fpsOverlay struct {
	elapsed float64
	line    string
}

func (o *fpsOverlay) update(dt float64, images int) {
	o.elapsed += dt
	if o.line != "" && o.elapsed < 0.5 {
		return
	}
	o.elapsed = 0
	o.line = fmt.Sprintf("FPS: %.1f  TPS: %.1f  Textures: %d", ebiten.ActualFPS(), ebiten.ActualTPS(), images)
}

type game struct {
	editor  *Editor
	input   ebitenInput
	surface *EbitenSurface
	fps     *fpsOverlay
	w, h    int
}

func (g *game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	if g.editor.runner != nil {
		g.editor.runner.step(g.editor)
	}
	if !g.editor.processInjected() {
		g.input.poll(g.w, g.h, g.editor.HandleEvent)
	}
	g.editor.tick(float32(dt))
	if g.fps != nil {
		g.fps.update(dt, g.surface.Uploaded())
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.surface.Begin(screen)
	g.editor.Draw(g.surface)
	if g.fps != nil {
		ebitenutil.DebugPrintAt(screen, g.fps.line, 4, 4)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.w || outsideHeight != g.h {
		g.w, g.h = outsideWidth, outsideHeight
		g.editor.HandleEvent(Event{Type: EventResize, Width: outsideWidth, Height: outsideHeight})
	}
	return outsideWidth, outsideHeight
}

// Run opens a resizable window and drives the editor until it is closed.
func Run(e *Editor, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = e.cfg.Window.Width, e.cfg.Window.Height
	}
	if cfg.Title == "" {
		cfg.Title = e.cfg.Window.Title
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g := &game{editor: e, surface: NewEbitenSurface()}
	if cfg.ShowFPS {
		g.fps = &fpsOverlay{}
	}
	return ebiten.RunGame(g)
}
