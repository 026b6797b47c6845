package isobuild

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func captureLogs(t *testing.T, level slog.Level) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

func TestDebugModeLogsFrames(t *testing.T) {
	buf := captureLogs(t, slog.LevelDebug)
	c := newTestCompositor(nil)
	store := NewVoxelStore(16)
	store.Set(Coord{}, "stone")

	c.RenderFrame(store, ViewState{Zoom: 1}, Vec2{X: 100, Y: 100})
	if buf.Len() != 0 {
		t.Fatalf("logged with debug mode off: %s", buf.String())
	}

	c.SetDebugMode(true)
	c.RenderFrame(store, ViewState{Zoom: 1}, Vec2{X: 100, Y: 100})
	out := buf.String()
	for _, want := range []string{"msg=frame", "voxels=1", "commands=3", "color_hit_rate="} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %q:\n%s", want, out)
		}
	}
}

func TestDebugModeToggleKey(t *testing.T) {
	e, _ := newTestEditor(t)
	e.InjectKey(KeyF3, 0)
	drain(e)
	if !e.Compositor().debug {
		t.Error("F3 did not enable debug mode")
	}
	e.SetDebugMode(false)
	if e.Compositor().debug {
		t.Error("SetDebugMode(false) left debug on")
	}
}

func TestWarnings(t *testing.T) {
	buf := captureLogs(t, slog.LevelWarn)
	ColorOrGray("nope", "id", "mystery")
	if !strings.Contains(buf.String(), "malformed color") || !strings.Contains(buf.String(), "id=mystery") {
		t.Errorf("no warning for malformed color:\n%s", buf.String())
	}

	buf.Reset()
	LoadBuild(strings.NewReader(`{"build_data":{"1;2;3":"stone"}}`), NewVoxelStore(16), DefaultCatalog())
	if !strings.Contains(buf.String(), "corrupt build entry") {
		t.Errorf("no warning for corrupt key:\n%s", buf.String())
	}
}

func TestLoggerDefaultSilent(t *testing.T) {
	SetLogger(nil)
	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("default logger is enabled")
	}
}

func TestCountCommands(t *testing.T) {
	cmds := []DrawCommand{{Type: CommandImage}, {Type: CommandPolygon}, {Type: CommandImage}}
	if n := countCommands(cmds, CommandImage); n != 2 {
		t.Errorf("countCommands = %d, want 2", n)
	}
}
