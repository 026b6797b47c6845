package isobuild

import (
	"errors"
	"os"
	"testing"
)

func TestLoadScript(t *testing.T) {
	data := []byte(`{"steps": [
		{"action": "click", "cell": [1, 2]},
		{"action": "drag", "fromX": 0, "fromY": 0, "toX": 100, "toY": 0, "frames": 4},
		{"action": "scroll", "x": 10, "y": 10},
		{"action": "key", "key": "ctrl+s"},
		{"action": "wait", "frames": 3},
		{"action": "screenshot", "label": "done"}
	]}`)
	r, err := LoadScript(data)
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if len(r.steps) != 6 {
		t.Errorf("steps = %d, want 6", len(r.steps))
	}
	if r.steps[0].Cell[1] != 2 || r.steps[3].Key != "ctrl+s" {
		t.Errorf("steps = %+v", r.steps)
	}
}

func TestLoadScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{"steps": [`},
		{"unknown action", `{"steps": [{"action": "teleport"}]}`},
		{"unknown key", `{"steps": [{"action": "key", "key": "hyper+z"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadScript([]byte(tt.data)); err == nil {
				t.Error("LoadScript succeeded")
			}
		})
	}

	if _, err := LoadScript([]byte(`{"steps": []}`)); !errors.Is(err, ErrNoSteps) {
		t.Errorf("empty steps err = %v, want ErrNoSteps", err)
	}
}

// --- Runner ---

func runScript(t *testing.T, e *Editor, src string) *ScriptRunner {
	t.Helper()
	r, err := LoadScript([]byte(src))
	if err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	e.SetScriptRunner(r)
	for i := 0; i < 500 && !r.Done(); i++ {
		e.Update(1.0 / 60)
	}
	if !r.Done() {
		t.Fatal("script did not finish")
	}
	return r
}

func TestScriptRunnerEdits(t *testing.T) {
	e, _ := newTestEditor(t)
	runScript(t, e, `{"steps": [
		{"action": "click", "cell": [1, 2]},
		{"action": "key", "key": "]"},
		{"action": "click", "cell": [3, 3]},
		{"action": "key", "key": "w"},
		{"action": "key", "key": "e"},
		{"action": "scroll", "x": 50, "y": 50}
	]}`)

	if id, _ := e.Store().Get(Coord{X: 1, Z: 2}); id != "stone" {
		t.Errorf("cell (1,2) = %q, want stone", id)
	}
	if id, _ := e.Store().Get(Coord{X: 3, Z: 3}); id != "dirt" {
		t.Errorf("cell (3,3) = %q, want dirt", id)
	}
	if e.Layer() != 1 {
		t.Errorf("Layer = %d, want 1", e.Layer())
	}
	if e.Viewport().Rotation() != Rotation90 {
		t.Errorf("Rotation = %d, want 90", e.Viewport().Rotation())
	}
	if !approxEqual(e.Viewport().Zoom(), 5.5, 1e-9) {
		t.Errorf("Zoom = %f, want 5.5", e.Viewport().Zoom())
	}
}

func TestScriptRunnerWait(t *testing.T) {
	e, _ := newTestEditor(t)
	r, err := LoadScript([]byte(`{"steps": [{"action": "wait", "frames": 3}]}`))
	if err != nil {
		t.Fatal(err)
	}
	e.SetScriptRunner(r)
	frames := 0
	for !r.Done() && frames < 10 {
		e.Update(0)
		frames++
	}
	if frames != 4 {
		t.Errorf("frames = %d, want 4", frames)
	}
}

func TestScriptRunnerScreenshot(t *testing.T) {
	e, _ := newTestEditor(t)
	e.Resize(300, 200)
	r := runScript(t, e, `{"steps": [
		{"action": "click", "x": 250, "y": 10},
		{"action": "screenshot", "label": "after click"}
	]}`)

	if len(r.Errors()) != 0 {
		t.Fatalf("Errors = %v", r.Errors())
	}
	shots := r.Screenshots()
	if len(shots) != 1 {
		t.Fatalf("Screenshots = %v, want one", shots)
	}
	if _, err := os.Stat(shots[0]); err != nil {
		t.Errorf("screenshot missing: %v", err)
	}
	if e.Store().Len() != 1 {
		t.Errorf("Len = %d, want 1", e.Store().Len())
	}
}
