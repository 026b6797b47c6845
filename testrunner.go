package isobuild

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoSteps is returned for a script without steps.
var ErrNoSteps = errors.New("isobuild: script has no steps")

// scriptStep is a single action in a script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Delta  float64 `json:"delta,omitempty"`
	Key    string  `json:"key,omitempty"`
	// Cell addresses a grid cell instead of window coordinates for click
	// steps: [x, z].
	Cell []int `json:"cell,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner sequences injected input, waits and screenshots across
// frames for reproducible runs. Attach with Editor.SetScriptRunner.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	shots     []string
	errs      []error
}

// LoadScript parses a JSON script:
//
//	{"steps": [
//	  {"action": "click", "cell": [3, 4]},
//	  {"action": "drag", "fromX": 10, "fromY": 10, "toX": 200, "toY": 10, "frames": 8},
//	  {"action": "scroll", "x": 300, "y": 300, "delta": 1},
//	  {"action": "key", "key": "e"},
//	  {"action": "wait", "frames": 2},
//	  {"action": "screenshot", "label": "after-rotate"}
//	]}
func LoadScript(data []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: %w", ErrNoSteps)
	}
	for i, st := range sc.Steps {
		switch st.Action {
		case "click", "drag", "scroll", "wait", "screenshot":
		case "key":
			if _, _, ok := ParseKey(st.Key); !ok {
				return nil, fmt.Errorf("parse script: step %d: unknown key %q", i, st.Key)
			}
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: sc.Steps}, nil
}

// SetScriptRunner attaches a runner stepped at the start of every Update.
func (e *Editor) SetScriptRunner(r *ScriptRunner) {
	e.runner = r
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Screenshots returns the paths written by screenshot steps.
func (r *ScriptRunner) Screenshots() []string {
	return r.shots
}

// Errors returns failures from screenshot steps.
func (r *ScriptRunner) Errors() []error {
	return r.errs
}

// step advances the runner by one frame.
func (r *ScriptRunner) step(e *Editor) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(e.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		e.Flush()
		path, err := e.Screenshot(st.Label)
		if err != nil {
			r.errs = append(r.errs, err)
			Logger().Warn("script screenshot failed", "label", st.Label, "err", err)
		} else {
			r.shots = append(r.shots, path)
		}
	case "click":
		x, y := st.X, st.Y
		if len(st.Cell) == 2 {
			p := e.CellCenter(st.Cell[0], st.Cell[1])
			x, y = p.X, p.Y
		}
		e.InjectClick(x, y)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "scroll":
		delta := st.Delta
		if delta == 0 {
			delta = 1
		}
		e.InjectScroll(st.X, st.Y, delta)
	case "key":
		k, mods, _ := ParseKey(st.Key)
		e.InjectKey(k, mods)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}
