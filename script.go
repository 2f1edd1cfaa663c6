package cadmus

import (
	"encoding/json"
	"fmt"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	X      int    `json:"x,omitempty"`
	Y      int    `json:"y,omitempty"`
	FromX  int    `json:"fromX,omitempty"`
	FromY  int    `json:"fromY,omitempty"`
	ToX    int    `json:"toX,omitempty"`
	ToY    int    `json:"toY,omitempty"`
	Key    string `json:"key,omitempty"`
	Cycles int    `json:"cycles,omitempty"`
}

// inputScript is the top-level JSON structure of an input script.
type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptRunner replays a JSON input script against an App for automated
// end-to-end and visual testing: taps, holds, swipes and key presses are
// injected as engine cycles, "settle" drains the follow-up queue, and
// "screenshot" captures the in-memory framebuffer to a PNG.
type ScriptRunner struct {
	steps []scriptStep
}

// LoadScript parses a JSON input script.
func LoadScript(data []byte) (*ScriptRunner, error) {
	var script inputScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// Run executes every step in order. Screenshots land in dir and require fb
// to be the App's framebuffer.
func (r *ScriptRunner) Run(a *App, fb *ImageFramebuffer, dir string) error {
	for i, st := range r.steps {
		if err := r.runStep(a, fb, dir, st); err != nil {
			return fmt.Errorf("script step %d (%s): %w", i, st.Action, err)
		}
	}
	return nil
}

func (r *ScriptRunner) runStep(a *App, fb *ImageFramebuffer, dir string, st scriptStep) error {
	switch st.Action {
	case "tap":
		return a.Cycle(Tap{Center: Pt{X: st.X, Y: st.Y}})
	case "hold":
		return a.Cycle(Hold{Center: Pt{X: st.X, Y: st.Y}})
	case "swipe":
		start := Pt{X: st.FromX, Y: st.FromY}
		end := Pt{X: st.ToX, Y: st.ToY}
		return a.Cycle(Swipe{Dir: swipeDirection(start, end), Start: start, End: end})
	case "key":
		if st.Key == "" {
			return fmt.Errorf("missing key")
		}
		return a.Cycle(KeyPress{Key: []rune(st.Key)[0]})
	case "settle":
		cycles := st.Cycles
		if cycles <= 0 {
			cycles = 16
		}
		a.Settle(cycles)
		return nil
	case "screenshot":
		if fb == nil {
			return fmt.Errorf("no capture framebuffer")
		}
		_, err := fb.WritePNG(dir, st.Label)
		return err
	default:
		return fmt.Errorf("unknown action %q", st.Action)
	}
}

// swipeDirection classifies a drag by its dominant axis.
func swipeDirection(start, end Pt) Direction {
	dx := end.X - start.X
	dy := end.Y - start.Y
	if abs(dx) >= abs(dy) {
		if dx < 0 {
			return DirWest
		}
		return DirEast
	}
	if dy < 0 {
		return DirNorth
	}
	return DirSouth
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
