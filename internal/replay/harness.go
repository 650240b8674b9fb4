package replay

import (
	"fmt"

	"github.com/danielpatrickdp/mbneck/internal/neck"
	"github.com/danielpatrickdp/mbneck/internal/trace"
)

// #region types
// MismatchError reports the first frame where the simulation diverged from the recording.
type MismatchError struct {
	Frame int
	Field string // "lower" | "upper" | "head_y"
	Got   uint16
	Want  uint16
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("frame %d, %s: simulated %d, recorded %d", e.Frame, e.Field, e.Got, e.Want)
}

// JumpFunc decides whether the input is asserted on a frame.
type JumpFunc func(frame int) bool

// NoJump never asserts the input.
func NoJump(int) bool { return false }

// Window asserts the input on frames [start, end).
func Window(start, end int) JumpFunc {
	return func(i int) bool { return i >= start && i < end }
}

// Frames asserts the input on exactly the listed frames.
func Frames(frames ...int) JumpFunc {
	set := make(map[int]bool, len(frames))
	for _, f := range frames {
		set[f] = true
	}
	return func(i int) bool { return set[i] }
}

// #endregion types

// #region simulate
// Simulate replays the whole trace from the initial neck state and returns the final state.
// Until the first frame the input is asserted, the simulated state must match the trace's
// ground-truth columns exactly; the first divergence is returned as a *MismatchError.
func Simulate(t trace.Trace, jumpAt JumpFunc) (neck.State, error) {
	s := neck.Initial()
	jumped := false

	for i, frame := range t {
		if !jumped {
			if err := check(i, s, frame); err != nil {
				return s, err
			}
		}

		jump := jumpAt(i)
		jumped = jumped || jump
		s = s.Step(frame.BodyY, t.Delta(i), jump)
	}

	return s, nil
}

// Validate replays the trace with no input and checks every frame.
func Validate(t trace.Trace) error {
	_, err := Simulate(t, NoJump)
	return err
}

func check(i int, s neck.State, f trace.Frame) error {
	if s.LowerAngle != f.ExpectedLower {
		return &MismatchError{Frame: i, Field: "lower", Got: s.LowerAngle, Want: f.ExpectedLower}
	}
	if s.UpperAngle != f.ExpectedUpper {
		return &MismatchError{Frame: i, Field: "upper", Got: s.UpperAngle, Want: f.ExpectedUpper}
	}
	// The recorded head y is measured 0x15 lower than the one the neck logic uses.
	if want := f.ExpectedHeadY - 0x15; s.HeadY(f.BodyY) != want {
		return &MismatchError{Frame: i, Field: "head_y", Got: s.HeadY(f.BodyY), Want: want}
	}
	return nil
}

// #endregion simulate
