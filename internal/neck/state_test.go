package neck

import (
	"math/rand"
	"testing"
)

// #region step-tests

// 1. First frame of the reference trace: no input, both joints lower by the delta.
func TestStep_ReferenceSecondRow(t *testing.T) {
	got := Initial().Step(196, 1792, false)
	want := State{LowerAngle: 0x8900, UpperAngle: 0x9100}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

// 2. Interrupt while the upper joints move down: directions flip, upper angle holds.
func TestStep_InterruptHoldsUpperAngle(t *testing.T) {
	got := Initial().Step(196, 1792, true)
	if got.LowerAngle != 0x8900 {
		t.Errorf("expected lower 0x8900, got %#x", got.LowerAngle)
	}
	if got.UpperAngle != 0x9800 {
		t.Errorf("expected upper to hold at 0x9800, got %#x", got.UpperAngle)
	}
	if !got.LowerMovingUp || !got.UpperMovingUp {
		t.Errorf("expected both joints moving up, got %+v", got)
	}
}

// 3. Rising lower joints stop without moving when the head is above the threshold.
func TestStep_LowerStopsWhenHeadHigh(t *testing.T) {
	s := State{LowerAngle: 0x8000, UpperAngle: 0x8800, LowerMovingUp: true, UpperMovingUp: true}
	if s.HeadY(196) >= HeadStopY {
		t.Fatalf("test precondition: head y %d should be below %d", s.HeadY(196), HeadStopY)
	}
	got := s.Step(196, 0x100, false)
	if got.LowerAngle != 0x8000 || got.LowerMovingUp {
		t.Errorf("expected lower to stop at 0x8000, got %+v", got)
	}
	if got.UpperAngle != 0x8800 || got.UpperMovingUp {
		t.Errorf("expected upper clamped to ceiling 0x8800, got %+v", got)
	}
}

// 4. Rising lower joints clamp at the top bound.
func TestStep_LowerClampsAtMax(t *testing.T) {
	s := State{LowerAngle: 0x8F00, UpperAngle: 0x3000, LowerMovingUp: true, UpperMovingUp: false}
	bodyY := uint16(0x200) // torso low enough that the head never blocks
	if s.HeadY(bodyY) < HeadStopY {
		t.Fatalf("test precondition: head y %d should be at or below %d", s.HeadY(bodyY), HeadStopY)
	}
	got := s.Step(bodyY, 0x200, false)
	if got.LowerAngle != LowerMax || got.LowerMovingUp {
		t.Errorf("expected lower clamped at max moving down, got %+v", got)
	}
}

// 5. Falling joints clamp at their floors and turn around.
func TestStep_FloorsClamp(t *testing.T) {
	s := State{LowerAngle: 0x2900, UpperAngle: 0x2080}
	got := s.Step(196, 0x200, false)
	want := State{LowerAngle: LowerMin, UpperAngle: UpperMin, LowerMovingUp: true, UpperMovingUp: true}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

// 6. Input has no effect while the upper joints are already rising.
func TestStep_InputIgnoredWhileUpperRising(t *testing.T) {
	s := State{LowerAngle: 0x5000, UpperAngle: 0x3000, UpperMovingUp: true}
	if a, b := s.Step(196, 0x100, true), s.Step(196, 0x100, false); a != b {
		t.Fatalf("expected identical results, got %+v and %+v", a, b)
	}
}

// #endregion step-tests

// #region property-tests

func randomWalk(t *testing.T, seed int64, frames int, fn func(prev, next State, bodyY, delta uint16, input bool)) {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	s := Initial()
	for i := 0; i < frames; i++ {
		bodyY := uint16(150 + r.Intn(100))
		delta := uint16(r.Intn(0x800) + 1)
		input := r.Intn(4) == 0
		next := s.Step(bodyY, delta, input)
		fn(s, next, bodyY, delta, input)
		s = next
	}
}

func TestStep_Deterministic(t *testing.T) {
	randomWalk(t, 1, 5000, func(prev, next State, bodyY, delta uint16, input bool) {
		if again := prev.Step(bodyY, delta, input); again != next {
			t.Fatalf("step not deterministic from %+v: %+v vs %+v", prev, next, again)
		}
	})
}

func TestStep_BoundsInvariant(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		randomWalk(t, seed, 2000, func(prev, next State, _, _ uint16, _ bool) {
			if !next.InBounds() {
				t.Fatalf("seed %d: state out of bounds after %+v: %+v", seed, prev, next)
			}
		})
	}
}

// #endregion property-tests

// #region head-y-tests

// Head positions for the first reference rows, expected values already minus 0x15.
func TestHeadY_ReferenceRows(t *testing.T) {
	cases := []struct {
		lower, upper uint16
		want         uint16
	}{
		{36864, 38912, 64 - 0x15},
		{35072, 37120, 61 - 0x15},
		{33792, 35840, 60 - 0x15},
		{32512, 34560, 60 - 0x15},
	}
	for _, c := range cases {
		s := State{LowerAngle: c.lower, UpperAngle: c.upper}
		if got := s.HeadY(196); got != c.want {
			t.Errorf("HeadY(%d, %d): expected %d, got %d", c.lower, c.upper, c.want, got)
		}
	}
}

func TestHeadY_WrapsAboveScreen(t *testing.T) {
	s := State{LowerAngle: 0x8000, UpperAngle: 0x8000}
	if got := s.HeadY(0x10); got < 0x8000 {
		t.Errorf("expected negative head y to wrap to a large value, got %d", got)
	}
}

// #endregion head-y-tests
