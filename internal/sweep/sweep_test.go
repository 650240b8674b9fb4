package sweep

import (
	"errors"
	"testing"

	"github.com/danielpatrickdp/mbneck/internal/neck"
	"github.com/danielpatrickdp/mbneck/internal/replay"
	"github.com/danielpatrickdp/mbneck/internal/trace"
)

func referenceHead() trace.Trace {
	return trace.Trace{
		{BodyY: 196, AngleDelta: 1792, ExpectedLower: 36864, ExpectedUpper: 38912, ExpectedHeadY: 64},
		{BodyY: 196, AngleDelta: 1792, ExpectedLower: 35072, ExpectedUpper: 37120, ExpectedHeadY: 61},
		{BodyY: 196, AngleDelta: 1280, ExpectedLower: 33792, ExpectedUpper: 35840, ExpectedHeadY: 60},
		{BodyY: 196, AngleDelta: 1280, ExpectedLower: 32512, ExpectedUpper: 34560, ExpectedHeadY: 60},
	}
}

func stoodUp(s neck.State) bool { return s.LowerAngle >= neck.StoodUpAngle }

func TestRun_AllWindows(t *testing.T) {
	results, err := Run(referenceHead(), Config{MaxLen: 4, Workers: 3, Goal: stoodUp})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// 4 + 3 + 2 + 1 windows fit in four frames
	if len(results) != 10 {
		t.Fatalf("expected 10 windows, got %d", len(results))
	}
	for i := 1; i < len(results); i++ {
		a, b := results[i-1], results[i]
		if a.Start > b.Start || (a.Start == b.Start && a.Len >= b.Len) {
			t.Fatalf("results out of order at %d: %+v then %+v", i, a, b)
		}
	}

	first := results[0]
	if first.Start != 0 || first.Len != 1 || first.Final.LowerAngle != 32512 || first.Reached {
		t.Errorf("unexpected first window %+v", first)
	}
}

// Holding the input across frames 0..2 interrupts on frames 0 and 2.
func TestRun_ReachedWindow(t *testing.T) {
	results, err := Run(referenceHead(), Config{MaxLen: 4, Workers: 1, Goal: stoodUp})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	found := false
	for _, r := range Reached(results) {
		if r.Start == 0 && r.Len == 3 {
			found = true
		}
		if !stoodUp(r.Final) {
			t.Errorf("window %+v marked reached but not standing", r)
		}
	}
	if !found {
		t.Errorf("expected window 0+3 to reach the goal, got %+v", Reached(results))
	}
}

func TestRun_MismatchIsFatal(t *testing.T) {
	tr := referenceHead()
	tr[0].ExpectedUpper = 0
	_, err := Run(tr, Config{MaxLen: 2, Goal: stoodUp})
	var me *replay.MismatchError
	if !errors.As(err, &me) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
}

func TestRun_BadConfig(t *testing.T) {
	if _, err := Run(referenceHead(), Config{MaxLen: 0, Goal: stoodUp}); err == nil {
		t.Error("expected error for zero max length")
	}
	if _, err := Run(referenceHead(), Config{MaxLen: 2}); err == nil {
		t.Error("expected error for missing goal")
	}
}
