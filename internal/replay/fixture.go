package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/danielpatrickdp/mbneck/internal/trace"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a replay fixture: a short
// recorded trace plus input schedules with their known outcomes.
type Fixture struct {
	Description string        `json:"description"`
	Frames      [][5]uint16   `json:"frames"`
	Cases       []FixtureCase `json:"cases"`
}

// FixtureCase is one input schedule and the final lower angle it must produce.
type FixtureCase struct {
	Name       string `json:"name"`
	JumpFrames []int  `json:"jump_frames"`
	WantLower  uint16 `json:"want_lower"`
}

// CaseResult is the outcome of replaying one FixtureCase.
type CaseResult struct {
	Name     string
	GotLower uint16
	Passed   bool
	Err      error // validation mismatch, if any
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// Trace converts the fixture's raw rows to a trace.
func (f *Fixture) Trace() trace.Trace {
	t := make(trace.Trace, len(f.Frames))
	for i, row := range f.Frames {
		t[i] = trace.FromColumns(row)
	}
	return t
}

// #endregion fixture-loader

// #region run-fixture

// RunFixture replays every case of the fixture.
func RunFixture(f *Fixture) []CaseResult {
	t := f.Trace()
	results := make([]CaseResult, 0, len(f.Cases))
	for _, c := range f.Cases {
		final, err := Simulate(t, Frames(c.JumpFrames...))
		results = append(results, CaseResult{
			Name:     c.Name,
			GotLower: final.LowerAngle,
			Passed:   err == nil && final.LowerAngle == c.WantLower,
			Err:      err,
		})
	}
	return results
}

// #endregion run-fixture
