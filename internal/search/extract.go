// Package search walks the forward graph backwards from the goal states and
// ranks the input sequences that reach them.
package search

import (
	"github.com/danielpatrickdp/mbneck/internal/difficulty"
	"github.com/danielpatrickdp/mbneck/internal/graph"
	"github.com/danielpatrickdp/mbneck/internal/neck"
)

// #region types
// Goal accepts final states.
type Goal func(neck.State) bool

// StoodUp accepts states whose lower angle is at least minLower.
func StoodUp(minLower uint16) Goal {
	return func(s neck.State) bool { return s.LowerAngle >= minLower }
}

// Sequence is one complete input sequence, in frame order, with its difficulty.
// Score is computed over the inputs latest frame first.
type Sequence struct {
	Inputs []neck.Input
	Score  uint64
}

// Config bounds the backward walk.
type Config struct {
	StepCap  int `yaml:"step_cap"`  // live cohorts kept after each frame
	FinalCap int `yaml:"final_cap"` // sequences returned
}

// DefaultConfig keeps 100000 cohorts per frame and returns the best 1000.
func DefaultConfig() Config {
	return Config{
		StepCap:  100000,
		FinalCap: 1000,
	}
}

// #endregion types

// #region extractor
// Extractor runs the backward pass.
type Extractor struct {
	config Config
	scorer *difficulty.Scorer

	// OnFrame, if set, is called after each frame with the live cohort count.
	OnFrame func(frame, cohorts int)
}

// NewExtractor creates an extractor.
func NewExtractor(config Config, scorer *difficulty.Scorer) *Extractor {
	return &Extractor{config: config, scorer: scorer}
}

// Extract returns up to FinalCap sequences that end in a goal state, easiest
// first. Every sequence has one input per simulated frame. When no final state
// satisfies the goal the result is empty.
//
// Pruning after each frame may discard a sequence that would have ranked
// better once complete.
func (x *Extractor) Extract(g *graph.Graph, goal Goal) []Sequence {
	var frontier []uint32
	for i, e := range g.Last() {
		if goal(e.State) {
			frontier = append(frontier, uint32(i))
		}
	}
	if len(frontier) == 0 {
		return nil
	}

	cohorts := []Cohort{{States: frontier}}
	for i := len(g.Layers) - 1; i > 0; i-- {
		cohorts = x.stepBack(g.Layers[i], cohorts)
		cohorts = Prune(cohorts, x.config.StepCap, x.scorer)
		if x.OnFrame != nil {
			x.OnFrame(i-1, len(cohorts))
		}
		if len(cohorts) == 0 {
			return nil
		}
	}

	ranked := rank(cohorts, x.scorer)
	if len(ranked) > x.config.FinalCap {
		ranked = ranked[:x.config.FinalCap]
	}
	out := make([]Sequence, len(ranked))
	for i, r := range ranked {
		out[i] = Sequence{Inputs: r.inputs, Score: r.score}
	}
	return out
}

// stepBack turns cohorts of layer into cohorts of the layer before it.
func (x *Extractor) stepBack(layer graph.Layer, cohorts []Cohort) []Cohort {
	next := make([]Cohort, 0, len(cohorts))
	for i := range cohorts {
		c := &cohorts[i]
		xs, ys, ns := partition(layer, c.States)
		if len(xs) > 0 {
			next = append(next, c.branch(xs, neck.InputAny))
		}
		if len(ys) > 0 {
			next = append(next, c.branch(ys, neck.InputTrue))
		}
		if len(ns) > 0 {
			next = append(next, c.branch(ns, neck.InputFalse))
		}
	}
	return next
}

// #endregion extractor
