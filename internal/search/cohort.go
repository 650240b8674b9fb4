package search

import (
	"slices"

	"github.com/danielpatrickdp/mbneck/internal/graph"
	"github.com/danielpatrickdp/mbneck/internal/neck"
)

// #region cohort
// Cohort is a set of states in one layer that are all still acceptable,
// plus the inputs needed from that layer's frame onward.
type Cohort struct {
	States []uint32
	// rev holds the inputs latest frame first, as they are discovered.
	rev []neck.Input
}

// Inputs returns the cohort's inputs in frame order.
func (c *Cohort) Inputs() []neck.Input {
	seq := slices.Clone(c.rev)
	slices.Reverse(seq)
	return seq
}

// branch returns a new cohort one layer earlier. The input list is copied.
func (c *Cohort) branch(states []uint32, in neck.Input) Cohort {
	rev := make([]neck.Input, len(c.rev), len(c.rev)+1)
	copy(rev, c.rev)
	return Cohort{States: states, rev: append(rev, in)}
}

// #endregion cohort

// #region partition
// partition groups the parents of a cohort's states by the input their frame
// needs to land inside the cohort:
//
//	x: either input works
//	y: only true works
//	n: only false works
//
// A parent reached by both a true edge and a false edge moves to x.
func partition(layer graph.Layer, states []uint32) (x, y, n []uint32) {
	xs := make(map[uint32]struct{})
	ys := make(map[uint32]struct{})
	ns := make(map[uint32]struct{})

	for _, s := range states {
		for _, e := range layer[s].Parents {
			p := e.Parent
			if _, ok := xs[p]; ok {
				continue
			}
			switch e.Label {
			case neck.InputAny:
				delete(ys, p)
				delete(ns, p)
				xs[p] = struct{}{}
			case neck.InputTrue:
				if _, ok := ns[p]; ok {
					delete(ns, p)
					xs[p] = struct{}{}
				} else {
					ys[p] = struct{}{}
				}
			case neck.InputFalse:
				if _, ok := ys[p]; ok {
					delete(ys, p)
					xs[p] = struct{}{}
				} else {
					ns[p] = struct{}{}
				}
			}
		}
	}
	return sortedKeys(xs), sortedKeys(ys), sortedKeys(ns)
}

func sortedKeys(m map[uint32]struct{}) []uint32 {
	if len(m) == 0 {
		return nil
	}
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// #endregion partition
