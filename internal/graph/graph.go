// Package graph builds the layered graph of every neck state reachable
// under any input sequence, one layer per frame.
package graph

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/mbneck/internal/neck"
	"github.com/danielpatrickdp/mbneck/internal/trace"
)

// #region types
// Edge links a state to a parent in the previous layer.
// Label is the input needed on the parent's frame to take this edge:
// InputAny when both inputs lead here.
type Edge struct {
	Parent uint32
	Label  neck.Input
}

// Entry is a distinct state with every edge that reaches it.
type Entry struct {
	State   neck.State
	Parents []Edge
}

// Layer holds the distinct states reachable at one frame. A state's index
// is its identity for edges from the next layer.
type Layer []Entry

// Graph is the full layered graph. Layer 0 is the initial state; layer i+1
// is the result of simulating frame i. Layers are never modified once built.
type Graph struct {
	Layers []Layer
}

// Frames returns the number of simulated frames.
func (g *Graph) Frames() int { return len(g.Layers) - 1 }

// Last returns the final layer.
func (g *Graph) Last() Layer { return g.Layers[len(g.Layers)-1] }

// StateCount returns the total number of entries across all layers.
func (g *Graph) StateCount() int {
	n := 0
	for _, l := range g.Layers {
		n += len(l)
	}
	return n
}

// Options tune graph construction without changing its result.
type Options struct {
	// Workers evaluates transitions of one layer concurrently when > 1.
	Workers int
	// OnLayer is called after each layer is built with its frame and size.
	OnLayer func(frame, states int)
}

// #endregion types

// #region build
// Build runs the forward pass sequentially.
func Build(initial neck.State, t trace.Trace) *Graph {
	return BuildWith(initial, t, Options{})
}

// BuildWith runs the forward pass. The result does not depend on opts.Workers:
// transitions may be evaluated in parallel, but they are merged in parent order.
func BuildWith(initial neck.State, t trace.Trace, opts Options) *Graph {
	g := &Graph{
		Layers: make([]Layer, 1, len(t)+1),
	}
	g.Layers[0] = Layer{{State: initial}}

	for i, frame := range t {
		prev := g.Layers[i]
		delta := t.Delta(i)

		branches := expand(prev, frame.BodyY, delta, opts.Workers)

		table := NewStateTable(len(prev) * 2)
		for j, b := range branches {
			parent := uint32(j)
			if b.jump == b.stay {
				table.Add(b.jump, Edge{Parent: parent, Label: neck.InputAny})
				continue
			}
			table.Add(b.jump, Edge{Parent: parent, Label: neck.InputTrue})
			table.Add(b.stay, Edge{Parent: parent, Label: neck.InputFalse})
		}

		g.Layers = append(g.Layers, table.Layer())
		if opts.OnLayer != nil {
			opts.OnLayer(i+1, len(g.Layers[i+1]))
		}
	}

	return g
}

// branch is the pair of successors of one state.
type branch struct {
	jump neck.State
	stay neck.State
}

// minChunk keeps small layers on a single goroutine.
var minChunk = 4096

func expand(prev Layer, bodyY, delta uint16, workers int) []branch {
	out := make([]branch, len(prev))
	run := func(lo, hi int) {
		for j := lo; j < hi; j++ {
			s := prev[j].State
			out[j] = branch{
				jump: s.Step(bodyY, delta, true),
				stay: s.Step(bodyY, delta, false),
			}
		}
	}

	if workers <= 1 || len(prev) < 2*minChunk {
		run(0, len(prev))
		return out
	}

	chunk := (len(prev) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}
	var eg errgroup.Group
	eg.SetLimit(workers)
	for lo := 0; lo < len(prev); lo += chunk {
		lo, hi := lo, min(lo+chunk, len(prev))
		eg.Go(func() error {
			run(lo, hi)
			return nil
		})
	}
	_ = eg.Wait() // workers never fail
	return out
}

// #endregion build

// #region check
// Check verifies the graph against the trace that built it: layers hold
// distinct states, and every edge reproduces its child from its parent.
func (g *Graph) Check(t trace.Trace) error {
	if len(g.Layers) != len(t)+1 {
		return fmt.Errorf("graph has %d layers for %d frames", len(g.Layers), len(t))
	}
	for i, layer := range g.Layers {
		seen := make(map[neck.State]int, len(layer))
		for j, e := range layer {
			if k, dup := seen[e.State]; dup {
				return fmt.Errorf("layer %d: entries %d and %d hold the same state %+v", i, k, j, e.State)
			}
			seen[e.State] = j

			if i == 0 {
				if len(e.Parents) != 0 {
					return fmt.Errorf("layer 0: entry %d has parents", j)
				}
				continue
			}
			if err := checkEdges(g.Layers[i-1], e, t[i-1].BodyY, t.Delta(i-1)); err != nil {
				return fmt.Errorf("layer %d, entry %d: %w", i, j, err)
			}
		}
	}
	return nil
}

func checkEdges(prev Layer, e Entry, bodyY, delta uint16) error {
	if len(e.Parents) == 0 {
		return fmt.Errorf("no parents")
	}
	seen := make(map[Edge]bool, len(e.Parents))
	for _, edge := range e.Parents {
		if seen[edge] {
			return fmt.Errorf("duplicate edge %+v", edge)
		}
		seen[edge] = true

		if int(edge.Parent) >= len(prev) {
			return fmt.Errorf("parent %d out of range (%d states)", edge.Parent, len(prev))
		}
		p := prev[edge.Parent].State
		jump, stay := p.Step(bodyY, delta, true), p.Step(bodyY, delta, false)
		var ok bool
		switch edge.Label {
		case neck.InputAny:
			ok = jump == e.State && stay == e.State
		case neck.InputTrue:
			ok = jump == e.State && stay != e.State
		case neck.InputFalse:
			ok = stay == e.State && jump != e.State
		}
		if !ok {
			return fmt.Errorf("edge %+v does not reproduce the state", edge)
		}
	}
	return nil
}

// #endregion check
