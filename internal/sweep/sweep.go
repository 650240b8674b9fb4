// Package sweep tries every contiguous window of asserted input directly
// against the transition function, without building the graph.
package sweep

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/danielpatrickdp/mbneck/internal/neck"
	"github.com/danielpatrickdp/mbneck/internal/replay"
	"github.com/danielpatrickdp/mbneck/internal/trace"
)

// #region types
// Config bounds the sweep.
type Config struct {
	MaxLen  int // longest window tried
	Workers int // concurrent window starts
	// Goal decides which final states count as a success.
	Goal func(neck.State) bool
}

// Result is the outcome of one window.
type Result struct {
	Start, Len int
	Final      neck.State
	Reached    bool
}

// #endregion types

// #region run
// Run simulates every window [start, start+len) with 1 <= len <= MaxLen that fits
// in the trace. Results are ordered by start, then length. A validation mismatch
// aborts the sweep.
func Run(t trace.Trace, cfg Config) ([]Result, error) {
	if cfg.MaxLen <= 0 {
		return nil, fmt.Errorf("sweep: max window length must be positive, got %d", cfg.MaxLen)
	}
	if cfg.Goal == nil {
		return nil, errors.New("sweep: no goal")
	}
	// Frames before any window are shared by every case: check them once.
	if err := replay.Validate(t); err != nil {
		return nil, err
	}

	var (
		mu      sync.Mutex
		results []Result
	)
	var eg errgroup.Group
	eg.SetLimit(max(cfg.Workers, 1))
	for start := 0; start < len(t); start++ {
		eg.Go(func() error {
			local := make([]Result, 0, cfg.MaxLen)
			for n := 1; n <= cfg.MaxLen && start+n <= len(t); n++ {
				final, err := replay.Simulate(t, replay.Window(start, start+n))
				if err != nil {
					return fmt.Errorf("window %d+%d: %w", start, n, err)
				}
				local = append(local, Result{Start: start, Len: n, Final: final, Reached: cfg.Goal(final)})
			}
			mu.Lock()
			results = append(results, local...)
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Start != results[j].Start {
			return results[i].Start < results[j].Start
		}
		return results[i].Len < results[j].Len
	})
	return results, nil
}

// Reached filters results to the successful windows.
func Reached(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Reached {
			out = append(out, r)
		}
	}
	return out
}

// #endregion run
