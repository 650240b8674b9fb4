// Package difficulty estimates how hard an input sequence is to perform by hand.
package difficulty

import "github.com/danielpatrickdp/mbneck/internal/neck"

// #region config
// Config holds the tuning constants of the heuristic.
type Config struct {
	SwitchPenalty uint64 `yaml:"switch_penalty"` // cost of a release right after the previous change
	Exponent      uint64 `yaml:"exponent"`       // how fast the release cost falls off with slack
	HoldCost      uint64 `yaml:"hold_cost"`      // cost per demanded frame of holding the input
	InitialGap    uint64 `yaml:"initial_gap"`    // slack assumed before the first frame
}

// DefaultConfig returns the hand-tuned constants.
func DefaultConfig() Config {
	return Config{
		SwitchPenalty: 10000,
		Exponent:      2,
		HoldCost:      1,
		InitialGap:    1000000,
	}
}

// #endregion config

// #region scorer
// Scorer scores input sequences; lower is easier.
type Scorer struct {
	config Config
}

// NewScorer creates a scorer with the given constants.
func NewScorer(config Config) *Scorer {
	return &Scorer{config: config}
}

// Config returns the scorer's constants.
func (s *Scorer) Config() Config { return s.config }

// Score walks the sequence in the order given. Demanded frames where the input
// stays held cost HoldCost each. Releasing a held input costs
// SwitchPenalty / (gap+1)^Exponent, where gap counts the don't-care frames since
// the last demanded frame. Pressing is free.
func (s *Scorer) Score(seq []neck.Input) uint64 {
	var cost uint64
	held := false
	gap := s.config.InitialGap

	for _, in := range seq {
		v, ok := in.Value()
		if !ok {
			gap++
			continue
		}
		switch {
		case v == held:
			if v {
				cost += s.config.HoldCost
			}
		case held:
			cost += s.releaseCost(gap)
		}
		held = v
		gap = 0
	}
	return cost
}

// releaseCost computes SwitchPenalty / (gap+1)^Exponent in integers, stopping
// as soon as the divisor exceeds the penalty.
func (s *Scorer) releaseCost(gap uint64) uint64 {
	penalty := s.config.SwitchPenalty
	base := gap + 1
	div := uint64(1)
	for i := uint64(0); i < s.config.Exponent; i++ {
		if div > penalty/base {
			return 0
		}
		div *= base
	}
	return penalty / div
}

// #endregion scorer
