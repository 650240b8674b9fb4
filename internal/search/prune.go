package search

import (
	"sort"

	"github.com/danielpatrickdp/mbneck/internal/difficulty"
	"github.com/danielpatrickdp/mbneck/internal/neck"
)

// #region prune
// Prune keeps the limit easiest cohorts when there are more than limit.
// Cohorts are scored on their inputs latest frame first, the order the
// backward walk builds them; equal scores keep their relative order. With limit or fewer cohorts the slice is returned as is.
func Prune(cohorts []Cohort, limit int, scorer *difficulty.Scorer) []Cohort {
	if len(cohorts) <= limit {
		return cohorts
	}
	ranked := rank(cohorts, scorer)[:limit]
	out := make([]Cohort, len(ranked))
	for i, r := range ranked {
		out[i] = r.cohort
	}
	return out
}

type scored struct {
	cohort Cohort
	inputs []neck.Input
	score  uint64
}

// rank scores every cohort and sorts by ascending score, stable.
// inputs is kept in frame order for output.
func rank(cohorts []Cohort, scorer *difficulty.Scorer) []scored {
	items := make([]scored, len(cohorts))
	for i, c := range cohorts {
		items[i] = scored{cohort: c, inputs: c.Inputs(), score: scorer.Score(c.rev)}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].score < items[j].score })
	return items
}

// #endregion prune
