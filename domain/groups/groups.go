// Package groups models multi-group sample data and the canonical ordering of
// pairwise comparisons between groups.
package groups

import (
	"github.com/pablomc88/megtools/domain/core"
)

// Samples holds one numeric sample per experimental group, keyed by index
type Samples [][]float64

// Validate checks the minimum shape a pairwise comparison requires
func (s Samples) Validate() error {
	if len(s) < 2 {
		return core.ErrTooFewGroups
	}
	for _, g := range s {
		if len(g) < 2 {
			return core.ErrInsufficientSamples
		}
	}
	return nil
}

// TotalN returns the total number of observations across all groups
func (s Samples) TotalN() int {
	n := 0
	for _, g := range s {
		n += len(g)
	}
	return n
}

// Pair identifies an unordered group comparison, I < J
type Pair struct {
	I int `json:"i"`
	J int `json:"j"`
}

// Pairs enumerates all unordered pairs of k groups in row-major order:
// (0,1), (0,2), ..., (0,k-1), (1,2), ... This order is the comparison key
// used everywhere downstream.
func Pairs(k int) []Pair {
	out := make([]Pair, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			out = append(out, Pair{I: i, J: j})
		}
	}
	return out
}

// Comparison is the result of one pairwise post-hoc test
type Comparison struct {
	Pair
	QStat      float64 `json:"q_stat"`
	PValue     float64 `json:"p_value"`
	MeanDiff   float64 `json:"mean_diff"`
	Reject     bool    `json:"reject"`
	EffectSize float64 `json:"effect_size,omitempty"` // Cohen's d, filled by the caller
}
