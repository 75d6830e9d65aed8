// Package tukey implements the honestly-significant-difference post-hoc test
// for a one-way layout: every unordered pair of groups is compared with the
// studentized range statistic against the pooled within-group error.
package tukey

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/pablomc88/megtools/domain/core"
	"github.com/pablomc88/megtools/domain/groups"
	"github.com/pablomc88/megtools/ports"
)

// Engine is a ports.PosthocEngine backed by gonum
type Engine struct{}

var _ ports.PosthocEngine = (*Engine)(nil)

// NewEngine creates a Tukey HSD engine
func NewEngine() *Engine {
	return &Engine{}
}

// Compare runs Tukey's HSD across all groups at the given family-wise alpha.
// Results follow the canonical groups.Pairs enumeration order.
func (e *Engine) Compare(samples groups.Samples, alpha float64) ([]groups.Comparison, error) {
	if err := samples.Validate(); err != nil {
		return nil, err
	}

	k := len(samples)
	total := samples.TotalN()
	dfw := total - k
	if dfw < 1 {
		return nil, fmt.Errorf("%w: %d observations across %d groups", core.ErrInsufficientSamples, total, k)
	}

	means := make([]float64, k)
	sse := 0.0
	for g, sample := range samples {
		means[g] = stat.Mean(sample, nil)
		for _, v := range sample {
			d := v - means[g]
			sse += d * d
		}
	}
	mse := sse / float64(dfw)
	if mse == 0 {
		return nil, core.ErrZeroVariance
	}

	pairs := groups.Pairs(k)
	out := make([]groups.Comparison, 0, len(pairs))
	for _, p := range pairs {
		ni := float64(len(samples[p.I]))
		nj := float64(len(samples[p.J]))
		diff := means[p.I] - means[p.J]

		// Tukey-Kramer standard error for unbalanced groups.
		se := math.Sqrt(mse / 2 * (1/ni + 1/nj))
		q := math.Abs(diff) / se
		pval := 1 - StudentizedRangeCDF(q, k, dfw)

		out = append(out, groups.Comparison{
			Pair:     p,
			QStat:    q,
			PValue:   pval,
			MeanDiff: diff,
			Reject:   pval < alpha,
		})
	}
	return out, nil
}
