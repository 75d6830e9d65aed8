package app

import (
	"fmt"
	"math"
	"sort"

	mstats "github.com/montanaflynn/stats"

	"github.com/pablomc88/megtools/domain/core"
	"github.com/pablomc88/megtools/domain/groups"
	"github.com/pablomc88/megtools/ports"
)

// Family-wise significance level of the post-hoc test
const Alpha = 0.05

const (
	// Number of top-ranked comparisons drawn onto the canvas
	topComparisons = 3
	// Vertical offset per pair index, in fractions of the y range
	offsetStep = 0.2
	// Gap between a connector line and its label, in fractions of the y range
	labelPad = 0.1
	// Headroom above the highest annotation after rescaling
	finalPad = 0.2
)

// PosthocService computes effect sizes and annotates plots with pairwise
// post-hoc comparisons.
type PosthocService struct {
	engine ports.PosthocEngine
}

// NewPosthocService creates a post-hoc service around a comparison engine
func NewPosthocService(engine ports.PosthocEngine) *PosthocService {
	return &PosthocService{engine: engine}
}

// CohensD is the pooled-variance standardized mean difference between two
// independent samples, using sample (n-1) variance.
func CohensD(a, b []float64) (float64, error) {
	n1, n2 := len(a), len(b)
	if n1 == 0 || n2 == 0 || n1+n2 <= 2 {
		return 0, fmt.Errorf("%w: need more than two observations total, got %d and %d",
			core.ErrInsufficientSamples, n1, n2)
	}

	m1, err := mstats.Mean(a)
	if err != nil {
		return 0, err
	}
	m2, err := mstats.Mean(b)
	if err != nil {
		return 0, err
	}

	pooled := math.Sqrt((float64(n1-1)*sampleVar(a) + float64(n2-1)*sampleVar(b)) / float64(n1+n2-2))
	if pooled == 0 {
		return 0, core.ErrZeroVariance
	}
	return (m1 - m2) / pooled, nil
}

// sampleVar is the n-1 denominator variance; a single observation
// contributes zero to the pooled sum, matching its zero weight.
func sampleVar(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	v, err := mstats.SampleVariance(x)
	if err != nil {
		return 0
	}
	return v
}

// Compare runs the post-hoc test and fills each comparison's Cohen's d
func (s *PosthocService) Compare(samples groups.Samples) ([]groups.Comparison, error) {
	comps, err := s.engine.Compare(samples, Alpha)
	if err != nil {
		return nil, err
	}
	for i := range comps {
		d, err := CohensD(samples[comps[i].I], samples[comps[i].J])
		if err != nil {
			return nil, fmt.Errorf("effect size for pair (%d,%d): %w", comps[i].I, comps[i].J, err)
		}
		comps[i].EffectSize = d
	}
	return comps, nil
}

// Annotate runs the post-hoc test across all groups and draws the three
// smallest p-values onto the canvas: a connector line between the two group
// positions plus a p/d label above it. Each annotation's height grows with
// the pair's position in the full enumeration order, and the y range is
// rescaled afterwards to fit the highest one.
func (s *PosthocService) Annotate(samples groups.Samples, ax ports.Axes) error {
	comps, err := s.Compare(samples)
	if err != nil {
		return err
	}

	// Stable ascending sort on p-value; ties keep enumeration order.
	ranked := make([]int, len(comps))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return comps[ranked[a]].PValue < comps[ranked[b]].PValue
	})
	selected := make(map[int]bool, topComparisons)
	for _, idx := range ranked[:minInt(topComparisons, len(ranked))] {
		selected[idx] = true
	}

	lo, hi := ax.YLim()
	yRange := hi - lo
	topY := hi

	for index, comp := range comps {
		if !selected[index] {
			continue
		}
		scale := offsetStep * float64(index) * yRange
		y := hi + scale

		ax.Text(1.0, y+labelPad*yRange, comparisonLabel(comp.PValue, comp.EffectSize))
		ax.HLine(float64(comp.I), float64(comp.J), y)
		if y > topY {
			topY = y
		}
	}

	ax.SetYLim(lo, topY+finalPad*yRange)
	return nil
}

// comparisonLabel formats a p-value band plus the effect size
func comparisonLabel(p, d float64) string {
	switch {
	case p >= 0.01:
		return fmt.Sprintf("p = %.2f d = %.2f", p, d)
	case p >= 0.001:
		return fmt.Sprintf("p < 0.01 d = %.2f", d)
	default:
		return fmt.Sprintf("p < 0.001 d = %.2f", d)
	}
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
