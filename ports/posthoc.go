package ports

import (
	"github.com/pablomc88/megtools/domain/groups"
)

// PosthocEngine runs a pairwise multiple-comparison test across experimental
// groups. Comparisons come back in the canonical groups.Pairs order, one per
// unordered pair.
type PosthocEngine interface {
	Compare(samples groups.Samples, alpha float64) ([]groups.Comparison, error)
}
