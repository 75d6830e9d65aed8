package tukey

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

// Quadrature sizes. 64-point Gauss-Legendre in each dimension is far more
// resolution than the p-value banding downstream needs.
const (
	innerNodes = 64
	outerNodes = 64
	zSpan      = 8.0
)

// rangeCDF is P(R <= r) for the range of k independent standard normals:
// k * integral phi(z) * (Phi(z) - Phi(z-r))^(k-1) dz.
func rangeCDF(r float64, k int) float64 {
	if r <= 0 {
		return 0
	}
	norm := distuv.UnitNormal
	f := func(z float64) float64 {
		return float64(k) * norm.Prob(z) * math.Pow(norm.CDF(z)-norm.CDF(z-r), float64(k-1))
	}
	return quad.Fixed(f, -zSpan, zSpan+r, innerNodes, nil, 0)
}

// StudentizedRangeCDF is P(Q <= q) for the studentized range distribution
// with k groups and df error degrees of freedom. For large df the scale
// factor degenerates to 1 and the normal-range CDF applies directly.
func StudentizedRangeCDF(q float64, k int, df int) float64 {
	if q <= 0 {
		return 0
	}
	if k < 2 || df < 1 {
		return math.NaN()
	}
	if df > 120 {
		return clampUnit(rangeCDF(q, k))
	}

	// Q = R/S with S^2 ~ chi^2_df / df; integrate the range CDF against
	// the density of S.
	nu := float64(df)
	lg, _ := math.Lgamma(nu / 2)
	logC := math.Log(2) + (nu/2)*math.Log(nu/2) - lg
	integrand := func(s float64) float64 {
		if s <= 0 {
			return 0
		}
		logf := logC + (nu-1)*math.Log(s) - nu*s*s/2
		return math.Exp(logf) * rangeCDF(q*s, k)
	}
	hi := 1 + 8/math.Sqrt(nu)
	return clampUnit(quad.Fixed(integrand, 0, hi, outerNodes, nil, 0))
}

func clampUnit(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}
