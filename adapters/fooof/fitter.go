// Package fooof parameterizes neural power spectra into an aperiodic
// power-law trend plus Gaussian oscillatory peaks. The aperiodic component is
// estimated by robust linear regression in log-log space; peaks are extracted
// iteratively from the flattened spectrum and refined jointly with
// Nelder-Mead.
package fooof

import (
	"fmt"
	"math"

	mstats "github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"

	"github.com/pablomc88/megtools/domain/core"
	"github.com/pablomc88/megtools/domain/spectra"
	"github.com/pablomc88/megtools/ports"
)

// Points above this residual percentile are treated as peak territory and
// ignored by the second aperiodic pass.
const robustPercentile = 75

// halfWidthFactor converts a full width at half maximum to a Gaussian
// standard deviation.
var halfWidthFactor = 2 * math.Sqrt(2*math.Log(2))

// Fitter is a ports.SpectralFitter backed by gonum
type Fitter struct{}

var _ ports.SpectralFitter = (*Fitter)(nil)

// NewFitter creates a spectral parameterization fitter
func NewFitter() *Fitter {
	return &Fitter{}
}

// Fit estimates aperiodic and periodic parameters for the spectrum restricted
// to cfg.FreqRange. A degenerate aperiodic fit is reported as an error
// wrapping core.ErrFitFailed.
func (f *Fitter) Fit(freqs, power []float64, cfg spectra.FitConfig) (spectra.FitResult, error) {
	var zero spectra.FitResult

	if err := cfg.Validate(); err != nil {
		return zero, fmt.Errorf("%w: %v", core.ErrInvalidFitConfig, err)
	}
	if len(freqs) != len(power) {
		return zero, fmt.Errorf("%w: %d freqs vs %d powers", core.ErrLengthMismatch, len(freqs), len(power))
	}

	fx, logP, err := trimAndLog(freqs, power, cfg.FreqRange)
	if err != nil {
		return zero, err
	}

	logF := make([]float64, len(fx))
	for i, v := range fx {
		logF[i] = math.Log10(v)
	}

	ap, err := robustAperiodicFit(logF, logP)
	if err != nil {
		return zero, err
	}

	// Flatten and extract peak guesses.
	flat := flatten(logF, logP, ap)
	peaks := extractPeaks(fx, flat, cfg)
	if len(peaks) > 0 {
		peaks = refinePeaks(fx, flat, peaks, cfg)
	}

	// Refit the trend on the peak-removed spectrum so strong oscillations do
	// not bias the exponent.
	if len(peaks) > 0 {
		residual := make([]float64, len(logP))
		peakLog := spectra.PeakCurveLog10(fx, peaks)
		for i := range logP {
			residual[i] = logP[i] - peakLog[i]
		}
		if refit, err := aperiodicFit(logF, residual); err == nil {
			ap = refit
		}
	}

	model := modelLog10(logF, fx, ap, peaks)
	r2 := stat.RSquaredFrom(model, logP, nil)
	rmse := 0.0
	for i := range model {
		d := model[i] - logP[i]
		rmse += d * d
	}
	rmse = math.Sqrt(rmse / float64(len(model)))

	return spectra.FitResult{
		Aperiodic: ap,
		Peaks:     peaks,
		RSquared:  r2,
		FitError:  rmse,
	}, nil
}

// trimAndLog restricts the spectrum to the fit range and moves power into
// log10 space, rejecting non-positive or non-finite samples.
func trimAndLog(freqs, power []float64, rng [2]float64) ([]float64, []float64, error) {
	fx := make([]float64, 0, len(freqs))
	logP := make([]float64, 0, len(freqs))
	for i, f := range freqs {
		if f < rng[0] || f > rng[1] {
			continue
		}
		p := power[i]
		if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, nil, fmt.Errorf("%w: power %g at %g Hz", core.ErrNonFinitePower, p, f)
		}
		fx = append(fx, f)
		logP = append(logP, math.Log10(p))
	}
	if len(fx) < 4 {
		return nil, nil, fmt.Errorf("%w: [%g, %g] Hz leaves %d samples",
			core.ErrFreqRangeEmpty, rng[0], rng[1], len(fx))
	}
	return fx, logP, nil
}

func aperiodicFit(logF, logP []float64) (spectra.AperiodicParams, error) {
	alpha, beta := stat.LinearRegression(logF, logP, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) {
		return spectra.AperiodicParams{}, core.ErrNoAperiodicFit
	}
	return spectra.AperiodicParams{Offset: alpha, Exponent: -beta}, nil
}

// robustAperiodicFit fits the trend twice, the second time ignoring points
// far above the first fit (the likely peak regions).
func robustAperiodicFit(logF, logP []float64) (spectra.AperiodicParams, error) {
	ap, err := aperiodicFit(logF, logP)
	if err != nil {
		return ap, err
	}

	resid := flatten(logF, logP, ap)
	thresh, err := mstats.Percentile(resid, robustPercentile)
	if err != nil {
		return ap, nil
	}

	keptF := make([]float64, 0, len(logF))
	keptP := make([]float64, 0, len(logP))
	for i, r := range resid {
		if r <= thresh {
			keptF = append(keptF, logF[i])
			keptP = append(keptP, logP[i])
		}
	}
	if len(keptF) < 4 {
		return ap, nil
	}
	if refit, err := aperiodicFit(keptF, keptP); err == nil {
		return refit, nil
	}
	return ap, nil
}

func flatten(logF, logP []float64, ap spectra.AperiodicParams) []float64 {
	out := make([]float64, len(logP))
	for i := range logP {
		out[i] = logP[i] - (ap.Offset - ap.Exponent*logF[i])
	}
	return out
}

// extractPeaks pulls Gaussian guesses off the flattened spectrum, largest
// first, until the threshold or the peak budget stops it.
func extractPeaks(fx, flat []float64, cfg spectra.FitConfig) []spectra.PeakParams {
	work := make([]float64, len(flat))
	copy(work, flat)

	var peaks []spectra.PeakParams
	for len(peaks) < cfg.MaxPeaks {
		imax := 0
		for i, v := range work {
			if v > work[imax] {
				imax = i
			}
		}
		height := work[imax]
		if height <= 0 || height < cfg.PeakThreshold*stat.StdDev(work, nil) {
			break
		}

		width := guessWidth(fx, work, imax, height)
		width = clamp(width, cfg.PeakWidthLimits[0], cfg.PeakWidthLimits[1])
		peak := spectra.PeakParams{Center: fx[imax], Height: height, Width: width}
		peaks = append(peaks, peak)

		denom := 2 * width * width
		for i, f := range fx {
			d := f - peak.Center
			work[i] -= height * math.Exp(-d*d/denom)
		}
	}
	return peaks
}

// guessWidth estimates a Gaussian standard deviation from the half-height
// span around the maximum.
func guessWidth(fx, flat []float64, imax int, height float64) float64 {
	half := height / 2
	left, right := imax, imax
	for left > 0 && flat[left] > half {
		left--
	}
	for right < len(flat)-1 && flat[right] > half {
		right++
	}
	fwhm := fx[right] - fx[left]
	if fwhm <= 0 {
		fwhm = fx[1] - fx[0]
	}
	return fwhm / halfWidthFactor
}

// refinePeaks jointly adjusts all peak parameters with Nelder-Mead against
// the flattened spectrum. Bound violations are penalized rather than
// projected; the simplex stays well inside the feasible region in practice.
func refinePeaks(fx, flat []float64, peaks []spectra.PeakParams, cfg spectra.FitConfig) []spectra.PeakParams {
	x0 := make([]float64, 0, 3*len(peaks))
	for _, p := range peaks {
		x0 = append(x0, p.Center, p.Height, p.Width)
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			cand := unpack(x)
			for _, p := range cand {
				if p.Width < cfg.PeakWidthLimits[0] || p.Width > cfg.PeakWidthLimits[1] ||
					p.Height <= 0 ||
					p.Center < cfg.FreqRange[0] || p.Center > cfg.FreqRange[1] {
					return math.Inf(1)
				}
			}
			model := spectra.PeakCurveLog10(fx, cand)
			sse := 0.0
			for i := range flat {
				d := model[i] - flat[i]
				sse += d * d
			}
			return sse
		},
	}

	result, err := optimize.Minimize(problem, x0, nil, &optimize.NelderMead{})
	if err != nil || result == nil || math.IsInf(result.F, 1) {
		return peaks
	}
	return unpack(result.X)
}

func unpack(x []float64) []spectra.PeakParams {
	out := make([]spectra.PeakParams, 0, len(x)/3)
	for i := 0; i+2 < len(x); i += 3 {
		out = append(out, spectra.PeakParams{Center: x[i], Height: x[i+1], Width: x[i+2]})
	}
	return out
}

func modelLog10(logF, fx []float64, ap spectra.AperiodicParams, peaks []spectra.PeakParams) []float64 {
	peakLog := spectra.PeakCurveLog10(fx, peaks)
	out := make([]float64, len(fx))
	for i := range out {
		out[i] = ap.Offset - ap.Exponent*logF[i] + peakLog[i]
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}
