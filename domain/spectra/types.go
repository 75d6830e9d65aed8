package spectra

import (
	"github.com/pablomc88/megtools/domain/core"
)

// FitConfig holds the parameters of the power-spectrum parameterization.
// Every field is required; Validate rejects ranges the fitter cannot honor.
type FitConfig struct {
	// FreqRange restricts fitting to [Lo, Hi] Hz.
	FreqRange [2]float64 `json:"freq_range"`
	// MaxPeaks bounds how many Gaussian peaks the fitter may extract.
	MaxPeaks int `json:"max_peaks"`
	// PeakWidthLimits bounds the standard deviation of each peak, in Hz.
	PeakWidthLimits [2]float64 `json:"peak_width_limits"`
	// PeakThreshold is the detection threshold in units of the flattened
	// spectrum's standard deviation.
	PeakThreshold float64 `json:"peak_threshold"`
}

// Validate checks that the configuration describes a solvable fit
func (c FitConfig) Validate() error {
	if c.FreqRange[0] <= 0 || c.FreqRange[1] <= c.FreqRange[0] {
		return core.NewValidationError("freq_range", "must satisfy 0 < lo < hi")
	}
	if c.MaxPeaks < 0 {
		return core.NewValidationError("max_peaks", "cannot be negative")
	}
	if c.PeakWidthLimits[0] <= 0 || c.PeakWidthLimits[1] < c.PeakWidthLimits[0] {
		return core.NewValidationError("peak_width_limits", "must satisfy 0 < min <= max")
	}
	if c.PeakThreshold <= 0 {
		return core.NewValidationError("peak_threshold", "must be positive")
	}
	return nil
}

// AperiodicParams describes the power-law trend of a spectrum in log10 space:
// log10(power) = Offset - Exponent*log10(freq)
type AperiodicParams struct {
	Offset   float64 `json:"offset"`
	Exponent float64 `json:"exponent"`
}

// PeakParams describes one Gaussian component of the periodic fit
type PeakParams struct {
	Center float64 `json:"center"` // Hz
	Height float64 `json:"height"` // log10 power over the aperiodic trend
	Width  float64 `json:"width"`  // Hz (standard deviation)
}

// FitResult is the complete outcome of a successful spectral parameterization.
// A failed fit is reported as an error, never as a zero-valued result.
type FitResult struct {
	Aperiodic AperiodicParams `json:"aperiodic"`
	Peaks     []PeakParams    `json:"peaks"`
	RSquared  float64         `json:"r_squared"`
	FitError  float64         `json:"fit_error"`
}
