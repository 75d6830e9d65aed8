package ports

import (
	"github.com/pablomc88/megtools/domain/spectra"
)

// SpectralFitter parameterizes a neural power spectrum into aperiodic and
// periodic components. Implementations report a failed aperiodic fit as an
// error; a returned FitResult is always usable.
type SpectralFitter interface {
	// Fit estimates model parameters for the spectrum restricted to the
	// configured frequency range.
	Fit(freqs, power []float64, cfg spectra.FitConfig) (spectra.FitResult, error)
}
