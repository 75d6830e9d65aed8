package app

import (
	"github.com/pablomc88/megtools/domain/spectra"
	"github.com/pablomc88/megtools/ports"
)

// SpectrumService wraps a spectral fitter and reconstructs the combined
// periodic+aperiodic model curve from its parameters.
type SpectrumService struct {
	fitter ports.SpectralFitter
}

// NewSpectrumService creates a spectrum service around a fitter
func NewSpectrumService(fitter ports.SpectralFitter) *SpectrumService {
	return &SpectrumService{fitter: fitter}
}

// Fit parameterizes the power spectrum restricted to cfg.FreqRange and
// returns the aperiodic parameters together with the full model spectrum
// evaluated over the complete frequency axis. A failed aperiodic fit comes
// back as an error, never as an undefined spectrum.
func (s *SpectrumService) Fit(freqs, power []float64, cfg spectra.FitConfig) (spectra.AperiodicParams, []float64, error) {
	result, err := s.fitter.Fit(freqs, power, cfg)
	if err != nil {
		return spectra.AperiodicParams{}, nil, err
	}
	model := spectra.ModelSpectrum(freqs, result.Aperiodic, result.Peaks)
	return result.Aperiodic, model, nil
}

// Parameterize exposes the complete fit result (peaks and goodness-of-fit
// included) alongside the reconstructed model spectrum.
func (s *SpectrumService) Parameterize(freqs, power []float64, cfg spectra.FitConfig) (spectra.FitResult, []float64, error) {
	result, err := s.fitter.Fit(freqs, power, cfg)
	if err != nil {
		return spectra.FitResult{}, nil, err
	}
	model := spectra.ModelSpectrum(freqs, result.Aperiodic, result.Peaks)
	return result, model, nil
}
