package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pablomc88/megtools/domain/spectra"
	"github.com/pablomc88/megtools/ports"
)

// RegionSpectrum is one region's measured power spectrum
type RegionSpectrum struct {
	Freqs []float64
	Power []float64
}

// RegionFit is the fitted outcome for one region
type RegionFit struct {
	Region int
	Result spectra.FitResult
	Model  []float64
}

// BatchService fits many per-region spectra concurrently. The individual fit
// calls stay synchronous; only the driver fans out.
type BatchService struct {
	fitter  ports.SpectralFitter
	workers int
}

// NewBatchService creates a batch fitter with a worker cap; workers <= 0
// means unbounded.
func NewBatchService(fitter ports.SpectralFitter, workers int) *BatchService {
	return &BatchService{fitter: fitter, workers: workers}
}

// FitRegions fits every spectrum with the same configuration. The first fit
// failure cancels the remaining work and is returned with its region index.
func (s *BatchService) FitRegions(ctx context.Context, specs []RegionSpectrum, cfg spectra.FitConfig) ([]RegionFit, error) {
	g, ctx := errgroup.WithContext(ctx)
	if s.workers > 0 {
		g.SetLimit(s.workers)
	}

	out := make([]RegionFit, len(specs))
	for i, rs := range specs {
		i, rs := i, rs
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := s.fitter.Fit(rs.Freqs, rs.Power, cfg)
			if err != nil {
				return fmt.Errorf("region %d: %w", i, err)
			}
			out[i] = RegionFit{
				Region: i,
				Result: result,
				Model:  spectra.ModelSpectrum(rs.Freqs, result.Aperiodic, result.Peaks),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
