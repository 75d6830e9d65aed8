// Package atlas models the fixed 38-region fMRI parcellation the analysis is
// tailored to: per-region scalar vectors and the hemisphere selector used by
// the surface plots.
package atlas

import (
	"fmt"

	"github.com/pablomc88/megtools/domain/core"
)

// RegionCount is the number of ROIs in the fMRI parcellation atlas
const RegionCount = 38

// DefaultAtlasFile is the 4D parcellation volume shipped with the dataset
const DefaultAtlasFile = "fMRI_parcellation_ds8mm.nii.gz"

// RegionValues holds one scalar per atlas region, positionally aligned with
// the atlas volumes
type RegionValues []float64

// Validate rejects vectors whose length differs from the atlas region count
func (v RegionValues) Validate(regions int) error {
	if len(v) != regions {
		return fmt.Errorf("%w: got %d values, atlas has %d regions",
			core.ErrRegionCountMismatch, len(v), regions)
	}
	return nil
}

// Hemisphere selects which cortical hemisphere a surface plot renders
type Hemisphere string

const (
	HemiLeft  Hemisphere = "left"
	HemiRight Hemisphere = "right"
)

// ParseHemisphere validates a hemisphere name
func ParseHemisphere(s string) (Hemisphere, error) {
	switch Hemisphere(s) {
	case HemiLeft, HemiRight:
		return Hemisphere(s), nil
	}
	return "", fmt.Errorf("%w: %q", core.ErrUnknownHemisphere, s)
}
