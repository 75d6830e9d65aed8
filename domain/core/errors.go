package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Spectral fitting errors
	ErrFitFailed        = errors.New("spectral fit failed")
	ErrNoAperiodicFit   = fmt.Errorf("%w: no aperiodic parameters", ErrFitFailed)
	ErrFreqRangeEmpty   = errors.New("frequency range selects no samples")
	ErrLengthMismatch   = errors.New("frequency and power arrays differ in length")
	ErrNonFinitePower   = errors.New("power spectrum contains non-finite values")
	ErrInvalidFitConfig = errors.New("invalid fit configuration")

	// Statistical test errors
	ErrInsufficientSamples = errors.New("insufficient sample size")
	ErrTooFewGroups        = errors.New("at least two groups are required")
	ErrZeroVariance        = errors.New("pooled variance is zero")

	// Atlas and surface errors
	ErrRegionCountMismatch = errors.New("region value count does not match atlas")
	ErrAtlasNotFound       = errors.New("atlas file not found")
	ErrMeshNotFound        = errors.New("surface mesh not found")
	ErrDegenerateVolume    = errors.New("atlas volume has zero peak intensity")
	ErrUnknownHemisphere   = errors.New("hemisphere must be left or right")
)

// NewValidationError reports a named-field validation failure
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// IsFitError reports whether err stems from the spectral fitting path
func IsFitError(err error) bool {
	return errors.Is(err, ErrFitFailed) ||
		errors.Is(err, ErrFreqRangeEmpty) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrNonFinitePower)
}
