package occupancy

import "errors"

var (
	// ErrInvalidRegion is returned when a region has non-positive width or height.
	ErrInvalidRegion = errors.New("invalid region: non-positive width or height")

	// ErrInsufficientSamples is returned when calibration obtained zero usable
	// samples. The caller must supply a manual fallback threshold; the
	// calibrator never substitutes one on its own.
	ErrInsufficientSamples = errors.New("calibration: no usable samples")
)
