// Package occupancy implements adaptive occupancy-threshold detection for
// monitored parking spaces: statistical calibration of a pixel-count
// threshold from sample frames, resolution-aware scaling, runtime
// brightness adaptation with smoothing, and the final occupied/free
// classification.
package occupancy

import "fmt"

// Region is an axis-aligned rectangle in frame-pixel coordinates marking
// one monitored parking space. Regions are immutable once loaded and are
// supplied by the caller; they must not overlap (not enforced here).
type Region struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Validate rejects regions with non-positive dimensions.
func (r Region) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: %dx%d at (%d,%d)", ErrInvalidRegion, r.Width, r.Height, r.X, r.Y)
	}
	return nil
}

// ValidateRegions validates a whole region list, reporting the index of
// the first malformed entry.
func ValidateRegions(regions []Region) error {
	for i, r := range regions {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("region %d: %w", i, err)
		}
	}
	return nil
}
