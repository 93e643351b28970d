package occupancy

import "math"

// ResolutionProfile describes the space-crop size and threshold ratio
// observed to work at one known resolution.
type ResolutionProfile struct {
	Width       int
	Height      int
	SpaceWidth  int
	SpaceHeight int
	ScaleRatio  float64
}

// Reference resolution the baseline crop size and thresholds were tuned
// at: a 107x48 space at 1280x720.
const (
	RefWidth       = 1280
	RefHeight      = 720
	RefSpaceWidth  = 107
	RefSpaceHeight = 48
)

// knownProfiles lists empirically determined ratios for common
// resolutions. Arbitrary resolutions use the continuous formula instead.
var knownProfiles = []ResolutionProfile{
	{640, 360, 30, 16, 0.6},
	{1280, 720, RefSpaceWidth, RefSpaceHeight, 1.0},
	{1920, 1080, 160, 72, 1.4},
	{2560, 1440, 214, 96, 1.8},
	{3840, 2160, 321, 144, 2.5},
}

// Scaler maps a video resolution to a recommended space-crop size and a
// multiplicative threshold scale. The design keeps the fraction of a
// space's area that must be foreground roughly constant across
// resolutions: a vehicle silhouette covers a resolution-invariant share
// of its space, while absolute pixel counts do not transfer.
type Scaler struct {
	profiles []ResolutionProfile
}

// NewScaler returns a scaler over the built-in profile table.
func NewScaler() *Scaler {
	return &Scaler{profiles: knownProfiles}
}

// ScaleFactor returns the area ratio between the given resolution and the
// reference resolution.
func (s *Scaler) ScaleFactor(width, height int) float64 {
	return (float64(width) / RefWidth) * (float64(height) / RefHeight)
}

// RecommendSpaceSize returns the space-crop size to use at the given
// resolution. At the reference resolution it returns the reference size
// unchanged.
func (s *Scaler) RecommendSpaceSize(width, height int) (int, int) {
	sx := float64(width) / RefWidth
	sy := float64(height) / RefHeight
	return roundHalfUp(RefSpaceWidth * sx), roundHalfUp(RefSpaceHeight * sy)
}

// ScaleThreshold scales a threshold calibrated at the reference resolution
// to the given resolution.
func (s *Scaler) ScaleThreshold(width, height int, base int) int {
	return roundHalfUp(float64(base) * s.ScaleFactor(width, height))
}

// RescaleThreshold converts a threshold calibrated at one resolution to
// another by the area ratio between them, so a stream whose feed changes
// resolution keeps a usable threshold until it recalibrates.
func (s *Scaler) RescaleThreshold(base, fromWidth, fromHeight, toWidth, toHeight int) int {
	ratio := s.ScaleFactor(toWidth, toHeight) / s.ScaleFactor(fromWidth, fromHeight)
	return roundHalfUp(float64(base) * ratio)
}

// NearestProfile returns the known profile closest to the given
// resolution by Manhattan distance.
func (s *Scaler) NearestProfile(width, height int) ResolutionProfile {
	best := s.profiles[0]
	bestDist := math.MaxFloat64
	for _, p := range s.profiles {
		d := math.Abs(float64(p.Width-width)) + math.Abs(float64(p.Height-height))
		if d < bestDist {
			bestDist = d
			best = p
		}
	}
	return best
}

// roundHalfUp rounds with .5 always going up, so repeated scale/unscale
// round-trips stay within one pixel.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
