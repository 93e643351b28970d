package occupancy

import "parkwatch/internal/frames"

// AdapterConfig carries the runtime-adaptation tunables. The zero value
// is usable; withDefaults documents the fallbacks.
type AdapterConfig struct {
	// UpdateInterval is K: the threshold is recomputed on every K-th call
	// to Update, intermediate calls return the last value unchanged.
	// Default 5.
	UpdateInterval int

	// BrightnessGain scales how strongly brightness deviation from the
	// mid-gray point moves the threshold. Default 0.3.
	BrightnessGain float64

	// FactorMin and FactorMax clamp the brightness factor. Defaults 0.7
	// and 1.3.
	FactorMin float64
	FactorMax float64

	// HistorySize bounds the brightness history. Default 30.
	HistorySize int

	// SmoothingWindow is how many recent computed thresholds are averaged
	// into the emitted value. Default 10.
	SmoothingWindow int

	// DriftDelta is the brightness deviation from the calibration baseline
	// that counts as drift. Default 30.
	DriftDelta float64

	// DriftWindow is how many consecutive recompute ticks must see drift
	// before a recalibration is recommended, so single-frame anomalies
	// (headlight flare) don't trigger it. Default 3.
	DriftWindow int
}

func (c AdapterConfig) withDefaults() AdapterConfig {
	if c.UpdateInterval <= 0 {
		c.UpdateInterval = 5
	}
	if c.BrightnessGain <= 0 {
		c.BrightnessGain = 0.3
	}
	if c.FactorMin <= 0 {
		c.FactorMin = 0.7
	}
	if c.FactorMax <= 0 {
		c.FactorMax = 1.3
	}
	if c.HistorySize <= 0 {
		c.HistorySize = 30
	}
	if c.SmoothingWindow <= 0 {
		c.SmoothingWindow = 10
	}
	if c.DriftDelta <= 0 {
		c.DriftDelta = 30
	}
	if c.DriftWindow <= 0 {
		c.DriftWindow = 3
	}
	return c
}

// Adapter adjusts the calibrated threshold to live frame brightness.
// It is single-owner state: one adapter per video stream, never shared.
// The adapter only signals that recalibration is warranted; re-running
// calibration is the caller's responsibility.
type Adapter struct {
	cfg                AdapterConfig
	baseThreshold      int
	baselineBrightness float64

	lastThreshold int
	calls         int
	brightness    *ring
	thresholds    *ring

	driftRun int
	drifting bool
}

// NewAdapter creates an adapter seeded from a calibration result.
func NewAdapter(cal *CalibrationResult, cfg AdapterConfig) *Adapter {
	cfg = cfg.withDefaults()
	return &Adapter{
		cfg:                cfg,
		baseThreshold:      cal.OptimalThreshold,
		baselineBrightness: cal.BrightnessAvg,
		lastThreshold:      cal.OptimalThreshold,
		brightness:         newRing(cfg.HistorySize),
		thresholds:         newRing(cfg.HistorySize),
	}
}

// Update recomputes the threshold from the frame's brightness on every
// K-th call and returns the current threshold. Intermediate calls, and
// calls with a nil frame (a scheduled update with no usable frame), leave
// the threshold unchanged: availability is favored over freshness.
func (a *Adapter) Update(f *frames.Frame) int {
	a.calls++
	if a.calls%a.cfg.UpdateInterval != 0 || f == nil {
		return a.lastThreshold
	}

	b := f.Brightness()
	a.brightness.push(b)

	factor := 1 + (b-127)/127*a.cfg.BrightnessGain
	if factor < a.cfg.FactorMin {
		factor = a.cfg.FactorMin
	}
	if factor > a.cfg.FactorMax {
		factor = a.cfg.FactorMax
	}

	raw := float64(a.baseThreshold) * factor
	a.thresholds.push(raw)
	a.lastThreshold = roundHalfUp(a.thresholds.mean(a.cfg.SmoothingWindow))

	a.trackDrift(b)
	return a.lastThreshold
}

// trackDrift advances the Stable/Drifting state from the observed
// brightness on a recompute tick.
func (a *Adapter) trackDrift(b float64) {
	delta := b - a.baselineBrightness
	if delta < 0 {
		delta = -delta
	}
	if delta > a.cfg.DriftDelta {
		a.driftRun++
	} else {
		a.driftRun = 0
	}
	if a.driftRun >= a.cfg.DriftWindow {
		a.drifting = true
	}
}

// LastThreshold returns the current threshold without side effects.
func (a *Adapter) LastThreshold() int {
	return a.lastThreshold
}

// BaseThreshold returns the calibrated baseline the adapter works from.
func (a *Adapter) BaseThreshold() int {
	return a.baseThreshold
}

// ShouldRecalibrate reports whether live brightness has drifted far enough
// from the calibration baseline, for long enough, that a full
// recalibration is recommended. It resets once the caller recalibrates
// (by constructing a new adapter).
func (a *Adapter) ShouldRecalibrate() bool {
	return a.drifting
}
