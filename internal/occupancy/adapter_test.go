package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwatch/internal/frames"
)

func testCalibration(threshold int, brightness float64) *CalibrationResult {
	return &CalibrationResult{
		OptimalThreshold: threshold,
		BrightnessAvg:    brightness,
	}
}

func TestAdapter_IntermediateCallsUnchanged(t *testing.T) {
	t.Parallel()

	a := NewAdapter(testCalibration(900, 127), AdapterConfig{UpdateInterval: 5})
	bright := frames.Uniform(32, 32, 250, 1)

	// Calls 1-4 must not recompute even with a very bright frame.
	for i := 0; i < 4; i++ {
		assert.Equal(t, 900, a.Update(bright))
	}
	// The 5th call recomputes.
	assert.NotEqual(t, 900, a.Update(bright))
}

func TestAdapter_BaselineBrightnessKeepsThreshold(t *testing.T) {
	t.Parallel()

	a := NewAdapter(testCalibration(1200, 127), AdapterConfig{UpdateInterval: 1})
	neutral := frames.Uniform(32, 32, 127, 1)

	for i := 0; i < 20; i++ {
		assert.Equal(t, 1200, a.Update(neutral))
	}
	assert.Equal(t, 1200, a.LastThreshold())
	assert.False(t, a.ShouldRecalibrate())
}

func TestAdapter_BrightnessFactorClamped(t *testing.T) {
	t.Parallel()

	cfg := AdapterConfig{UpdateInterval: 1, SmoothingWindow: 1}

	t.Run("dark frames clamp at factor min", func(t *testing.T) {
		t.Parallel()
		a := NewAdapter(testCalibration(1000, 127), cfg)
		black := frames.Uniform(32, 32, 0, 1)
		got := a.Update(black)
		assert.Equal(t, 700, got) // 1 + (0-127)/127*0.3 = 0.7 exactly
	})

	t.Run("bright frames clamp at factor max", func(t *testing.T) {
		t.Parallel()
		a := NewAdapter(testCalibration(1000, 127), cfg)
		white := frames.Uniform(32, 32, 255, 1)
		got := a.Update(white)
		// 1 + (255-127)/127*0.3 = 1.302, clamped to 1.3.
		assert.Equal(t, 1300, got)
	})
}

func TestAdapter_SmoothingAveragesRecentThresholds(t *testing.T) {
	t.Parallel()

	a := NewAdapter(testCalibration(1000, 127), AdapterConfig{UpdateInterval: 1, SmoothingWindow: 2})
	neutral := frames.Uniform(32, 32, 127, 1)
	white := frames.Uniform(32, 32, 255, 2)

	assert.Equal(t, 1000, a.Update(neutral))
	// Raw jumps to 1300 but the emitted value averages with the prior 1000.
	assert.Equal(t, 1150, a.Update(white))
}

func TestAdapter_NilFrameSkipsUpdate(t *testing.T) {
	t.Parallel()

	a := NewAdapter(testCalibration(800, 127), AdapterConfig{UpdateInterval: 1})
	assert.Equal(t, 800, a.Update(nil))
	assert.Equal(t, 800, a.LastThreshold())
}

func TestAdapter_DriftRequiresSustainedDelta(t *testing.T) {
	t.Parallel()

	cfg := AdapterConfig{UpdateInterval: 1, DriftDelta: 30, DriftWindow: 3}
	a := NewAdapter(testCalibration(900, 100), cfg)

	dark := frames.Uniform(32, 32, 100, 1)  // at baseline
	flare := frames.Uniform(32, 32, 200, 2) // 100 over baseline

	// A single anomalous frame does not trigger drift.
	a.Update(flare)
	assert.False(t, a.ShouldRecalibrate())

	// Returning to baseline resets the run.
	a.Update(dark)
	a.Update(flare)
	a.Update(flare)
	assert.False(t, a.ShouldRecalibrate())

	// Three consecutive drifted updates trigger it.
	a.Update(flare)
	require.True(t, a.ShouldRecalibrate())

	// Drifting is a sticky signal until the caller recalibrates.
	a.Update(dark)
	assert.True(t, a.ShouldRecalibrate())
}

func TestAdapter_BrightnessHistoryBounded(t *testing.T) {
	t.Parallel()

	a := NewAdapter(testCalibration(900, 127), AdapterConfig{UpdateInterval: 1, HistorySize: 5})
	neutral := frames.Uniform(16, 16, 127, 1)
	for i := 0; i < 100; i++ {
		a.Update(neutral)
	}
	assert.Equal(t, 5, a.brightness.len())
}
