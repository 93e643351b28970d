package occupancy

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"gonum.org/v1/gonum/stat"

	"parkwatch/internal/frames"
	"parkwatch/internal/mask"
)

// CalibratorConfig carries the calibration tunables. The zero value is
// usable; Defaults documents the fallbacks applied.
type CalibratorConfig struct {
	// SampleCount is the number of frames to draw from the source.
	// Default 20.
	SampleCount int

	// Margin is the proportional bracket applied to the optimal threshold
	// to derive the low/high variants. Default 0.20.
	Margin float64
}

func (c CalibratorConfig) withDefaults() CalibratorConfig {
	if c.SampleCount <= 0 {
		c.SampleCount = 20
	}
	if c.Margin <= 0 {
		c.Margin = 0.20
	}
	return c
}

// CalibrationResult is the immutable outcome of one calibration run.
// When Degenerate is set the threshold cannot discriminate occupied from
// free (all sampled counts were identical); the result is still valid.
type CalibrationResult struct {
	OptimalThreshold int     `json:"optimal_threshold"`
	LowThreshold     int     `json:"low_threshold"`
	HighThreshold    int     `json:"high_threshold"`
	MeanEmpty        float64 `json:"mean_empty"`
	MeanOccupied     float64 `json:"mean_occupied"`
	StdDev           float64 `json:"std_dev"`
	BrightnessAvg    float64 `json:"brightness_avg"`
	ContrastAvg      float64 `json:"contrast_avg"`
	SamplesAnalyzed  int     `json:"samples_analyzed"`
	FramesAnalyzed   int     `json:"frames_analyzed"`
	Degenerate       bool    `json:"degenerate"`
}

// Calibrator derives an occupancy threshold from a batch of sample frames.
type Calibrator struct {
	cfg      CalibratorConfig
	producer mask.Producer
}

// NewCalibrator creates a calibrator using the given mask producer.
func NewCalibrator(producer mask.Producer, cfg CalibratorConfig) *Calibrator {
	return &Calibrator{cfg: cfg.withDefaults(), producer: producer}
}

// Calibrate draws up to SampleCount frames from the source, collects one
// pixel-count sample per (frame, region) pair and derives the threshold
// statistics. A source that ends early is fine as long as at least one
// sample was collected; a source that yields nothing at all fails with
// ErrInsufficientSamples. The calibrator never substitutes a fallback
// threshold: that choice belongs to the caller.
func (c *Calibrator) Calibrate(src frames.Source, regions []Region) (*CalibrationResult, error) {
	if err := ValidateRegions(regions); err != nil {
		return nil, err
	}

	var (
		counts        []float64
		brightnessSum float64
		contrastSum   float64
		framesRead    int
	)

	for framesRead < c.cfg.SampleCount {
		f, err := src.Next()
		if err != nil {
			if errors.Is(err, frames.ErrExhausted) {
				break
			}
			return nil, fmt.Errorf("calibration: reading frame %d: %w", framesRead, err)
		}

		m, err := c.producer.Process(f)
		if err != nil {
			return nil, fmt.Errorf("calibration: mask for frame %d: %w", framesRead, err)
		}
		samples, err := Sample(m, regions, framesRead)
		if err != nil {
			return nil, err
		}
		for _, s := range samples {
			counts = append(counts, float64(s.Count))
		}

		brightnessSum += f.Brightness()
		contrastSum += f.Contrast()
		framesRead++
	}

	if len(counts) == 0 {
		return nil, ErrInsufficientSamples
	}

	sort.Float64s(counts)

	// Median split: lower half approximates empty spaces, upper half
	// occupied ones. With small sample counts the resulting std_dev is
	// formally computed but statistically weak.
	half := len(counts) / 2
	var meanEmpty, meanOccupied float64
	if half == 0 {
		meanEmpty = counts[0]
		meanOccupied = counts[0]
	} else {
		meanEmpty = stat.Mean(counts[:half], nil)
		meanOccupied = stat.Mean(counts[half:], nil)
	}
	stdDev := stat.PopStdDev(counts, nil)

	optimal := roundHalfUp((meanEmpty + meanOccupied) / 2)
	result := &CalibrationResult{
		OptimalThreshold: optimal,
		LowThreshold:     roundHalfUp(float64(optimal) * (1 - c.cfg.Margin)),
		HighThreshold:    roundHalfUp(float64(optimal) * (1 + c.cfg.Margin)),
		MeanEmpty:        meanEmpty,
		MeanOccupied:     meanOccupied,
		StdDev:           stdDev,
		BrightnessAvg:    brightnessSum / float64(framesRead),
		ContrastAvg:      contrastSum / float64(framesRead),
		SamplesAnalyzed:  len(counts),
		FramesAnalyzed:   framesRead,
		Degenerate:       meanEmpty == meanOccupied,
	}

	if result.Degenerate {
		log.Printf("[Calibrate] degenerate distribution: all %d samples at %d", len(counts), optimal)
	}
	return result, nil
}
