// Package stream runs the per-feed occupancy pipeline: calibrate,
// classify each frame against the adaptive threshold, publish the
// verdicts over WebSocket and MJPEG, and persist periodic snapshots.
package stream

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"parkwatch/internal/config"
	"parkwatch/internal/database"
	"parkwatch/internal/frames"
	"parkwatch/internal/layout"
	"parkwatch/internal/mask"
	"parkwatch/internal/metrics"
	"parkwatch/internal/occupancy"
	"parkwatch/internal/ws"
)

// Worker drives the occupancy pipeline for one video stream. It owns
// the frame source, the calibration state and the adaptive threshold;
// Start launches the loop and Stop tears it down.
type Worker struct {
	StreamID string

	source      frames.Source
	producer    mask.Producer
	layout      *layout.Layout
	regions     []occupancy.Region
	frameW      int
	frameH      int
	det         config.Detection
	hub         *ws.OccupancyHub
	db          *database.Database
	metrics     *metrics.Metrics
	broadcaster *Broadcaster
	annotator   *Annotator

	calibrator *occupancy.Calibrator
	adapter    *occupancy.Adapter
	lastCal    *occupancy.CalibrationResult
	sessionID  string

	stopCh  chan struct{}
	stopped sync.Once
	done    chan struct{}
}

// WorkerDeps bundles the shared infrastructure a worker publishes to.
// Database, Metrics and Broadcaster may be nil.
type WorkerDeps struct {
	Hub         *ws.OccupancyHub
	DB          *database.Database
	Metrics     *metrics.Metrics
	Broadcaster *Broadcaster
}

// NewWorker builds a worker for one stream. Regions start scaled to the
// layout's drawn resolution and are rescaled once the source reports
// its actual frame size.
func NewWorker(streamID string, src frames.Source, producer mask.Producer, l *layout.Layout, det config.Detection, deps WorkerDeps) (*Worker, error) {
	width, height := src.Resolution()
	if width <= 0 || height <= 0 {
		// Sources that probe lazily report 0x0 until the first frame.
		width, height = l.Resolution.Width, l.Resolution.Height
	}
	regions := l.RegionsFor(width, height)
	if err := occupancy.ValidateRegions(regions); err != nil {
		return nil, err
	}

	return &Worker{
		StreamID:    streamID,
		source:      src,
		producer:    producer,
		layout:      l,
		regions:     regions,
		frameW:      width,
		frameH:      height,
		det:         det,
		hub:         deps.Hub,
		db:          deps.DB,
		metrics:     deps.Metrics,
		broadcaster: deps.Broadcaster,
		annotator:   NewAnnotator(),
		calibrator: occupancy.NewCalibrator(producer, occupancy.CalibratorConfig{
			SampleCount: det.CalibrationSamples,
			Margin:      det.ThresholdMargin,
		}),
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}, nil
}

// Start calibrates and launches the processing loop. A recent stored
// calibration is reused instead of burning sample frames on startup.
func (w *Worker) Start() error {
	if !w.seedFromStore() {
		if err := w.calibrate("startup"); err != nil {
			return err
		}
	}
	go w.run()
	return nil
}

// seedFromStore restores the stream's last calibration when it is fresh
// enough to trust.
func (w *Worker) seedFromStore() bool {
	if w.db == nil || w.det.CalibrationMaxAgeS <= 0 {
		return false
	}
	rec, err := w.db.LatestCalibration(w.StreamID)
	if err != nil || rec == nil {
		return false
	}
	if time.Since(rec.Timestamp) > time.Duration(w.det.CalibrationMaxAgeS)*time.Second {
		return false
	}

	result := &occupancy.CalibrationResult{
		OptimalThreshold: rec.Threshold,
		LowThreshold:     rec.LowThreshold,
		HighThreshold:    rec.HighThreshold,
		MeanEmpty:        rec.MeanEmpty,
		MeanOccupied:     rec.MeanOccupied,
		StdDev:           rec.StdDev,
		BrightnessAvg:    rec.BrightnessAvg,
		ContrastAvg:      rec.ContrastAvg,
		SamplesAnalyzed:  rec.SamplesAnalyzed,
		FramesAnalyzed:   rec.FramesAnalyzed,
	}
	w.adapter = occupancy.NewAdapter(result, w.adapterConfig())
	w.lastCal = result
	w.sessionID = rec.ID

	log.Printf("[Worker] stream %s reusing calibration %s from %s (threshold=%d)",
		w.StreamID, rec.ID, rec.Timestamp.Format(time.RFC3339), rec.Threshold)
	if w.metrics != nil {
		w.metrics.ActiveThreshold.WithLabelValues(w.StreamID).Set(float64(rec.Threshold))
	}
	return true
}

func (w *Worker) adapterConfig() occupancy.AdapterConfig {
	return occupancy.AdapterConfig{
		UpdateInterval:  w.det.UpdateInterval,
		BrightnessGain:  w.det.BrightnessGain,
		FactorMin:       w.det.FactorMin,
		FactorMax:       w.det.FactorMax,
		SmoothingWindow: w.det.SmoothingWindow,
		DriftDelta:      w.det.DriftDelta,
		DriftWindow:     w.det.DriftWindow,
	}
}

// Stop signals the loop and waits for it to drain.
func (w *Worker) Stop() {
	w.stopped.Do(func() {
		close(w.stopCh)
		w.source.Close()
	})
	<-w.done
}

// calibrate runs a calibration session and swaps in a fresh adapter.
func (w *Worker) calibrate(reason string) error {
	result, err := w.calibrator.Calibrate(w.source, w.regions)
	if err != nil {
		return err
	}

	w.adapter = occupancy.NewAdapter(result, w.adapterConfig())
	w.lastCal = result
	w.sessionID = uuid.New().String()

	log.Printf("[Worker] stream %s calibrated (%s): threshold=%d [%d, %d] from %d samples",
		w.StreamID, reason, result.OptimalThreshold, result.LowThreshold,
		result.HighThreshold, result.SamplesAnalyzed)

	if w.db != nil {
		rec := &database.CalibrationRecord{
			ID:              w.sessionID,
			StreamID:        w.StreamID,
			Timestamp:       time.Now(),
			Threshold:       result.OptimalThreshold,
			LowThreshold:    result.LowThreshold,
			HighThreshold:   result.HighThreshold,
			MeanEmpty:       result.MeanEmpty,
			MeanOccupied:    result.MeanOccupied,
			StdDev:          result.StdDev,
			BrightnessAvg:   result.BrightnessAvg,
			ContrastAvg:     result.ContrastAvg,
			SamplesAnalyzed: result.SamplesAnalyzed,
			FramesAnalyzed:  result.FramesAnalyzed,
			Reason:          reason,
		}
		if err := w.db.SaveCalibration(rec); err != nil {
			log.Printf("[Worker] stream %s: saving calibration: %v", w.StreamID, err)
		}
	}
	if w.metrics != nil {
		w.metrics.Calibrations.WithLabelValues(w.StreamID, reason).Inc()
		w.metrics.ActiveThreshold.WithLabelValues(w.StreamID).Set(float64(result.OptimalThreshold))
	}
	if w.hub != nil {
		w.hub.BroadcastCalibration(w.StreamID, ws.NewCalibrationMessage(w.StreamID, w.sessionID, result, reason))
	}
	return nil
}

func (w *Worker) run() {
	defer close(w.done)

	var snapshotTick <-chan time.Time
	if w.db != nil && w.det.SnapshotIntervalS > 0 {
		t := time.NewTicker(time.Duration(w.det.SnapshotIntervalS) * time.Second)
		defer t.Stop()
		snapshotTick = t.C
	}

	var lastSummary occupancy.Summary
	var lastVerdicts []bool
	var lastThreshold int
	var lastSeq uint64

	for {
		select {
		case <-w.stopCh:
			return
		case <-snapshotTick:
			w.saveSnapshot(lastSeq, lastThreshold, lastSummary, lastVerdicts)
			continue
		default:
		}

		f, err := w.source.Next()
		if err != nil {
			if errors.Is(err, frames.ErrExhausted) {
				log.Printf("[Worker] stream %s: source exhausted", w.StreamID)
				return
			}
			log.Printf("[Worker] stream %s: reading frame: %v", w.StreamID, err)
			if w.metrics != nil {
				w.metrics.FramesDropped.WithLabelValues(w.StreamID).Inc()
			}
			continue
		}

		if f.Width != w.frameW || f.Height != w.frameH {
			w.rescale(f.Width, f.Height)
			continue
		}

		start := time.Now()
		m, err := w.producer.Process(f)
		if err != nil {
			log.Printf("[Worker] stream %s: mask: %v", w.StreamID, err)
			if w.metrics != nil {
				w.metrics.FramesDropped.WithLabelValues(w.StreamID).Inc()
			}
			continue
		}

		samples, err := occupancy.Sample(m, w.regions, int(f.Seq))
		if err != nil {
			log.Printf("[Worker] stream %s: sampling: %v", w.StreamID, err)
			continue
		}
		counts := make([]int, len(samples))
		for i, s := range samples {
			counts[i] = s.Count
		}

		threshold := w.adapter.Update(f)
		verdicts, _ := occupancy.Classify(counts, threshold)
		summary := occupancy.Summarize(verdicts)

		lastSummary = summary
		lastVerdicts = verdicts
		lastThreshold = threshold
		lastSeq = f.Seq

		if w.hub != nil {
			w.hub.BroadcastOccupancy(w.StreamID, ws.NewOccupancyMessage(w.StreamID, f.Seq, threshold, verdicts))
		}
		if w.metrics != nil {
			w.metrics.FramesProcessed.WithLabelValues(w.StreamID).Inc()
			w.metrics.FreeSpaces.WithLabelValues(w.StreamID).Set(float64(summary.Free))
			w.metrics.OccupiedSpaces.WithLabelValues(w.StreamID).Set(float64(summary.Occupied))
			w.metrics.OccupancyRate.WithLabelValues(w.StreamID).Set(summary.OccupancyRate)
			w.metrics.ActiveThreshold.WithLabelValues(w.StreamID).Set(float64(threshold))
			w.metrics.FrameBrightness.WithLabelValues(w.StreamID).Set(f.Brightness())
			w.metrics.ClassifyDuration.WithLabelValues(w.StreamID).Observe(time.Since(start).Seconds())
		}
		if w.broadcaster != nil {
			if jpegFrame, err := w.annotator.Annotate(f, w.regions, verdicts); err == nil {
				w.broadcaster.Publish(w.StreamID, jpegFrame)
			}
		}

		if w.adapter.ShouldRecalibrate() && w.det.AutoRecalibrate {
			if w.metrics != nil {
				w.metrics.DriftDetections.WithLabelValues(w.StreamID).Inc()
			}
			log.Printf("[Worker] stream %s: lighting drift detected, recalibrating", w.StreamID)
			if err := w.calibrate("drift"); err != nil {
				log.Printf("[Worker] stream %s: recalibration failed: %v", w.StreamID, err)
			}
		}
	}
}

// rescale adjusts the regions and thresholds to a new frame size by the
// area ratio between the resolutions. The stream keeps classifying
// without a fresh calibration; drift detection triggers one later if
// the scaled threshold stops discriminating.
func (w *Worker) rescale(width, height int) {
	log.Printf("[Worker] stream %s: resolution changed %dx%d -> %dx%d, rescaling",
		w.StreamID, w.frameW, w.frameH, width, height)

	sc := occupancy.NewScaler()
	cal := *w.lastCal
	cal.OptimalThreshold = sc.RescaleThreshold(cal.OptimalThreshold, w.frameW, w.frameH, width, height)
	cal.LowThreshold = sc.RescaleThreshold(cal.LowThreshold, w.frameW, w.frameH, width, height)
	cal.HighThreshold = sc.RescaleThreshold(cal.HighThreshold, w.frameW, w.frameH, width, height)

	w.frameW, w.frameH = width, height
	w.regions = w.layout.RegionsFor(width, height)
	w.adapter = occupancy.NewAdapter(&cal, w.adapterConfig())
	w.lastCal = &cal

	if w.metrics != nil {
		w.metrics.ActiveThreshold.WithLabelValues(w.StreamID).Set(float64(cal.OptimalThreshold))
	}
}

// saveSnapshot persists the most recent occupancy summary.
func (w *Worker) saveSnapshot(seq uint64, threshold int, summary occupancy.Summary, verdicts []bool) {
	if w.db == nil || summary.Total == 0 {
		return
	}
	rec := &database.SnapshotRecord{
		ID:            uuid.New().String(),
		StreamID:      w.StreamID,
		Timestamp:     time.Now(),
		FrameSeq:      seq,
		Threshold:     threshold,
		TotalSpaces:   summary.Total,
		FreeSpaces:    summary.Free,
		OccupancyRate: summary.OccupancyRate,
		Verdicts:      verdicts,
	}
	if err := w.db.SaveSnapshot(rec); err != nil {
		log.Printf("[Worker] stream %s: saving snapshot: %v", w.StreamID, err)
	}
}

// SessionID returns the active calibration session ID.
func (w *Worker) SessionID() string {
	return w.sessionID
}

// Threshold returns the threshold currently in effect.
func (w *Worker) Threshold() int {
	if w.adapter == nil {
		return 0
	}
	return w.adapter.LastThreshold()
}
