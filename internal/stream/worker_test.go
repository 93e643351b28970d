package stream

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwatch/internal/config"
	"parkwatch/internal/database"
	"parkwatch/internal/frames"
	"parkwatch/internal/layout"
	"parkwatch/internal/mask"
	"parkwatch/internal/metrics"
	"parkwatch/internal/occupancy"
)

// passthroughProducer marks bright pixels as foreground, making region
// counts fully deterministic in tests.
type passthroughProducer struct{}

func (passthroughProducer) Process(f *frames.Frame) (*mask.Mask, error) {
	m := mask.New(f.Width, f.Height)
	for i, p := range f.Pix {
		if p > 128 {
			m.Pix[i] = 255
		}
	}
	return m, nil
}

func fillRegion(f *frames.Frame, r occupancy.Region, v uint8) {
	for y := r.Y; y < r.Y+r.Height; y++ {
		for x := r.X; x < r.X+r.Width; x++ {
			f.Pix[y*f.Width+x] = v
		}
	}
}

func testLayout() *layout.Layout {
	return &layout.Layout{
		Resolution: layout.Resolution{Width: 8, Height: 8},
		Spaces: []occupancy.Region{
			{X: 0, Y: 0, Width: 4, Height: 4},
			{X: 4, Y: 0, Width: 4, Height: 4},
		},
	}
}

func testFrames() []*frames.Frame {
	regionA := occupancy.Region{X: 0, Y: 0, Width: 4, Height: 4}
	regionB := occupancy.Region{X: 4, Y: 0, Width: 4, Height: 4}

	var fs []*frames.Frame
	seq := uint64(1)

	// Calibration batch: alternating all-empty and all-occupied frames
	// gives a clean bimodal count distribution (0 vs 16 per region).
	for i := 0; i < 4; i++ {
		f := frames.Uniform(8, 8, 0, seq)
		if i%2 == 1 {
			fillRegion(f, regionA, 255)
			fillRegion(f, regionB, 255)
		}
		fs = append(fs, f)
		seq++
	}

	// Runtime frames: space A stays occupied, space B stays free.
	for i := 0; i < 6; i++ {
		f := frames.Uniform(8, 8, 0, seq)
		fillRegion(f, regionA, 255)
		fs = append(fs, f)
		seq++
	}
	return fs
}

func testDetection() config.Detection {
	det := config.Defaults().Detection
	det.CalibrationSamples = 4
	det.SnapshotIntervalS = 0
	return det
}

func TestWorker_CalibratesAndClassifies(t *testing.T) {
	t.Parallel()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	m := metrics.New(nil)
	src := frames.NewMemorySource(testFrames())

	w, err := NewWorker("lot-a", src, passthroughProducer{}, testLayout(), testDetection(), WorkerDeps{
		DB:      db,
		Metrics: m,
	})
	require.NoError(t, err)

	require.NoError(t, w.Start())
	assert.NotEmpty(t, w.SessionID())

	// Empty regions count 0, occupied ones 16: the midpoint is 8.
	cal, err := db.LatestCalibration("lot-a")
	require.NoError(t, err)
	require.NotNil(t, cal)
	assert.Equal(t, "startup", cal.Reason)
	assert.Equal(t, 8, cal.Threshold)
	assert.Equal(t, 6, cal.LowThreshold)
	assert.Equal(t, 10, cal.HighThreshold)
	assert.Equal(t, 8, cal.SamplesAnalyzed)
	assert.Equal(t, 4, cal.FramesAnalyzed)

	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.FramesProcessed.WithLabelValues("lot-a")) == 6
	}, 2*time.Second, 10*time.Millisecond)

	w.Stop()

	// One space occupied, one free, throughout the runtime frames.
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FreeSpaces.WithLabelValues("lot-a")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OccupiedSpaces.WithLabelValues("lot-a")))
	assert.Equal(t, 50.0, testutil.ToFloat64(m.OccupancyRate.WithLabelValues("lot-a")))
	assert.Zero(t, testutil.ToFloat64(m.FramesDropped.WithLabelValues("lot-a")))

	// The dark runtime frames pull the adapted threshold below the
	// calibrated baseline of 8.
	assert.Equal(t, 7, w.Threshold())
	assert.Equal(t, 7.0, testutil.ToFloat64(m.ActiveThreshold.WithLabelValues("lot-a")))
}

func TestWorker_ReusesFreshCalibration(t *testing.T) {
	t.Parallel()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	stored := &database.CalibrationRecord{
		ID:            "cal-stored",
		StreamID:      "lot-a",
		Timestamp:     time.Now().UTC().Add(-time.Minute),
		Threshold:     12,
		LowThreshold:  10,
		HighThreshold: 14,
		Reason:        "startup",
	}
	require.NoError(t, db.SaveCalibration(stored))

	// No frames at all: a calibration run would fail, so starting
	// proves the stored session was reused.
	src := frames.NewMemorySource(nil)
	w, err := NewWorker("lot-a", src, passthroughProducer{}, testLayout(), testDetection(), WorkerDeps{DB: db})
	require.NoError(t, err)

	require.NoError(t, w.Start())
	assert.Equal(t, 12, w.Threshold())
	assert.Equal(t, "cal-stored", w.SessionID())
	w.Stop()
}

func TestWorker_IgnoresStaleCalibration(t *testing.T) {
	t.Parallel()

	db, err := database.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	require.NoError(t, db.SaveCalibration(&database.CalibrationRecord{
		ID:        "cal-stale",
		StreamID:  "lot-a",
		Timestamp: time.Now().UTC().Add(-2 * time.Hour),
		Threshold: 999,
		Reason:    "startup",
	}))

	src := frames.NewMemorySource(testFrames())
	w, err := NewWorker("lot-a", src, passthroughProducer{}, testLayout(), testDetection(), WorkerDeps{DB: db})
	require.NoError(t, err)

	require.NoError(t, w.Start())
	// A fresh calibration ran instead of trusting the stale record.
	assert.Equal(t, 8, w.Threshold())
	assert.NotEqual(t, "cal-stale", w.SessionID())
	w.Stop()
}

func TestWorker_RescalesOnResolutionChange(t *testing.T) {
	t.Parallel()

	m := metrics.New(nil)

	fs := testFrames()[:4] // calibration batch at 8x8
	regionA16 := occupancy.Region{X: 0, Y: 0, Width: 8, Height: 8}
	for i := 0; i < 6; i++ {
		f := frames.Uniform(16, 16, 0, uint64(10+i))
		fillRegion(f, regionA16, 255)
		fs = append(fs, f)
	}
	src := frames.NewMemorySource(fs)

	w, err := NewWorker("lot-a", src, passthroughProducer{}, testLayout(), testDetection(), WorkerDeps{Metrics: m})
	require.NoError(t, err)
	require.NoError(t, w.Start())

	// The first 16x16 frame triggers the rescale, the remaining five
	// are classified at the scaled threshold.
	require.Eventually(t, func() bool {
		return testutil.ToFloat64(m.FramesProcessed.WithLabelValues("lot-a")) == 5
	}, 2*time.Second, 10*time.Millisecond)
	w.Stop()

	// Quadrupled area quadruples the calibrated threshold of 8; the
	// dark frames then pull the adapted value slightly below it.
	active := testutil.ToFloat64(m.ActiveThreshold.WithLabelValues("lot-a"))
	assert.LessOrEqual(t, active, 32.0)
	assert.Greater(t, active, 16.0)

	// Regions doubled with the frame, so space A still reads occupied.
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OccupiedSpaces.WithLabelValues("lot-a")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FreeSpaces.WithLabelValues("lot-a")))
}

func TestWorker_EmptySourceFailsCalibration(t *testing.T) {
	t.Parallel()

	src := frames.NewMemorySource(nil)
	w, err := NewWorker("lot-a", src, passthroughProducer{}, testLayout(), testDetection(), WorkerDeps{})
	require.NoError(t, err)

	err = w.Start()
	assert.ErrorIs(t, err, occupancy.ErrInsufficientSamples)
}

func TestWorker_StopUnblocks(t *testing.T) {
	t.Parallel()

	// Enough frames that the worker is still mid-loop when stopped.
	var fs []*frames.Frame
	for i := 0; i < 5000; i++ {
		f := frames.Uniform(8, 8, 0, uint64(i+1))
		if i%2 == 1 {
			fillRegion(f, occupancy.Region{X: 0, Y: 0, Width: 4, Height: 4}, 255)
		}
		fs = append(fs, f)
	}
	src := frames.NewMemorySource(fs)

	w, err := NewWorker("lot-a", src, passthroughProducer{}, testLayout(), testDetection(), WorkerDeps{})
	require.NoError(t, err)
	require.NoError(t, w.Start())

	done := make(chan struct{})
	go func() {
		w.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not stop")
	}
}
