package stream

import (
	"fmt"
	"log"
	"sync"
	"time"

	"parkwatch/internal/config"
	"parkwatch/internal/database"
	"parkwatch/internal/frames"
	"parkwatch/internal/layout"
	"parkwatch/internal/mask"
)

// Manager owns the workers for all configured streams.
type Manager struct {
	cfg  *config.Config
	deps WorkerDeps

	producer mask.Producer

	workers map[string]*Worker
	mu      sync.RWMutex
}

// NewManager wires the shared mask producer and infrastructure. When
// the config names a mask service the gRPC producer is used for all
// streams; otherwise each frame is thresholded in-process.
func NewManager(cfg *config.Config, deps WorkerDeps) *Manager {
	var producer mask.Producer
	if cfg.MaskService.Address != "" {
		p, err := mask.NewGRPCProducer(mask.GRPCProducerConfig{
			Endpoint:    cfg.MaskService.Address,
			CallTimeout: time.Duration(cfg.MaskService.CallTimeoutMs) * time.Millisecond,
		})
		if err != nil {
			log.Printf("[Manager] mask service unavailable, falling back to local thresholding: %v", err)
		} else {
			producer = p
		}
	}
	if producer == nil {
		producer = mask.NewThresholdProducer()
	}

	return &Manager{
		cfg:      cfg,
		deps:     deps,
		producer: producer,
		workers:  make(map[string]*Worker),
	}
}

// StartAll launches a worker per configured stream. A stream that fails
// to start is logged and skipped; the rest keep running.
func (m *Manager) StartAll() {
	for i := range m.cfg.Streams {
		sc := &m.cfg.Streams[i]
		if err := m.startStream(sc); err != nil {
			log.Printf("[Manager] stream %s failed to start: %v", sc.ID, err)
			m.setStatus(sc, "error")
		}
	}
}

func (m *Manager) startStream(sc *config.Stream) error {
	l, err := layout.Load(sc.LayoutPath)
	if err != nil {
		return err
	}

	src := frames.NewFFmpegSource(sc.Device, sc.FPS)
	w, err := NewWorker(sc.ID, src, m.producer, l, m.cfg.DetectionFor(sc), m.deps)
	if err != nil {
		src.Close()
		return err
	}

	if err := w.Start(); err != nil {
		src.Close()
		return err
	}

	m.mu.Lock()
	m.workers[sc.ID] = w
	m.mu.Unlock()

	m.setStatus(sc, "active")
	log.Printf("[Manager] stream %s started (%s, %d spaces)", sc.ID, sc.Device, len(l.Spaces))
	return nil
}

func (m *Manager) setStatus(sc *config.Stream, status string) {
	if m.deps.DB == nil {
		return
	}
	rec := &database.StreamRecord{
		ID:         sc.ID,
		Name:       sc.Name,
		Device:     sc.Device,
		Resolution: fmt.Sprintf("%dx%d", sc.Width, sc.Height),
		FPS:        sc.FPS,
		LayoutPath: sc.LayoutPath,
		Status:     status,
		CreatedAt:  time.Now(),
	}
	if err := m.deps.DB.SaveStream(rec); err != nil {
		log.Printf("[Manager] saving stream %s: %v", sc.ID, err)
	}
}

// Get returns the worker for a stream ID, or nil.
func (m *Manager) Get(streamID string) *Worker {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.workers[streamID]
}

// StopAll stops every worker and waits for the loops to drain.
func (m *Manager) StopAll() {
	m.mu.Lock()
	workers := make([]*Worker, 0, len(m.workers))
	for _, w := range m.workers {
		workers = append(workers, w)
	}
	m.workers = make(map[string]*Worker)
	m.mu.Unlock()

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			w.Stop()
		}(w)
	}
	wg.Wait()

	if c, ok := m.producer.(interface{ Close() error }); ok {
		c.Close()
	}
	log.Printf("[Manager] all streams stopped")
}
