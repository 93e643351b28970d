// Package metrics exposes Prometheus gauges and counters for the
// occupancy pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the registry and the pipeline collectors.
type Metrics struct {
	registry *prometheus.Registry

	FramesProcessed  *prometheus.CounterVec
	FramesDropped    *prometheus.CounterVec
	FreeSpaces       *prometheus.GaugeVec
	OccupiedSpaces   *prometheus.GaugeVec
	OccupancyRate    *prometheus.GaugeVec
	ActiveThreshold  *prometheus.GaugeVec
	FrameBrightness  *prometheus.GaugeVec
	Calibrations     *prometheus.CounterVec
	DriftDetections  *prometheus.CounterVec
	ConnectedClients prometheus.GaugeFunc
	ClassifyDuration *prometheus.HistogramVec
}

// ClientCounter reports connected WebSocket clients. Satisfied by
// ws.OccupancyHub.
type ClientCounter interface {
	ClientCount() int
}

// New builds the collectors on a dedicated registry.
func New(clients ClientCounter) *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		FramesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parkwatch",
			Name:      "frames_processed_total",
			Help:      "Frames pulled from the source and classified.",
		}, []string{"stream"}),
		FramesDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parkwatch",
			Name:      "frames_dropped_total",
			Help:      "Frames that failed decoding or mask production.",
		}, []string{"stream"}),
		FreeSpaces: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "parkwatch",
			Name:      "free_spaces",
			Help:      "Spaces currently classified as free.",
		}, []string{"stream"}),
		OccupiedSpaces: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "parkwatch",
			Name:      "occupied_spaces",
			Help:      "Spaces currently classified as occupied.",
		}, []string{"stream"}),
		OccupancyRate: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "parkwatch",
			Name:      "occupancy_rate",
			Help:      "Percentage of spaces occupied.",
		}, []string{"stream"}),
		ActiveThreshold: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "parkwatch",
			Name:      "active_threshold",
			Help:      "Pixel-count threshold currently in effect.",
		}, []string{"stream"}),
		FrameBrightness: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "parkwatch",
			Name:      "frame_brightness",
			Help:      "Mean brightness of the last sampled frame.",
		}, []string{"stream"}),
		Calibrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parkwatch",
			Name:      "calibrations_total",
			Help:      "Calibration sessions, by trigger reason.",
		}, []string{"stream", "reason"}),
		DriftDetections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "parkwatch",
			Name:      "drift_detections_total",
			Help:      "Sustained lighting drift detections.",
		}, []string{"stream"}),
		ClassifyDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "parkwatch",
			Name:      "classify_duration_seconds",
			Help:      "Time to mask, sample and classify one frame.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stream"}),
	}

	m.ConnectedClients = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "parkwatch",
		Name:      "connected_clients",
		Help:      "WebSocket subscribers across all streams.",
	}, func() float64 {
		if clients == nil {
			return 0
		}
		return float64(clients.ClientCount())
	})

	reg.MustRegister(
		m.FramesProcessed,
		m.FramesDropped,
		m.FreeSpaces,
		m.OccupiedSpaces,
		m.OccupancyRate,
		m.ActiveThreshold,
		m.FrameBrightness,
		m.Calibrations,
		m.DriftDetections,
		m.ConnectedClients,
		m.ClassifyDuration,
	)

	return m
}

// Handler returns the /metrics HTTP handler for the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
