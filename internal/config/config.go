// Package config loads the server configuration from a JSON file with
// environment-variable overrides for deployment knobs.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Config is the top-level server configuration.
type Config struct {
	HTTPPort     int               `json:"http_port"`
	DatabasePath string            `json:"database_path"`
	MaskService  MaskService       `json:"mask_service"`
	Detection    Detection         `json:"detection"`
	Streams      []Stream          `json:"streams"`
	Presets      map[string]Preset `json:"presets,omitempty"`
}

// MaskService configures the optional gRPC mask producer. When the
// address is empty the built-in adaptive-threshold producer is used.
type MaskService struct {
	Address       string `json:"address,omitempty"`
	CallTimeoutMs int    `json:"call_timeout_ms,omitempty"`
}

// Detection holds the calibration and adaptation tunables shared by
// all streams unless a preset overrides them.
type Detection struct {
	CalibrationSamples int     `json:"calibration_samples"`
	ThresholdMargin    float64 `json:"threshold_margin"`
	UpdateInterval     int     `json:"update_interval"`
	BrightnessGain     float64 `json:"brightness_gain"`
	FactorMin          float64 `json:"factor_min"`
	FactorMax          float64 `json:"factor_max"`
	SmoothingWindow    int     `json:"smoothing_window"`
	DriftDelta         float64 `json:"drift_delta"`
	DriftWindow        int     `json:"drift_window"`
	SnapshotIntervalS  int     `json:"snapshot_interval_s"`
	CalibrationMaxAgeS int     `json:"calibration_max_age_s"`
	AutoRecalibrate    bool    `json:"auto_recalibrate"`
}

// Stream describes one monitored video feed.
type Stream struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Device     string `json:"device"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	FPS        int    `json:"fps"`
	LayoutPath string `json:"layout_path"`
	Preset     string `json:"preset,omitempty"`
}

// Preset is a named detection override for a lot type. Zero fields
// fall through to the shared Detection values.
type Preset struct {
	ThresholdMargin float64 `json:"threshold_margin,omitempty"`
	BrightnessGain  float64 `json:"brightness_gain,omitempty"`
	FactorMin       float64 `json:"factor_min,omitempty"`
	FactorMax       float64 `json:"factor_max,omitempty"`
	DriftDelta      float64 `json:"drift_delta,omitempty"`
}

// BuiltinPresets covers the common lot geometries. A config file may
// override or extend these under "presets".
var BuiltinPresets = map[string]Preset{
	"multi_lane": {ThresholdMargin: 0.20},
	"reserved":   {ThresholdMargin: 0.15, DriftDelta: 25},
	"night":      {BrightnessGain: 0.45, FactorMin: 0.6, FactorMax: 1.4},
	"angled":     {ThresholdMargin: 0.25},
}

// Defaults returns the configuration used when no file is given.
func Defaults() *Config {
	return &Config{
		HTTPPort:     8080,
		DatabasePath: "parkwatch.db",
		Detection: Detection{
			CalibrationSamples: 20,
			ThresholdMargin:    0.20,
			UpdateInterval:     5,
			BrightnessGain:     0.3,
			FactorMin:          0.7,
			FactorMax:          1.3,
			SmoothingWindow:    10,
			DriftDelta:         30,
			DriftWindow:        3,
			SnapshotIntervalS:  60,
			CalibrationMaxAgeS: 3600,
			AutoRecalibrate:    true,
		},
	}
}

// Load reads a config file, fills unset fields with defaults and
// applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HTTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.HTTPPort = port
		}
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("MASK_SERVICE_ADDR"); v != "" {
		c.MaskService.Address = v
	}
}

func (c *Config) validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port %d", c.HTTPPort)
	}
	d := &c.Detection
	if d.CalibrationSamples <= 0 {
		return fmt.Errorf("calibration_samples must be positive")
	}
	if d.ThresholdMargin < 0 || d.ThresholdMargin >= 1 {
		return fmt.Errorf("threshold_margin must be in [0, 1)")
	}
	if d.FactorMin <= 0 || d.FactorMax < d.FactorMin {
		return fmt.Errorf("invalid adaptation factor bounds [%v, %v]", d.FactorMin, d.FactorMax)
	}
	seen := make(map[string]bool, len(c.Streams))
	for i, s := range c.Streams {
		if s.ID == "" {
			return fmt.Errorf("stream %d: missing id", i)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate stream id %q", s.ID)
		}
		seen[s.ID] = true
		if s.Device == "" {
			return fmt.Errorf("stream %s: missing device", s.ID)
		}
		if s.LayoutPath == "" {
			return fmt.Errorf("stream %s: missing layout_path", s.ID)
		}
		if s.Preset != "" {
			if _, ok := c.preset(s.Preset); !ok {
				return fmt.Errorf("stream %s: unknown preset %q", s.ID, s.Preset)
			}
		}
	}
	return nil
}

func (c *Config) preset(name string) (Preset, bool) {
	if p, ok := c.Presets[name]; ok {
		return p, true
	}
	p, ok := BuiltinPresets[name]
	return p, ok
}

// DetectionFor returns the detection tunables for a stream with its
// preset applied.
func (c *Config) DetectionFor(s *Stream) Detection {
	d := c.Detection
	if s == nil || s.Preset == "" {
		return d
	}
	p, ok := c.preset(s.Preset)
	if !ok {
		return d
	}
	if p.ThresholdMargin > 0 {
		d.ThresholdMargin = p.ThresholdMargin
	}
	if p.BrightnessGain > 0 {
		d.BrightnessGain = p.BrightnessGain
	}
	if p.FactorMin > 0 {
		d.FactorMin = p.FactorMin
	}
	if p.FactorMax > 0 {
		d.FactorMax = p.FactorMax
	}
	if p.DriftDelta > 0 {
		d.DriftDelta = p.DriftDelta
	}
	return d
}
