package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, 20, cfg.Detection.CalibrationSamples)
	assert.Equal(t, 0.20, cfg.Detection.ThresholdMargin)
	assert.Equal(t, 5, cfg.Detection.UpdateInterval)
	assert.Equal(t, 0.3, cfg.Detection.BrightnessGain)
	assert.Equal(t, 3600, cfg.Detection.CalibrationMaxAgeS)
	assert.True(t, cfg.Detection.AutoRecalibrate)
	assert.Empty(t, cfg.Streams)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `{
		"http_port": 9090,
		"database_path": "/var/lib/parkwatch.db",
		"mask_service": {"address": "localhost:50051", "call_timeout_ms": 250},
		"streams": [
			{
				"id": "lot-a",
				"name": "North Lot",
				"device": "rtsp://cam1/stream",
				"fps": 10,
				"layout_path": "layouts/lot-a.json",
				"preset": "night"
			}
		]
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "localhost:50051", cfg.MaskService.Address)
	require.Len(t, cfg.Streams, 1)
	assert.Equal(t, "lot-a", cfg.Streams[0].ID)

	// File values merge over defaults.
	assert.Equal(t, 20, cfg.Detection.CalibrationSamples)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad port", `{"http_port": -1}`},
		{"zero samples", `{"detection": {"calibration_samples": -5, "threshold_margin": 0.2, "factor_min": 0.7, "factor_max": 1.3}}`},
		{"margin out of range", `{"detection": {"calibration_samples": 20, "threshold_margin": 1.5, "factor_min": 0.7, "factor_max": 1.3}}`},
		{"stream without id", `{"streams": [{"device": "/dev/video0", "layout_path": "l.json"}]}`},
		{"stream without device", `{"streams": [{"id": "a", "layout_path": "l.json"}]}`},
		{"stream without layout", `{"streams": [{"id": "a", "device": "/dev/video0"}]}`},
		{"duplicate stream ids", `{"streams": [
			{"id": "a", "device": "/dev/video0", "layout_path": "l.json"},
			{"id": "a", "device": "/dev/video1", "layout_path": "l.json"}
		]}`},
		{"unknown preset", `{"streams": [{"id": "a", "device": "/dev/video0", "layout_path": "l.json", "preset": "nope"}]}`},
		{"bad json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("DATABASE_PATH", "/tmp/override.db")
	t.Setenv("MASK_SERVICE_ADDR", "maskgen:50051")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.HTTPPort)
	assert.Equal(t, "/tmp/override.db", cfg.DatabasePath)
	assert.Equal(t, "maskgen:50051", cfg.MaskService.Address)
}

func TestDetectionFor_Presets(t *testing.T) {
	cfg := Defaults()

	t.Run("no preset keeps shared tunables", func(t *testing.T) {
		d := cfg.DetectionFor(&Stream{ID: "a"})
		assert.Equal(t, cfg.Detection, d)
	})

	t.Run("night preset boosts the brightness response", func(t *testing.T) {
		d := cfg.DetectionFor(&Stream{ID: "a", Preset: "night"})
		assert.Equal(t, 0.45, d.BrightnessGain)
		assert.Equal(t, 0.6, d.FactorMin)
		assert.Equal(t, 1.4, d.FactorMax)
		// Untouched fields fall through.
		assert.Equal(t, 0.20, d.ThresholdMargin)
	})

	t.Run("file presets shadow builtins", func(t *testing.T) {
		custom := Defaults()
		custom.Presets = map[string]Preset{
			"night": {BrightnessGain: 0.5},
		}
		d := custom.DetectionFor(&Stream{ID: "a", Preset: "night"})
		assert.Equal(t, 0.5, d.BrightnessGain)
	})
}
