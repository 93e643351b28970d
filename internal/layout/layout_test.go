package layout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwatch/internal/occupancy"
)

func writeLayout(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "layout.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	t.Parallel()

	path := writeLayout(t, `{
		"resolution": {"width": 1280, "height": 720},
		"space_width": 107,
		"space_height": 48,
		"spaces": [
			{"x": 10, "y": 20},
			{"x": 200, "y": 20, "width": 90, "height": 40}
		]
	}`)

	l, err := Load(path)
	require.NoError(t, err)
	require.Len(t, l.Spaces, 2)

	// Bare positions inherit the default crop size.
	assert.Equal(t, 107, l.Spaces[0].Width)
	assert.Equal(t, 48, l.Spaces[0].Height)
	// Explicit sizes are kept.
	assert.Equal(t, 90, l.Spaces[1].Width)
}

func TestLoad_RecommendedSizeFallback(t *testing.T) {
	t.Parallel()

	// No per-file default: bare positions get the recommended crop size
	// for the drawn resolution (half the 107x48 reference at 640x360).
	path := writeLayout(t, `{
		"resolution": {"width": 640, "height": 360},
		"spaces": [{"x": 0, "y": 0}]
	}`)

	l, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 54, l.Spaces[0].Width)
	assert.Equal(t, 24, l.Spaces[0].Height)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{"missing resolution", `{"spaces": [{"x":0,"y":0,"width":10,"height":10}]}`},
		{"no spaces", `{"resolution": {"width": 640, "height": 360}, "spaces": []}`},
		{"negative width", `{"resolution": {"width": 640, "height": 360}, "spaces": [{"x":5,"y":0,"width":-10,"height":10}]}`},
		{"bad json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(writeLayout(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestRegionsFor_ScalesToResolution(t *testing.T) {
	t.Parallel()

	l := &Layout{
		Resolution: Resolution{Width: 1280, Height: 720},
		Spaces: []occupancy.Region{
			{X: 100, Y: 50, Width: 107, Height: 48},
		},
	}

	t.Run("identity at drawn resolution", func(t *testing.T) {
		t.Parallel()
		regions := l.RegionsFor(1280, 720)
		assert.Equal(t, l.Spaces, regions)
	})

	t.Run("doubling the resolution doubles the regions", func(t *testing.T) {
		t.Parallel()
		regions := l.RegionsFor(2560, 1440)
		assert.Equal(t, occupancy.Region{X: 200, Y: 100, Width: 214, Height: 96}, regions[0])
	})

	t.Run("downscaling never collapses a region", func(t *testing.T) {
		t.Parallel()
		tiny := &Layout{
			Resolution: Resolution{Width: 1280, Height: 720},
			Spaces:     []occupancy.Region{{X: 4, Y: 4, Width: 2, Height: 2}},
		}
		regions := tiny.RegionsFor(128, 72)
		assert.GreaterOrEqual(t, regions[0].Width, 1)
		assert.GreaterOrEqual(t, regions[0].Height, 1)
	})
}
