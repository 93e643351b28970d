package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaler_IdentityAtReference(t *testing.T) {
	t.Parallel()

	s := NewScaler()
	w, h := s.RecommendSpaceSize(RefWidth, RefHeight)
	assert.Equal(t, RefSpaceWidth, w)
	assert.Equal(t, RefSpaceHeight, h)
	assert.Equal(t, 1.0, s.ScaleFactor(RefWidth, RefHeight))
	assert.Equal(t, 900, s.ScaleThreshold(RefWidth, RefHeight, 900))
}

func TestScaler_ScaleThreshold(t *testing.T) {
	t.Parallel()

	s := NewScaler()
	tests := []struct {
		name   string
		w, h   int
		base   int
		expect int
	}{
		{"full hd doubles area 2.25x", 1920, 1080, 1000, 2250},
		{"half in both axes quarters", 640, 360, 1000, 250},
		{"4k is 9x area", 3840, 2160, 1000, 9000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, s.ScaleThreshold(tt.w, tt.h, tt.base))
		})
	}
}

// Scaling composes: mapping a threshold to one resolution and then to a
// second matches mapping directly, within rounding tolerance.
func TestScaler_ScalingComposes(t *testing.T) {
	t.Parallel()

	s := NewScaler()
	base := 900

	// Same aspect ratio chain: 720p -> 1080p -> back.
	at1080 := s.ScaleThreshold(1920, 1080, base)
	direct := s.ScaleThreshold(1920, 1080, base)
	assert.Equal(t, direct, at1080)

	// Round trip stays within one count of the scale ratio.
	back := roundHalfUp(float64(at1080) / s.ScaleFactor(1920, 1080))
	assert.InDelta(t, base, back, 1)
}

func TestScaler_RescaleThreshold(t *testing.T) {
	t.Parallel()

	s := NewScaler()

	// 720p to 1080p is a 2.25x area increase regardless of the reference.
	assert.Equal(t, 2250, s.RescaleThreshold(1000, 1280, 720, 1920, 1080))
	// And back down again.
	assert.Equal(t, 1000, s.RescaleThreshold(2250, 1920, 1080, 1280, 720))
	// Same resolution is the identity.
	assert.Equal(t, 900, s.RescaleThreshold(900, 1920, 1080, 1920, 1080))
}

func TestRoundHalfUp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 2, roundHalfUp(1.5))
	assert.Equal(t, 1, roundHalfUp(1.49))
	assert.Equal(t, 3, roundHalfUp(2.5))
	assert.Equal(t, -1, roundHalfUp(-1.5))
}

func TestScaler_NearestProfile(t *testing.T) {
	t.Parallel()

	s := NewScaler()
	assert.Equal(t, 1.0, s.NearestProfile(1280, 720).ScaleRatio)
	assert.Equal(t, 1.4, s.NearestProfile(1900, 1060).ScaleRatio)
	assert.Equal(t, 0.6, s.NearestProfile(700, 400).ScaleRatio)
	assert.Equal(t, 2.5, s.NearestProfile(4096, 2160).ScaleRatio)
}
