package occupancy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkwatch/internal/mask"
)

// fillRegion sets count pixels inside the region, row by row.
func fillRegion(m *mask.Mask, r Region, count int) {
	for i := 0; i < count; i++ {
		x := r.X + i%r.Width
		y := r.Y + i/r.Width
		m.Pix[y*m.Width+x] = 255
	}
}

func TestSample_CountsPerRegion(t *testing.T) {
	t.Parallel()

	m := mask.New(100, 100)
	regions := []Region{
		{X: 0, Y: 0, Width: 10, Height: 10},
		{X: 50, Y: 50, Width: 10, Height: 10},
	}
	fillRegion(m, regions[0], 37)
	fillRegion(m, regions[1], 100)

	samples, err := Sample(m, regions, 7)
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, 37, samples[0].Count)
	assert.Equal(t, 100, samples[1].Count)
	assert.Equal(t, 7, samples[0].FrameIndex)
	assert.Equal(t, 1, samples[1].RegionIndex)
}

func TestSample_ClampsToMaskBounds(t *testing.T) {
	t.Parallel()

	m := mask.New(20, 20)
	for i := range m.Pix {
		m.Pix[i] = 255
	}

	t.Run("overhanging region counts only the overlap", func(t *testing.T) {
		t.Parallel()
		samples, err := Sample(m, []Region{{X: 15, Y: 15, Width: 10, Height: 10}}, 0)
		require.NoError(t, err)
		assert.Equal(t, 25, samples[0].Count) // 5x5 overlap
	})

	t.Run("region entirely outside counts zero", func(t *testing.T) {
		t.Parallel()
		samples, err := Sample(m, []Region{{X: 100, Y: 100, Width: 10, Height: 10}}, 0)
		require.NoError(t, err)
		assert.Equal(t, 0, samples[0].Count)
	})

	t.Run("negative origin clamps to zero", func(t *testing.T) {
		t.Parallel()
		samples, err := Sample(m, []Region{{X: -5, Y: -5, Width: 10, Height: 10}}, 0)
		require.NoError(t, err)
		assert.Equal(t, 25, samples[0].Count)
	})
}

func TestSample_RejectsMalformedRegions(t *testing.T) {
	t.Parallel()

	m := mask.New(20, 20)
	for _, bad := range []Region{
		{X: 0, Y: 0, Width: 0, Height: 10},
		{X: 0, Y: 0, Width: 10, Height: -1},
	} {
		_, err := Sample(m, []Region{bad}, 0)
		assert.ErrorIs(t, err, ErrInvalidRegion)
	}
}
