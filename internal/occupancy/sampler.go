package occupancy

import "parkwatch/internal/mask"

// PixelCountSample is the number of set pixels inside one region in one
// sampled frame.
type PixelCountSample struct {
	RegionIndex int
	Count       int
	FrameIndex  int
}

// Sample counts set pixels within each region of the mask. Regions
// extending past the mask are clamped to its valid area; a region entirely
// outside contributes zero. Malformed regions are rejected, never clamped
// to zero area.
func Sample(m *mask.Mask, regions []Region, frameIndex int) ([]PixelCountSample, error) {
	if err := ValidateRegions(regions); err != nil {
		return nil, err
	}
	samples := make([]PixelCountSample, len(regions))
	for i, r := range regions {
		samples[i] = PixelCountSample{
			RegionIndex: i,
			Count:       countRegion(m, r),
			FrameIndex:  frameIndex,
		}
	}
	return samples, nil
}

// countRegion counts set pixels in the intersection of the region and the
// mask bounds.
func countRegion(m *mask.Mask, r Region) int {
	x0, y0 := r.X, r.Y
	x1, y1 := r.X+r.Width, r.Y+r.Height
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > m.Width {
		x1 = m.Width
	}
	if y1 > m.Height {
		y1 = m.Height
	}
	if x0 >= x1 || y0 >= y1 {
		return 0
	}

	count := 0
	for y := y0; y < y1; y++ {
		row := m.Pix[y*m.Width : y*m.Width+m.Width]
		for x := x0; x < x1; x++ {
			if row[x] != 0 {
				count++
			}
		}
	}
	return count
}
