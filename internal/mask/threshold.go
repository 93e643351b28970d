package mask

import (
	"fmt"

	"parkwatch/internal/frames"
)

// ThresholdProducer is the in-process mask producer. It approximates the
// classic parking pipeline: a small smoothing pass, an inverted adaptive
// threshold against the local mean, and one dilation to close gaps in
// vehicle silhouettes. Dark, textured areas (vehicles) come out as
// foreground; evenly lit pavement comes out as background.
type ThresholdProducer struct {
	BlockSize int // adaptive window side, odd, default 25
	C         int // constant subtracted from the local mean, default 16
	Dilate    int // dilation passes, default 1
}

// NewThresholdProducer returns a producer with the default tuning.
func NewThresholdProducer() *ThresholdProducer {
	return &ThresholdProducer{BlockSize: 25, C: 16, Dilate: 1}
}

// Process implements Producer.
func (p *ThresholdProducer) Process(f *frames.Frame) (*Mask, error) {
	if f == nil || f.Width <= 0 || f.Height <= 0 || len(f.Pix) < f.Width*f.Height {
		return nil, fmt.Errorf("mask: malformed frame")
	}
	block := p.BlockSize
	if block < 3 {
		block = 25
	}
	if block%2 == 0 {
		block++
	}

	w, h := f.Width, f.Height
	smoothed := boxBlur3(f.Pix, w, h)
	m := New(w, h)

	// Integral image over the smoothed frame for O(1) window means.
	integral := make([]uint64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var row uint64
		for x := 0; x < w; x++ {
			row += uint64(smoothed[y*w+x])
			integral[(y+1)*(w+1)+x+1] = integral[y*(w+1)+x+1] + row
		}
	}

	half := block / 2
	for y := 0; y < h; y++ {
		y0 := max(0, y-half)
		y1 := min(h-1, y+half)
		for x := 0; x < w; x++ {
			x0 := max(0, x-half)
			x1 := min(w-1, x+half)
			area := uint64((x1 - x0 + 1) * (y1 - y0 + 1))
			sum := integral[(y1+1)*(w+1)+x1+1] - integral[y0*(w+1)+x1+1] -
				integral[(y1+1)*(w+1)+x0] + integral[y0*(w+1)+x0]
			mean := sum / area
			// Inverted threshold: darker than the local mean minus C is foreground.
			if int(smoothed[y*w+x]) < int(mean)-p.C {
				m.Pix[y*w+x] = 255
			}
		}
	}

	for i := 0; i < p.Dilate; i++ {
		dilate3(m)
	}
	return m, nil
}

// boxBlur3 applies a 3x3 box blur, clamping at the borders.
func boxBlur3(pix []uint8, w, h int) []uint8 {
	out := make([]uint8, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum, n int
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					sum += int(pix[yy*w+xx])
					n++
				}
			}
			out[y*w+x] = uint8(sum / n)
		}
	}
	return out
}

// dilate3 grows foreground by one pixel in each direction (3x3 kernel).
func dilate3(m *Mask) {
	src := make([]uint8, len(m.Pix))
	copy(src, m.Pix)
	w, h := m.Width, m.Height
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if src[y*w+x] != 0 {
				continue
			}
		neighbors:
			for dy := -1; dy <= 1; dy++ {
				yy := y + dy
				if yy < 0 || yy >= h {
					continue
				}
				for dx := -1; dx <= 1; dx++ {
					xx := x + dx
					if xx < 0 || xx >= w {
						continue
					}
					if src[yy*w+xx] != 0 {
						m.Pix[y*w+x] = 255
						break neighbors
					}
				}
			}
		}
	}
}
