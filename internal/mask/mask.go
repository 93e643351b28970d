package mask

import "parkwatch/internal/frames"

// Mask is a single-channel binary image. A pixel is "set" (foreground)
// when its byte is non-zero.
type Mask struct {
	Width  int
	Height int
	Pix    []uint8 // row-major, len = Width*Height
}

// New allocates an all-background mask.
func New(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// Set reports whether the pixel at (x, y) is foreground. Out-of-bounds
// coordinates are background.
func (m *Mask) Set(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x] != 0
}

// Producer turns a decoded frame into a foreground/background mask.
// Implementations must be pure with respect to the frame: the same frame
// always yields the same mask, and the frame is not modified.
type Producer interface {
	Process(f *frames.Frame) (*Mask, error)
}
