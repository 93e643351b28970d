package frames

import (
	"image"
	"math"
	"time"
)

// Frame is one decoded grayscale video frame.
type Frame struct {
	Seq       uint64
	Width     int
	Height    int
	Pix       []uint8 // row-major intensities, len = Width*Height
	Timestamp time.Time
}

// Brightness returns the mean pixel intensity of the frame.
func (f *Frame) Brightness() float64 {
	if len(f.Pix) == 0 {
		return 0
	}
	var sum uint64
	for _, p := range f.Pix {
		sum += uint64(p)
	}
	return float64(sum) / float64(len(f.Pix))
}

// Contrast returns the standard deviation of pixel intensities.
func (f *Frame) Contrast() float64 {
	if len(f.Pix) == 0 {
		return 0
	}
	mean := f.Brightness()
	var sq float64
	for _, p := range f.Pix {
		d := float64(p) - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(len(f.Pix)))
}

// FromImage converts a decoded image to a grayscale frame using the
// integer Rec. 601 luma weights.
func FromImage(img image.Image, seq uint64) *Frame {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	f := &Frame{
		Seq:       seq,
		Width:     w,
		Height:    h,
		Pix:       make([]uint8, w*h),
		Timestamp: time.Now(),
	}

	// Fast path for images that are already grayscale.
	if gray, ok := img.(*image.Gray); ok {
		for y := 0; y < h; y++ {
			copy(f.Pix[y*w:(y+1)*w], gray.Pix[y*gray.Stride:y*gray.Stride+w])
		}
		return f
	}

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			// 16-bit channels; luma scaled back to 8 bits.
			f.Pix[i] = uint8((299*r + 587*g + 114*b) / 1000 >> 8)
			i++
		}
	}
	return f
}
