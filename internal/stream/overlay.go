package stream

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"parkwatch/internal/frames"
	"parkwatch/internal/occupancy"
)

var (
	freeColor     = color.RGBA{0, 200, 0, 255}
	occupiedColor = color.RGBA{220, 40, 40, 255}
	bannerColor   = color.RGBA{255, 255, 255, 255}
)

// Annotator renders verdict overlays onto frames for the MJPEG feed.
type Annotator struct {
	Quality int
}

// NewAnnotator creates an annotator with the default JPEG quality.
func NewAnnotator() *Annotator {
	return &Annotator{Quality: 85}
}

// Annotate draws space boxes and a free-count banner over the frame
// and returns it JPEG-encoded.
func (a *Annotator) Annotate(f *frames.Frame, regions []occupancy.Region, verdicts []bool) ([]byte, error) {
	rgba := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		row := y * f.Width
		for x := 0; x < f.Width; x++ {
			v := f.Pix[row+x]
			i := rgba.PixOffset(x, y)
			rgba.Pix[i] = v
			rgba.Pix[i+1] = v
			rgba.Pix[i+2] = v
			rgba.Pix[i+3] = 255
		}
	}

	free := 0
	for i, r := range regions {
		if i >= len(verdicts) {
			break
		}
		c := occupiedColor
		label := "OCCUPIED"
		if verdicts[i] {
			c = freeColor
			label = "FREE"
			free++
		}
		drawBox(rgba, r.X, r.Y, r.Width, r.Height, c, 2)
		drawLabel(rgba, r.X, r.Y-5, label, c)
	}

	banner := fmt.Sprintf("%d/%d FREE", free, len(verdicts))
	drawLabel(rgba, 10, 15, banner, bannerColor)

	var buf bytes.Buffer
	quality := a.Quality
	if quality <= 0 {
		quality = 85
	}
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding annotated frame: %w", err)
	}
	return buf.Bytes(), nil
}

// drawBox draws a rectangle outline clipped to the image bounds.
func drawBox(img *image.RGBA, x, y, w, h int, c color.RGBA, thickness int) {
	bounds := img.Bounds()

	for t := 0; t < thickness; t++ {
		for i := x; i < x+w && i < bounds.Max.X; i++ {
			if y+t >= 0 && y+t < bounds.Max.Y && i >= 0 {
				img.Set(i, y+t, c)
			}
			if y+h-t >= 0 && y+h-t < bounds.Max.Y && i >= 0 {
				img.Set(i, y+h-t, c)
			}
		}
		for j := y; j < y+h && j < bounds.Max.Y; j++ {
			if x+t >= 0 && x+t < bounds.Max.X && j >= 0 {
				img.Set(x+t, j, c)
			}
			if x+w-t >= 0 && x+w-t < bounds.Max.X && j >= 0 {
				img.Set(x+w-t, j, c)
			}
		}
	}
}

// drawLabel draws text with a dark background strip.
func drawLabel(img *image.RGBA, x, y int, label string, c color.RGBA) {
	if y < 10 {
		y = 10
	}
	if x < 0 {
		x = 0
	}

	bgColor := color.RGBA{0, 0, 0, 180}
	textWidth := len(label) * 7
	for dy := -2; dy < 12; dy++ {
		for dx := -2; dx < textWidth+2; dx++ {
			px, py := x+dx, y+dy
			if px >= 0 && px < img.Bounds().Max.X && py >= 0 && py < img.Bounds().Max.Y {
				img.Set(px, py, bgColor)
			}
		}
	}

	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y + 10)},
	}
	d.DrawString(label)
}
