// Package layout loads saved parking-space layouts. A layout file records
// the resolution it was drawn at and the space rectangles; spaces drawn
// with only an origin inherit the file's default crop size.
package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"parkwatch/internal/occupancy"
)

// Layout is a saved region list for one camera view.
type Layout struct {
	Resolution  Resolution         `json:"resolution"`
	SpaceWidth  int                `json:"space_width,omitempty"`
	SpaceHeight int                `json:"space_height,omitempty"`
	Spaces      []occupancy.Region `json:"spaces"`
}

// Resolution is the frame size the layout was drawn at.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Load reads and validates a layout file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading layout %s: %w", path, err)
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("parsing layout %s: %w", path, err)
	}

	if l.Resolution.Width <= 0 || l.Resolution.Height <= 0 {
		return nil, fmt.Errorf("layout %s: missing resolution", path)
	}

	// Entries saved as bare positions inherit the file's default size;
	// without one, fall back to the recommended crop size for the drawn
	// resolution.
	defW, defH := l.SpaceWidth, l.SpaceHeight
	if defW <= 0 || defH <= 0 {
		w, h := occupancy.NewScaler().RecommendSpaceSize(l.Resolution.Width, l.Resolution.Height)
		if defW <= 0 {
			defW = w
		}
		if defH <= 0 {
			defH = h
		}
	}
	for i := range l.Spaces {
		if l.Spaces[i].Width == 0 {
			l.Spaces[i].Width = defW
		}
		if l.Spaces[i].Height == 0 {
			l.Spaces[i].Height = defH
		}
	}

	if len(l.Spaces) == 0 {
		return nil, fmt.Errorf("layout %s: no spaces defined", path)
	}
	if err := occupancy.ValidateRegions(l.Spaces); err != nil {
		return nil, fmt.Errorf("layout %s: %w", path, err)
	}
	return &l, nil
}

// RegionsFor returns the layout's regions scaled to the given resolution.
// When the resolutions match, the regions are returned as drawn.
func (l *Layout) RegionsFor(width, height int) []occupancy.Region {
	if width == l.Resolution.Width && height == l.Resolution.Height {
		out := make([]occupancy.Region, len(l.Spaces))
		copy(out, l.Spaces)
		return out
	}
	sx := float64(width) / float64(l.Resolution.Width)
	sy := float64(height) / float64(l.Resolution.Height)
	out := make([]occupancy.Region, len(l.Spaces))
	for i, r := range l.Spaces {
		out[i] = occupancy.Region{
			X:      scale(r.X, sx),
			Y:      scale(r.Y, sy),
			Width:  scale(r.Width, sx),
			Height: scale(r.Height, sy),
		}
		if out[i].Width < 1 {
			out[i].Width = 1
		}
		if out[i].Height < 1 {
			out[i].Height = 1
		}
	}
	return out
}

func scale(v int, s float64) int {
	scaled := float64(v) * s
	if scaled >= 0 {
		return int(scaled + 0.5)
	}
	return int(scaled - 0.5)
}
