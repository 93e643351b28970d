package frames

import "errors"

// ErrExhausted is returned by Next when a source has no more frames.
var ErrExhausted = errors.New("frame source exhausted")

// Source yields decoded frames in capture order.
type Source interface {
	// Next returns the next frame, or ErrExhausted when the source has ended.
	Next() (*Frame, error)

	// Resolution returns the frame dimensions, or (0, 0) if not yet known.
	Resolution() (width, height int)

	// Close releases the source's resources. Frames already returned remain valid.
	Close() error
}
