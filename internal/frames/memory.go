package frames

// MemorySource serves a fixed sequence of frames. It is used for replay
// and for feeding synthetic frames in tests.
type MemorySource struct {
	frames []*Frame
	pos    int
	width  int
	height int
}

// NewMemorySource creates a source over the given frames. The frames are
// served in order; Resolution reports the dimensions of the first frame.
func NewMemorySource(fs []*Frame) *MemorySource {
	s := &MemorySource{frames: fs}
	if len(fs) > 0 {
		s.width = fs[0].Width
		s.height = fs[0].Height
	}
	return s
}

// Next returns the next frame or ErrExhausted at the end of the sequence.
func (s *MemorySource) Next() (*Frame, error) {
	if s.pos >= len(s.frames) {
		return nil, ErrExhausted
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// Resolution returns the dimensions of the first frame.
func (s *MemorySource) Resolution() (int, int) {
	return s.width, s.height
}

// Rewind resets the source to the first frame.
func (s *MemorySource) Rewind() {
	s.pos = 0
}

// Close implements Source. Memory sources hold no resources.
func (s *MemorySource) Close() error {
	return nil
}

// Uniform builds a frame of the given size with every pixel set to value.
func Uniform(width, height int, value uint8, seq uint64) *Frame {
	pix := make([]uint8, width*height)
	for i := range pix {
		pix[i] = value
	}
	return &Frame{Seq: seq, Width: width, Height: height, Pix: pix}
}
