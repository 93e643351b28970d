package occupancy

// ring is a fixed-capacity buffer of recent float64 samples. Storage is
// allocated once; pushing beyond capacity evicts the oldest value.
type ring struct {
	buf  []float64
	size int
	head int
}

func newRing(capacity int) *ring {
	return &ring{buf: make([]float64, capacity)}
}

func (r *ring) push(v float64) {
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
	if r.size < len(r.buf) {
		r.size++
	}
}

func (r *ring) len() int {
	return r.size
}

// mean averages the n most recent values (or all of them when fewer are
// stored). Returns 0 for an empty ring.
func (r *ring) mean(n int) float64 {
	if r.size == 0 {
		return 0
	}
	if n > r.size {
		n = r.size
	}
	sum := 0.0
	idx := r.head
	for i := 0; i < n; i++ {
		idx--
		if idx < 0 {
			idx = len(r.buf) - 1
		}
		sum += r.buf[idx]
	}
	return sum / float64(n)
}
