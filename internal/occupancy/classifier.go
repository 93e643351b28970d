package occupancy

// Summary aggregates a classification pass for display.
type Summary struct {
	Total         int     `json:"total"`
	Occupied      int     `json:"occupied"`
	Free          int     `json:"free"`
	OccupancyRate float64 `json:"occupancy_rate"` // percent
}

// Classify compares per-space pixel counts to the threshold. A verdict of
// true means free; a count equal to the threshold classifies as occupied
// (the boundary is not clearly empty). Returns the verdicts and the free
// count.
func Classify(counts []int, threshold int) ([]bool, int) {
	verdicts := make([]bool, len(counts))
	free := 0
	for i, c := range counts {
		if c < threshold {
			verdicts[i] = true
			free++
		}
	}
	return verdicts, free
}

// Summarize reduces a verdict sequence to aggregate statistics.
func Summarize(verdicts []bool) Summary {
	s := Summary{Total: len(verdicts)}
	for _, free := range verdicts {
		if free {
			s.Free++
		} else {
			s.Occupied++
		}
	}
	if s.Total > 0 {
		s.OccupancyRate = float64(s.Occupied) / float64(s.Total) * 100
	}
	return s
}
