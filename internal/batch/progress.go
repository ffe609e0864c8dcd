package batch

// percentMultiplier converts a ratio to a percentage.
const percentMultiplier = 100

// Progress is a snapshot of a running batch.
type Progress struct {
	Total  int
	Done   int
	Failed int
}

// Succeeded returns the number of items that finished without error.
func (p Progress) Succeeded() int {
	return p.Done - p.Failed
}

// PercentComplete returns the completion percentage (0-100).
func (p Progress) PercentComplete() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total) * percentMultiplier
}

// IsComplete reports whether every item has finished.
func (p Progress) IsComplete() bool {
	return p.Done >= p.Total
}
