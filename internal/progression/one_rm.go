package progression

// EstimateOneRM returns the Epley one-rep-max estimate for a set. Zero reps
// estimates nothing.
func EstimateOneRM(weight int, reps int) float64 {
	if reps <= 0 {
		return 0
	}
	return float64(weight) * (1 + float64(reps)/30)
}
