package review

// Summary is the rating aggregate of one subject.
type Summary struct {
	Average float64
	Count   int64
}

// Summarize computes the mean of ratings; an empty input yields a zero average.
func Summarize(ratings ...float64) Summary {
	var sum float64
	for _, r := range ratings {
		sum += r
	}
	return SummaryFromTotals(int64(len(ratings)), sum)
}

// SummaryFromTotals builds a summary from a precomputed count and sum, as returned
// by an aggregate query.
func SummaryFromTotals(count int64, sum float64) Summary {
	if count <= 0 {
		return Summary{}
	}
	return Summary{Average: sum / float64(count), Count: count}
}
