package reviews

import "math"

// RatingSummary is the aggregate shape returned alongside a book's review
// list.
type RatingSummary struct {
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

// AggregateRatings computes the review count and the mean rating rounded
// half-up to one decimal place. An empty slice yields a zero summary rather
// than NaN.
func AggregateRatings(ratings []float64) RatingSummary {
	if len(ratings) == 0 {
		return RatingSummary{}
	}

	sum := 0.0
	for _, r := range ratings {
		sum += r
	}
	mean := sum / float64(len(ratings))

	return RatingSummary{
		AverageRating: roundRating(mean),
		ReviewCount:   len(ratings),
	}
}

// roundRating keeps one decimal place, rounding half-up. Ratings are stored
// and aggregated at this precision.
func roundRating(r float64) float64 {
	return math.Floor(r*10+0.5) / 10
}
