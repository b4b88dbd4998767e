package domain

import (
	"cmp"
	"math"
	"slices"
	"strings"
	"time"
)

// Rating bounds. Ratings may use half steps.
const (
	MinRating  = 1.0
	MaxRating  = 5.0
	RatingStep = 0.5

	// MinCommentLength is counted in characters, not bytes.
	MinCommentLength = 10
)

// Review is a visitor's rating and comment about the collection.
type Review struct {
	ID           int64     `json:"id"`
	Author       string    `json:"author"`
	Rating       float64   `json:"rating"`
	Comment      string    `json:"comment"`
	CreatedAt    time.Time `json:"createdAt"`
	HelpfulCount int       `json:"helpfulCount"`
}

// ClampRating forces a rating into [MinRating, MaxRating].
// NaN becomes MinRating.
func ClampRating(r float64) float64 {
	if math.IsNaN(r) || r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}

// Normalize repairs a decoded review so its fields satisfy the model invariants.
func (r *Review) Normalize() {
	r.Rating = ClampRating(r.Rating)
	if r.HelpfulCount < 0 {
		r.HelpfulCount = 0
	}
}

// ReviewStats summarizes a set of reviews.
// Histogram[k-1] counts reviews whose rating rounded up equals k.
type ReviewStats struct {
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
	Histogram [5]int  `json:"histogram"`
}

// Bucket returns the number of reviews in star bucket k (1..5).
func (s ReviewStats) Bucket(k int) int {
	if k < 1 || k > 5 {
		return 0
	}
	return s.Histogram[k-1]
}

// AggregateReviews computes count, mean rating and the ceiling-bucketed histogram.
func AggregateReviews(reviews []Review) ReviewStats {
	var stats ReviewStats
	if len(reviews) == 0 {
		return stats
	}

	var sum float64
	for _, r := range reviews {
		rating := ClampRating(r.Rating)
		sum += rating
		bucket := int(math.Ceil(rating))
		stats.Histogram[bucket-1]++
	}

	stats.Count = len(reviews)
	stats.Average = sum / float64(len(reviews))
	return stats
}

// SortMode selects the ordering of a review list.
type SortMode string

// SortMode values.
const (
	SortRecent  SortMode = "recent"
	SortOldest  SortMode = "oldest"
	SortHighest SortMode = "highest"
	SortLowest  SortMode = "lowest"
	SortHelpful SortMode = "helpful"
)

// Valid reports whether the mode is a recognized value.
func (m SortMode) Valid() bool {
	switch m {
	case SortRecent, SortOldest, SortHighest, SortLowest, SortHelpful:
		return true
	default:
		return false
	}
}

// ParseSortMode converts a query value to a SortMode. An empty value means SortRecent.
func ParseSortMode(s string) (SortMode, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return SortRecent, true
	}
	m := SortMode(s)
	return m, m.Valid()
}

// SortReviews returns a sorted copy of reviews. The sort is stable, so ties keep their
// prior relative order. An unknown mode returns the copy unsorted.
func SortReviews(reviews []Review, mode SortMode) []Review {
	sorted := slices.Clone(reviews)

	var less func(a, b Review) int
	switch mode {
	case SortRecent:
		less = func(a, b Review) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case SortOldest:
		less = func(a, b Review) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortHighest:
		less = func(a, b Review) int { return cmp.Compare(b.Rating, a.Rating) }
	case SortLowest:
		less = func(a, b Review) int { return cmp.Compare(a.Rating, b.Rating) }
	case SortHelpful:
		less = func(a, b Review) int { return cmp.Compare(b.HelpfulCount, a.HelpfulCount) }
	default:
		return sorted
	}

	slices.SortStableFunc(sorted, less)
	return sorted
}
