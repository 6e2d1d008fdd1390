package domain

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// Book is identified by a caller-supplied numeric id. A given author can
// publish a title only once.
type Book struct {
	ID             int64
	Title          string
	Content        string
	AuthorUsername string
	Reviews        []Review // most recent first
	CreatedAt      time.Time
}

// AverageRating returns the mean of all review ratings, or 0 when unrated.
func (b *Book) AverageRating() float64 {
	if len(b.Reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range b.Reviews {
		sum += r.Rating
	}
	return float64(sum) / float64(len(b.Reviews))
}

// Review is a single rating left by a user on a book.
type Review struct {
	ID               string
	BookID           int64
	ReviewerUsername string
	Rating           int
	Comment          string
	Timestamp        time.Time
}

// ValidRating reports whether r lies in the accepted 1..5 range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
