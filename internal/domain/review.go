package domain

import "time"

// Review is a single user's review of a movie. At most one review exists
// per (UserID, MovieID) pair; resubmitting mutates the existing row and
// preserves its identifier.
type Review struct {
	ID        string
	UserID    string
	MovieID   string
	Rating    int
	Title     *string
	Body      *string
	MediaRef  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RatingAggregate is the derived mean and count of all ratings for a movie.
// Count 0 means "no rating yet"; Average is meaningless in that state.
type RatingAggregate struct {
	Average float32
	Count   int64
}
