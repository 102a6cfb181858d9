package domain

import "time"

// Movie represents the canonical movie entity in the catalog.
// Duplicate titles are permitted; identity is the id alone.
type Movie struct {
	ID          string
	Title       string
	ReleaseYear *int
	Genre       *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
