// Package service implements the application core: credential handling,
// the movie catalog, and the review ledger. Services validate input,
// enforce ownership, and translate between transport and storage; the
// one-review-per-user-per-movie invariant itself lives in the store.
package service

import (
	"context"

	"github.com/cinevibe/cinevibe-server/internal/domain"
	"github.com/cinevibe/cinevibe-server/internal/repository"
)

// UserStore is the persistence surface the auth service depends on.
type UserStore interface {
	Create(ctx context.Context, username, passwordHash string) (domain.User, error)
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByUsername(ctx context.Context, username string) (domain.User, error)
	Delete(ctx context.Context, id string) ([]string, error)
}

// MovieStore is the persistence surface the catalog service depends on.
type MovieStore interface {
	Create(ctx context.Context, params repository.MovieCreateParams) (domain.Movie, error)
	GetByID(ctx context.Context, id string) (domain.Movie, error)
	List(ctx context.Context) ([]domain.Movie, error)
	Delete(ctx context.Context, id string, cascade bool) ([]string, error)
}

// ReviewStore is the persistence surface the review service depends on.
type ReviewStore interface {
	Upsert(ctx context.Context, params repository.ReviewUpsertParams) (domain.Review, bool, error)
	GetByID(ctx context.Context, id string) (domain.Review, error)
	Delete(ctx context.Context, id string) (domain.Review, error)
	ListForMovie(ctx context.Context, movieID string, limit int, cursor *repository.ReviewCursor) (repository.ReviewListResult, error)
	Aggregate(ctx context.Context, movieID string) (domain.RatingAggregate, error)
}

// MediaStore is the blob surface used to validate and release review media.
type MediaStore interface {
	Exists(ref string) bool
	Delete(ref string) error
}
