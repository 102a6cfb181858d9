package service

import (
	"context"
	"fmt"

	"github.com/cinevibe/cinevibe-server/internal/domain"
	"github.com/cinevibe/cinevibe-server/internal/logger"
	"github.com/cinevibe/cinevibe-server/internal/repository"
)

// Rating bounds and text ceilings. Fixed here rather than configured; the
// 1-5 integer scale matches the stored CHECK constraint.
const (
	RatingMin = 1
	RatingMax = 5

	maxReviewTitleLen = 200
	maxReviewBodyLen  = 10000
)

// ReviewService is the review ledger: one review per (user, movie) pair,
// with the movie aggregate recomputed on every mutation.
type ReviewService struct {
	users   UserStore
	movies  MovieStore
	reviews ReviewStore
	media   MediaStore
	logger  *logger.Logger
}

// SubmitParams carries one review submission.
type SubmitParams struct {
	UserID   string
	MovieID  string
	Rating   int
	Title    *string
	Body     *string
	MediaRef *string
}

// NewReviewService constructs a ReviewService.
func NewReviewService(users UserStore, movies MovieStore, reviews ReviewStore, media MediaStore, log *logger.Logger) *ReviewService {
	if log == nil {
		log = logger.Nop()
	}
	return &ReviewService{users: users, movies: movies, reviews: reviews, media: media, logger: log}
}

// Submit creates or overwrites the caller's review for a movie. A repeat
// submission for the same (user, movie) pair updates the existing review
// in place, preserving its identifier. The movie aggregate is recomputed
// before Submit returns.
//
// The media reference, when present, must already resolve in the media
// store: bytes are written before any review links them.
func (s *ReviewService) Submit(ctx context.Context, params SubmitParams) (domain.Review, bool, error) {
	if params.Rating < RatingMin || params.Rating > RatingMax {
		return domain.Review{}, false, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrInvalidInput, RatingMin, RatingMax)
	}
	params.Title = normalizeOptional(params.Title)
	params.Body = normalizeOptional(params.Body)
	if params.Title != nil && len(*params.Title) > maxReviewTitleLen {
		return domain.Review{}, false, fmt.Errorf("%w: review title exceeds %d characters", domain.ErrInvalidInput, maxReviewTitleLen)
	}
	if params.Body != nil && len(*params.Body) > maxReviewBodyLen {
		return domain.Review{}, false, fmt.Errorf("%w: review body exceeds %d characters", domain.ErrInvalidInput, maxReviewBodyLen)
	}

	if _, err := s.users.GetByID(ctx, params.UserID); err != nil {
		return domain.Review{}, false, err
	}
	if _, err := s.movies.GetByID(ctx, params.MovieID); err != nil {
		return domain.Review{}, false, err
	}
	if params.MediaRef != nil && !s.media.Exists(*params.MediaRef) {
		return domain.Review{}, false, fmt.Errorf("%w: media reference does not resolve", domain.ErrNotFound)
	}

	review, created, err := s.reviews.Upsert(ctx, repository.ReviewUpsertParams{
		UserID:   params.UserID,
		MovieID:  params.MovieID,
		Rating:   params.Rating,
		Title:    params.Title,
		Body:     params.Body,
		MediaRef: params.MediaRef,
	})
	if err != nil {
		return domain.Review{}, false, err
	}

	logger.FromContext(ctx).Info().
		Str("review_id", review.ID).
		Str("movie_id", review.MovieID).
		Int("rating", review.Rating).
		Bool("created", created).
		Msg("review submitted")
	return review, created, nil
}

// Delete removes a review. Only the author may delete it; anyone else
// gets domain.ErrForbidden and the review and aggregate stay untouched.
// An attached media blob is released best-effort after the delete commits.
func (s *ReviewService) Delete(ctx context.Context, reviewID, requestingUserID string) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != requestingUserID {
		return fmt.Errorf("%w: review belongs to another user", domain.ErrForbidden)
	}

	deleted, err := s.reviews.Delete(ctx, reviewID)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	if deleted.MediaRef != nil {
		if err := s.media.Delete(*deleted.MediaRef); err != nil {
			log.Warn().Err(err).Str("media_ref", *deleted.MediaRef).Msg("orphaned media cleanup failed")
		}
	}

	log.Info().Str("review_id", reviewID).Str("movie_id", deleted.MovieID).Msg("review deleted")
	return nil
}

// ListForMovie returns one page of a movie's reviews, most recent first.
// cursorToken restarts the listing where a previous page left off.
func (s *ReviewService) ListForMovie(ctx context.Context, movieID string, limit int, cursorToken string) (repository.ReviewListResult, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return repository.ReviewListResult{}, err
	}
	cursor, err := repository.DecodeReviewCursor(cursorToken)
	if err != nil {
		return repository.ReviewListResult{}, err
	}
	return s.reviews.ListForMovie(ctx, movieID, limit, cursor)
}

// AggregateFor returns the movie's derived rating. With zero reviews the
// count is 0 and the average carries no meaning; that state is a value,
// not an error.
func (s *ReviewService) AggregateFor(ctx context.Context, movieID string) (domain.RatingAggregate, error) {
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return domain.RatingAggregate{}, err
	}
	return s.reviews.Aggregate(ctx, movieID)
}
