package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cinevibe/cinevibe-server/internal/domain"
	"github.com/cinevibe/cinevibe-server/internal/logger"
	"github.com/cinevibe/cinevibe-server/internal/repository"
)

const maxMovieTitleLen = 256

// CatalogService manages the set of reviewable movies.
type CatalogService struct {
	movies MovieStore
	media  MediaStore
	logger *logger.Logger
}

// NewCatalogService constructs a CatalogService. media is used to release
// review blobs when a cascading movie deletion removes reviews.
func NewCatalogService(movies MovieStore, media MediaStore, log *logger.Logger) *CatalogService {
	if log == nil {
		log = logger.Nop()
	}
	return &CatalogService{movies: movies, media: media, logger: log}
}

// AddMovie creates a catalog entry. Duplicate titles are permitted and
// yield distinct ids.
func (s *CatalogService) AddMovie(ctx context.Context, title string, releaseYear *int, genre *string) (domain.Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Movie{}, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if len(title) > maxMovieTitleLen {
		return domain.Movie{}, fmt.Errorf("%w: title exceeds %d characters", domain.ErrInvalidInput, maxMovieTitleLen)
	}
	if releaseYear != nil && (*releaseYear < 1888 || *releaseYear > time.Now().Year()+1) {
		return domain.Movie{}, fmt.Errorf("%w: implausible release year", domain.ErrInvalidInput)
	}

	movie, err := s.movies.Create(ctx, repository.MovieCreateParams{
		Title:       title,
		ReleaseYear: releaseYear,
		Genre:       normalizeOptional(genre),
	})
	if err != nil {
		return domain.Movie{}, err
	}

	logger.FromContext(ctx).Info().Str("movie_id", movie.ID).Str("title", movie.Title).Msg("movie added")
	return movie, nil
}

// GetMovie fetches a catalog entry by id.
func (s *CatalogService) GetMovie(ctx context.Context, id string) (domain.Movie, error) {
	return s.movies.GetByID(ctx, id)
}

// ListMovies returns the catalog ordered by title.
func (s *CatalogService) ListMovies(ctx context.Context) ([]domain.Movie, error) {
	return s.movies.List(ctx)
}

// RemoveMovie deletes a catalog entry. While reviews reference the movie
// the call fails with domain.ErrConflict unless cascade is set; cascading
// removes the dependent reviews first and releases their media blobs.
func (s *CatalogService) RemoveMovie(ctx context.Context, id string, cascade bool) error {
	mediaRefs, err := s.movies.Delete(ctx, id, cascade)
	if err != nil {
		return err
	}

	log := logger.FromContext(ctx)
	for _, ref := range mediaRefs {
		if err := s.media.Delete(ref); err != nil {
			log.Warn().Err(err).Str("media_ref", ref).Msg("orphaned media cleanup failed")
		}
	}

	log.Info().Str("movie_id", id).Bool("cascade", cascade).Msg("movie removed")
	return nil
}

func normalizeOptional(ptr *string) *string {
	if ptr == nil {
		return nil
	}
	val := strings.TrimSpace(*ptr)
	if val == "" {
		return nil
	}
	return &val
}
