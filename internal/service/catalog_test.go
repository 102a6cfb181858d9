package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinevibe/cinevibe-server/internal/domain"
	"github.com/cinevibe/cinevibe-server/internal/logger"
)

func newCatalogFixture() (*CatalogService, *fakeMovieStore, *fakeReviewStore, *fakeMedia) {
	reviews := newFakeReviewStore()
	movies := newFakeMovieStore(reviews)
	media := newFakeMedia()
	return NewCatalogService(movies, media, logger.Nop()), movies, reviews, media
}

func TestAddMovieAllowsDuplicateTitles(t *testing.T) {
	svc, _, _, _ := newCatalogFixture()
	ctx := context.Background()

	first, err := svc.AddMovie(ctx, "Dune", nil, nil)
	require.NoError(t, err)
	second, err := svc.AddMovie(ctx, "Dune", nil, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
}

func TestAddMovieValidation(t *testing.T) {
	svc, _, _, _ := newCatalogFixture()
	ctx := context.Background()

	_, err := svc.AddMovie(ctx, "   ", nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.AddMovie(ctx, strings.Repeat("x", maxMovieTitleLen+1), nil, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	badYear := 1500
	_, err = svc.AddMovie(ctx, "Old", &badYear, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRemoveMovieRejectsWhileReviewed(t *testing.T) {
	svc, movies, reviews, _ := newCatalogFixture()
	ctx := context.Background()

	movie, err := svc.AddMovie(ctx, "Dune", nil, nil)
	require.NoError(t, err)
	_, _, err = reviews.Upsert(ctx, reviewParams("user-1", movie.ID, 4, nil))
	require.NoError(t, err)

	err = svc.RemoveMovie(ctx, movie.ID, false)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = movies.GetByID(ctx, movie.ID)
	require.NoError(t, err)
}

func TestRemoveMovieCascade(t *testing.T) {
	svc, movies, reviews, media := newCatalogFixture()
	ctx := context.Background()

	movie, err := svc.AddMovie(ctx, "Dune", nil, nil)
	require.NoError(t, err)
	ref := "blob-1"
	media.blobs[ref] = struct{}{}
	_, _, err = reviews.Upsert(ctx, reviewParams("user-1", movie.ID, 4, &ref))
	require.NoError(t, err)

	require.NoError(t, svc.RemoveMovie(ctx, movie.ID, true))

	_, err = movies.GetByID(ctx, movie.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, reviews.byPair)
	assert.False(t, media.Exists(ref))
}

func TestRemoveMovieNotFound(t *testing.T) {
	svc, _, _, _ := newCatalogFixture()

	err := svc.RemoveMovie(context.Background(), "nope", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
