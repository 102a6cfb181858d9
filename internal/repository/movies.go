package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinevibe/cinevibe-server/internal/domain"
)

// MoviesRepository provides persistence helpers for catalog entries.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `id, title, release_year, genre, created_at, updated_at`

// MovieCreateParams bundles the fields required to create a movie.
// Duplicate titles are allowed and produce distinct rows.
type MovieCreateParams struct {
	Title       string
	ReleaseYear *int
	Genre       *string
}

// Create inserts a new movie row and returns the stored entity.
func (r *MoviesRepository) Create(ctx context.Context, params MovieCreateParams) (domain.Movie, error) {
	const query = `
        INSERT INTO movies (title, release_year, genre)
        VALUES ($1,$2,$3)
        RETURNING ` + movieColumns

	row := r.pool.QueryRow(ctx, query, params.Title, params.ReleaseYear, params.Genre)
	movie, err := scanMovie(row)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("create movie: %w", err)
	}
	return movie, nil
}

// GetByID fetches a movie by its identifier.
func (r *MoviesRepository) GetByID(ctx context.Context, id string) (domain.Movie, error) {
	const query = `SELECT ` + movieColumns + ` FROM movies WHERE id = $1`
	movie, err := scanMovie(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Movie{}, fmt.Errorf("%w: movie", domain.ErrNotFound)
		}
		return domain.Movie{}, fmt.Errorf("fetch movie: %w", err)
	}
	return movie, nil
}

// List returns all movies ordered by title, the listing order of the
// review-submission form.
func (r *MoviesRepository) List(ctx context.Context) ([]domain.Movie, error) {
	const query = `SELECT ` + movieColumns + ` FROM movies ORDER BY title, created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

// Delete removes a movie. While reviews still reference it the call fails
// with domain.ErrConflict unless cascade is set, in which case dependent
// reviews are removed first inside the same transaction. Returns the media
// references of any cascaded reviews.
func (r *MoviesRepository) Delete(ctx context.Context, id string, cascade bool) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin delete movie: %w", err)
	}
	defer tx.Rollback(ctx)

	var reviewCount int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE movie_id = $1`, id).Scan(&reviewCount); err != nil {
		return nil, fmt.Errorf("count movie reviews: %w", err)
	}

	var mediaRefs []string
	if reviewCount > 0 {
		if !cascade {
			return nil, fmt.Errorf("%w: movie still has %d reviews", domain.ErrConflict, reviewCount)
		}
		rows, err := tx.Query(ctx, `DELETE FROM reviews WHERE movie_id = $1 RETURNING media_ref`, id)
		if err != nil {
			return nil, fmt.Errorf("cascade delete reviews: %w", err)
		}
		for rows.Next() {
			var mediaRef *string
			if err := rows.Scan(&mediaRef); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scan cascaded review: %w", err)
			}
			if mediaRef != nil {
				mediaRefs = append(mediaRefs, *mediaRef)
			}
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("cascade delete reviews: %w", err)
		}
	}

	// movie_aggregates rows go away with the movie via ON DELETE CASCADE.
	tag, err := tx.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("delete movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: movie", domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit delete movie: %w", err)
	}
	return mediaRefs, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.Title,
		&movie.ReleaseYear,
		&movie.Genre,
		&movie.CreatedAt,
		&movie.UpdatedAt,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}
