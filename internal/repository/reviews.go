package repository

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinevibe/cinevibe-server/internal/domain"
)

// ReviewsRepository provides persistence helpers for the review ledger.
// Every mutation runs on a single transaction that also recomputes the
// movie's aggregate, so readers never observe a stale average.
type ReviewsRepository struct {
	pool *pgxpool.Pool
}

const reviewColumns = `id, user_id, movie_id, rating, title, body, media_ref, created_at, updated_at`

// ReviewUpsertParams captures the payload required to upsert a review.
type ReviewUpsertParams struct {
	UserID   string
	MovieID  string
	Rating   int
	Title    *string
	Body     *string
	MediaRef *string
}

// Upsert inserts or overwrites the review for (UserID, MovieID) and
// indicates whether it was newly created. The uniqueness constraint on the
// pair makes concurrent first-submissions converge on a single row. The
// movie aggregate is recomputed before the transaction commits.
//
// Unknown user or movie ids surface as domain.ErrNotFound via the foreign
// key constraints.
func (r *ReviewsRepository) Upsert(ctx context.Context, params ReviewUpsertParams) (domain.Review, bool, error) {
	const query = `
        INSERT INTO reviews (user_id, movie_id, rating, title, body, media_ref)
        VALUES ($1,$2,$3,$4,$5,$6)
        ON CONFLICT (user_id, movie_id)
        DO UPDATE SET rating = EXCLUDED.rating,
                      title = EXCLUDED.title,
                      body = EXCLUDED.body,
                      media_ref = EXCLUDED.media_ref,
                      updated_at = now()
        RETURNING ` + reviewColumns + `, (xmax = 0) AS inserted
    `

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Review{}, false, fmt.Errorf("begin upsert review: %w", err)
	}
	defer tx.Rollback(ctx)

	var review domain.Review
	var inserted bool
	err = tx.QueryRow(ctx, query,
		params.UserID, params.MovieID, params.Rating, params.Title, params.Body, params.MediaRef,
	).Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.Title,
		&review.Body,
		&review.MediaRef,
		&review.CreatedAt,
		&review.UpdatedAt,
		&inserted,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Review{}, false, fmt.Errorf("%w: user or movie", domain.ErrNotFound)
		}
		return domain.Review{}, false, fmt.Errorf("upsert review: %w", err)
	}

	if err := recomputeAggregate(ctx, tx, params.MovieID); err != nil {
		return domain.Review{}, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Review{}, false, fmt.Errorf("commit upsert review: %w", err)
	}
	return review, inserted, nil
}

// GetByID fetches a review by its identifier.
func (r *ReviewsRepository) GetByID(ctx context.Context, id string) (domain.Review, error) {
	const query = `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Review{}, fmt.Errorf("%w: review", domain.ErrNotFound)
		}
		return domain.Review{}, fmt.Errorf("fetch review: %w", err)
	}
	return review, nil
}

// Delete removes a review and recomputes its movie's aggregate in the same
// transaction. The removed review is returned so the caller can release
// any attached media.
func (r *ReviewsRepository) Delete(ctx context.Context, id string) (domain.Review, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Review{}, fmt.Errorf("begin delete review: %w", err)
	}
	defer tx.Rollback(ctx)

	const query = `DELETE FROM reviews WHERE id = $1 RETURNING ` + reviewColumns
	review, err := scanReview(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.Review{}, fmt.Errorf("%w: review", domain.ErrNotFound)
		}
		return domain.Review{}, fmt.Errorf("delete review: %w", err)
	}

	if err := recomputeAggregate(ctx, tx, review.MovieID); err != nil {
		return domain.Review{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Review{}, fmt.Errorf("commit delete review: %w", err)
	}
	return review, nil
}

// ReviewCursor allows stable pagination by created_at/id.
type ReviewCursor struct {
	CreatedAt time.Time `json:"createdAt"`
	ID        string    `json:"id"`
}

// ReviewListResult returns one page of a movie's reviews, newest first.
type ReviewListResult struct {
	Items      []domain.Review
	NextCursor *string
}

// ListForMovie returns reviews for a movie ordered by creation time
// descending. The returned cursor restarts the listing at the next page.
func (r *ReviewsRepository) ListForMovie(ctx context.Context, movieID string, limit int, cursor *ReviewCursor) (ReviewListResult, error) {
	if limit <= 0 {
		limit = 20
	} else if limit > 100 {
		limit = 100
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE movie_id = $1`
	args := []interface{}{movieID}
	if cursor != nil {
		query += ` AND (created_at, id) < ($2, $3)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT %d`, limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return ReviewListResult{}, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	items := make([]domain.Review, 0)
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return ReviewListResult{}, fmt.Errorf("scan review: %w", err)
		}
		items = append(items, review)
	}
	if err := rows.Err(); err != nil {
		return ReviewListResult{}, fmt.Errorf("list reviews: %w", err)
	}

	var nextCursor *string
	if len(items) == limit {
		last := items[len(items)-1]
		token, err := encodeReviewCursor(ReviewCursor{CreatedAt: last.CreatedAt, ID: last.ID})
		if err != nil {
			return ReviewListResult{}, err
		}
		nextCursor = &token
	}

	return ReviewListResult{Items: items, NextCursor: nextCursor}, nil
}

// Aggregate returns the maintained rating average and count for a movie.
// A movie with no reviews yields the zero aggregate (count 0), not an error.
func (r *ReviewsRepository) Aggregate(ctx context.Context, movieID string) (domain.RatingAggregate, error) {
	const query = `SELECT average, count FROM movie_aggregates WHERE movie_id = $1`

	var agg domain.RatingAggregate
	err := r.pool.QueryRow(ctx, query, movieID).Scan(&agg.Average, &agg.Count)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.RatingAggregate{}, nil
		}
		return domain.RatingAggregate{}, fmt.Errorf("fetch aggregate: %w", err)
	}
	return agg, nil
}

// recomputeAggregate derives the aggregate row for movieID fresh from the
// current review set. Recompute-on-write keeps the stored average free of
// incremental drift.
func recomputeAggregate(ctx context.Context, tx pgx.Tx, movieID string) error {
	const query = `
        INSERT INTO movie_aggregates (movie_id, average, count)
        SELECT $1, COALESCE(AVG(rating)::real, 0), COUNT(*)
        FROM reviews
        WHERE movie_id = $1
        ON CONFLICT (movie_id)
        DO UPDATE SET average = EXCLUDED.average, count = EXCLUDED.count
    `
	if _, err := tx.Exec(ctx, query, movieID); err != nil {
		return fmt.Errorf("recompute aggregate: %w", err)
	}
	return nil
}

func scanReview(row pgx.Row) (domain.Review, error) {
	var review domain.Review
	err := row.Scan(
		&review.ID,
		&review.UserID,
		&review.MovieID,
		&review.Rating,
		&review.Title,
		&review.Body,
		&review.MediaRef,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return domain.Review{}, err
	}
	return review, nil
}

func encodeReviewCursor(c ReviewCursor) (string, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// DecodeReviewCursor parses a cursor token into a ReviewCursor.
func DecodeReviewCursor(token string) (*ReviewCursor, error) {
	if token == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid cursor", domain.ErrInvalidInput)
	}
	var cursor ReviewCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("%w: invalid cursor payload", domain.ErrInvalidInput)
	}
	return &cursor, nil
}
