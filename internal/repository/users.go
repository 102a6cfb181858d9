package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cinevibe/cinevibe-server/internal/domain"
)

// UsersRepository provides persistence helpers for user accounts.
type UsersRepository struct {
	pool *pgxpool.Pool
}

const userColumns = `id, username, password_hash, created_at`

// Create inserts a new user row. Username uniqueness is enforced by the
// store; a duplicate surfaces as domain.ErrConflict.
func (r *UsersRepository) Create(ctx context.Context, username, passwordHash string) (domain.User, error) {
	const query = `
        INSERT INTO users (username, password_hash)
        VALUES ($1,$2)
        RETURNING ` + userColumns

	var user domain.User
	err := r.pool.QueryRow(ctx, query, username, passwordHash).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("%w: username %q already taken", domain.ErrConflict, username)
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// GetByID fetches a user by identifier.
func (r *UsersRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

// GetByUsername fetches a user by username.
func (r *UsersRepository) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return r.scanOne(ctx, query, username)
}

func (r *UsersRepository) scanOne(ctx context.Context, query string, arg any) (domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.User{}, fmt.Errorf("%w: user", domain.ErrNotFound)
		}
		return domain.User{}, fmt.Errorf("fetch user: %w", err)
	}
	return user, nil
}

// Delete removes a user and cascades into the review ledger: the user's
// reviews are deleted and every touched movie aggregate is recomputed in
// the same transaction. Returns the media references of the removed
// reviews so the caller can clean up blobs out of band.
func (r *UsersRepository) Delete(ctx context.Context, id string) ([]string, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin delete user: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `DELETE FROM reviews WHERE user_id = $1 RETURNING movie_id, media_ref`, id)
	if err != nil {
		return nil, fmt.Errorf("delete user reviews: %w", err)
	}

	movieIDs := make(map[string]struct{})
	var mediaRefs []string
	for rows.Next() {
		var movieID string
		var mediaRef *string
		if err := rows.Scan(&movieID, &mediaRef); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan deleted review: %w", err)
		}
		movieIDs[movieID] = struct{}{}
		if mediaRef != nil {
			mediaRefs = append(mediaRefs, *mediaRef)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("delete user reviews: %w", err)
	}

	for movieID := range movieIDs {
		if err := recomputeAggregate(ctx, tx, movieID); err != nil {
			return nil, err
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit delete user: %w", err)
	}
	return mediaRefs, nil
}
