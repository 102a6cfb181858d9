// Command seed initializes the database schema and loads the demo users,
// films, and reviews so a fresh install has something to show. It is a
// one-shot setup tool, not part of the runtime contract, and is safe to
// re-run: existing rows are left alone.
package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/cinevibe/cinevibe-server/internal/auth"
	"github.com/cinevibe/cinevibe-server/internal/logger"
	"github.com/cinevibe/cinevibe-server/migrations"
)

var demoUsers = []string{"alice", "bob", "charlie"}

var demoFilms = []string{
	"The Matrix",
	"Inception",
	"Interstellar",
	"The Shawshank Redemption",
	"Pulp Fiction",
	"The Dark Knight",
	"Forrest Gump",
	"Fight Club",
	"The Godfather",
	"Goodfellas",
}

type demoReview struct {
	user   string
	film   string
	rating int
	title  string
	body   string
}

var demoReviews = []demoReview{
	{
		user:   "alice",
		film:   "The Matrix",
		rating: 5,
		title:  "Mind-bending masterpiece",
		body:   "The Matrix redefined sci-fi cinema. The action sequences are groundbreaking and the philosophical themes are thought-provoking.",
	},
	{
		user:   "bob",
		film:   "Inception",
		rating: 5,
		title:  "Nolan's best work",
		body:   "A visually stunning journey through dreams within dreams. Hans Zimmer's score elevates every scene.",
	},
	{
		user:   "charlie",
		film:   "Interstellar",
		rating: 4,
		title:  "Space epic done right",
		body:   "Hard science with emotional storytelling. The ending is both confusing and beautiful.",
	},
}

// Every demo account shares this password, matching what the docs advertise.
const demoPassword = "Password123"

func main() {
	log := logger.New("seed")

	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		log.Fatal().Msg("DB_URL is required")
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := migrations.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	for _, username := range demoUsers {
		hash, err := auth.HashPassword(demoPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("hash demo password")
		}
		_, err = db.ExecContext(ctx, `
            INSERT INTO users (username, password_hash)
            VALUES ($1,$2)
            ON CONFLICT (username) DO NOTHING
        `, username, hash)
		if err != nil {
			log.Fatal().Err(err).Str("username", username).Msg("seed user")
		}
	}

	for _, title := range demoFilms {
		_, err := db.ExecContext(ctx, `
            INSERT INTO movies (title)
            SELECT $1
            WHERE NOT EXISTS (SELECT 1 FROM movies WHERE title = $1)
        `, title)
		if err != nil {
			log.Fatal().Err(err).Str("title", title).Msg("seed movie")
		}
	}

	for _, review := range demoReviews {
		_, err := db.ExecContext(ctx, `
            INSERT INTO reviews (user_id, movie_id, rating, title, body)
            SELECT u.id, m.id, $3, $4, $5
            FROM users u, movies m
            WHERE u.username = $1 AND m.title = $2
            ON CONFLICT (user_id, movie_id) DO NOTHING
        `, review.user, review.film, review.rating, review.title, review.body)
		if err != nil {
			log.Fatal().Err(err).Str("film", review.film).Msg("seed review")
		}
		_, err = db.ExecContext(ctx, `
            INSERT INTO movie_aggregates (movie_id, average, count)
            SELECT m.id, COALESCE(AVG(r.rating)::real, 0), COUNT(r.*)
            FROM movies m
            LEFT JOIN reviews r ON r.movie_id = m.id
            WHERE m.title = $1
            GROUP BY m.id
            ON CONFLICT (movie_id) DO UPDATE SET average = EXCLUDED.average, count = EXCLUDED.count
        `, review.film)
		if err != nil {
			log.Fatal().Err(err).Str("film", review.film).Msg("seed aggregate")
		}
	}

	log.Info().Msg("database seeded")
}
