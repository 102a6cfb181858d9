package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/cinevibe/cinevibe-server/internal/auth"
	"github.com/cinevibe/cinevibe-server/internal/config"
	httpserver "github.com/cinevibe/cinevibe-server/internal/http"
	"github.com/cinevibe/cinevibe-server/internal/logger"
	"github.com/cinevibe/cinevibe-server/internal/media"
	"github.com/cinevibe/cinevibe-server/internal/repository"
	"github.com/cinevibe/cinevibe-server/internal/service"
	"github.com/cinevibe/cinevibe-server/internal/store"
	"github.com/cinevibe/cinevibe-server/migrations"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.New("server")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	if err := runMigrations(cfg.DBURL); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	st, err := store.New(dbCtx, cfg.DBURL, store.Options{
		MaxConns:        int32(cfg.DBMaxConns),
		MinConns:        int32(cfg.DBMinConns),
		MaxConnIdleTime: time.Duration(cfg.DBMaxIdleSecs) * time.Second,
		MaxConnLifetime: time.Duration(cfg.DBMaxLifeSecs) * time.Second,
		ConnTimeout:     time.Duration(cfg.DBConnTimeoutSecs) * time.Second,
		Logger:          log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	defer st.Close()

	mediaStore, err := media.NewStore(cfg.MediaDir, cfg.MediaMaxBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("init media store")
	}

	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTDuration)
	if err != nil {
		log.Fatal().Err(err).Msg("init token issuer")
	}

	repo := repository.New(st)
	authSvc := service.NewAuthService(repo.Users, mediaStore, log)
	catalogSvc := service.NewCatalogService(repo.Movies, mediaStore, log)
	reviewSvc := service.NewReviewService(repo.Users, repo.Movies, repo.Reviews, mediaStore, log)

	server := httpserver.New(cfg, st, authSvc, catalogSvc, reviewSvc, mediaStore, tokens, log)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	log.Info().Str("port", cfg.Port).Msg("server started")

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("server error")
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
}

func runMigrations(dbURL string) error {
	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		return err
	}
	defer db.Close()
	return migrations.Migrate(db)
}
