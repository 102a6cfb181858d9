package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cinevibe/cinevibe-server/internal/auth"
	"github.com/cinevibe/cinevibe-server/internal/config"
	"github.com/cinevibe/cinevibe-server/internal/logger"
	"github.com/cinevibe/cinevibe-server/internal/media"
	"github.com/cinevibe/cinevibe-server/internal/service"
	"github.com/cinevibe/cinevibe-server/internal/store"
)

// Server wires HTTP routing, middleware, and handlers.
type Server struct {
	cfg     config.Config
	store   *store.Store
	auth    *service.AuthService
	catalog *service.CatalogService
	reviews *service.ReviewService
	media   *media.Store
	tokens  *auth.TokenIssuer
	logger  *logger.Logger
	router  chi.Router
	httpSrv *http.Server
}

// New constructs the HTTP server with base middleware and routes.
func New(cfg config.Config, st *store.Store, authSvc *service.AuthService, catalog *service.CatalogService, reviews *service.ReviewService, mediaStore *media.Store, tokens *auth.TokenIssuer, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	s := &Server{
		cfg:     cfg,
		store:   st,
		auth:    authSvc,
		catalog: catalog,
		reviews: reviews,
		media:   mediaStore,
		tokens:  tokens,
		logger:  log,
		router:  r,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealthz)

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.With(s.requireUser).Delete("/account", s.handleDeleteAccount)
	})

	s.router.Route("/movies", func(r chi.Router) {
		r.Get("/", s.handleListMovies)
		r.Post("/", s.handleCreateMovie)
		r.Route("/{movieID}", func(r chi.Router) {
			r.Get("/", s.handleGetMovie)
			r.Delete("/", s.handleDeleteMovie)
			r.Get("/rating", s.handleGetRating)
			r.Get("/reviews", s.handleListReviews)
			r.With(s.requireUser).Post("/reviews", s.handleSubmitReview)
		})
	})

	s.router.With(s.requireUser).Delete("/reviews/{reviewID}", s.handleDeleteReview)

	s.router.Route("/media", func(r chi.Router) {
		r.Get("/{ref}", s.handleGetMedia)
		r.With(s.requireUser).Post("/", s.handleUploadMedia)
	})
}

// Start boots the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Start(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSecs) * time.Second,
		IdleTimeout:  time.Duration(s.cfg.IdleTimeoutSecs) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpSrv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.store.HealthCheck(ctx); err != nil {
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
