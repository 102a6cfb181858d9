package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/cinevibe/cinevibe-server/internal/auth"
	"github.com/cinevibe/cinevibe-server/internal/logger"
)

type contextKey string

// userIDKey carries the authenticated user id resolved by requireUser.
const userIDKey contextKey = "userID"

// requestLogger attaches a request-scoped zerolog logger to the context
// and emits one access-log entry per request.
func requestLogger(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqLog := log.With().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Logger()
			ctx := reqLog.WithContext(r.Context())

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r.WithContext(ctx))
			reqLog.Info().
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Msg("request")
		})
	}
}

// requireUser is the auth gateway: it resolves the bearer JWT to a user id
// and stores it in the request context. Handlers then pass that explicit
// id into every service call.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ParseBearer(r.Header.Get("Authorization"))
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}
		userID, err := s.tokens.Parse(token)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

// userIDFrom returns the authenticated user id stored by requireUser.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// verifyAdmin checks the static bearer token guarding catalog mutations.
func (s *Server) verifyAdmin(r *http.Request) bool {
	token, err := auth.ParseBearer(r.Header.Get("Authorization"))
	if err != nil {
		return false
	}
	return token == s.cfg.AdminToken
}
