// Package logger wraps zerolog.Logger with the constructors and
// context helpers used across the service. Embedding zerolog.Logger
// keeps the full zerolog API available on *Logger.
package logger

import (
	"context"
	"net/http"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a thin wrapper around zerolog.Logger.
type Logger struct {
	zerolog.Logger
}

// New constructs a JSON logger writing to stdout, tagged with the given
// role label (e.g. "server", "seed") and a timestamp on every entry.
func New(role string) *Logger {
	l := zerolog.New(os.Stdout).With().
		Str("role", role).
		Timestamp().
		Logger()
	return &Logger{l}
}

// Nop returns a *Logger that discards all output. Intended for tests.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// FromContext returns the logger attached to ctx by zerolog's WithContext,
// falling back to zerolog's global logger, so it never returns nil.
func FromContext(ctx context.Context) *Logger {
	return &Logger{*log.Ctx(ctx)}
}

// FromRequest returns the request-scoped logger attached by middleware.
func FromRequest(r *http.Request) *Logger {
	return FromContext(r.Context())
}
