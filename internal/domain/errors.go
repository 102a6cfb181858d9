package domain

import "errors"

// Error kinds surfaced to the web layer. Services and repositories wrap
// these so callers can classify failures with errors.Is without depending
// on storage details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)
