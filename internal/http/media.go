package httpserver

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type mediaUploadResponse struct {
	Ref string `json:"ref"`
}

// handleUploadMedia stores raw image bytes and returns the opaque
// reference a review submission can link. Bytes land in the media store
// before any review row can reference them.
func (s *Server) handleUploadMedia(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MediaMaxBytes+1)
	defer r.Body.Close()

	data, err := io.ReadAll(r.Body)
	if err != nil {
		s.respondError(w, http.StatusRequestEntityTooLarge, "VALIDATION_ERROR", "media exceeds the configured size ceiling")
		return
	}

	ref, err := s.media.Put(data, r.Header.Get("Content-Type"))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, mediaUploadResponse{Ref: ref})
}

func (s *Server) handleGetMedia(w http.ResponseWriter, r *http.Request) {
	data, contentType, err := s.media.Get(chi.URLParam(r, "ref"))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
