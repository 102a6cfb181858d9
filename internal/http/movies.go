package httpserver

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinevibe/cinevibe-server/internal/domain"
)

type movieCreateRequest struct {
	Title       string  `json:"title"`
	ReleaseYear *int    `json:"releaseYear"`
	Genre       *string `json:"genre"`
}

type movieResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	ReleaseYear *int      `json:"releaseYear,omitempty"`
	Genre       *string   `json:"genre,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type movieListResponse struct {
	Items []movieResponse `json:"items"`
}

type ratingAggregateResponse struct {
	Average *float32 `json:"average"`
	Count   int64    `json:"count"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	movies, err := s.catalog.ListMovies(r.Context())
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	items := make([]movieResponse, 0, len(movies))
	for _, movie := range movies {
		items = append(items, toMovieResponse(movie))
	}
	s.respondJSON(w, http.StatusOK, movieListResponse{Items: items})
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	if !s.verifyAdmin(r) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	var req movieCreateRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	movie, err := s.catalog.AddMovie(r.Context(), req.Title, req.ReleaseYear, req.Genre)
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/movies/%s", url.PathEscape(movie.ID)))
	s.respondJSON(w, http.StatusCreated, toMovieResponse(movie))
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	movie, err := s.catalog.GetMovie(r.Context(), chi.URLParam(r, "movieID"))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, toMovieResponse(movie))
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	if !s.verifyAdmin(r) {
		s.respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid authentication information")
		return
	}

	cascade := strings.EqualFold(r.URL.Query().Get("cascade"), "true")
	if err := s.catalog.RemoveMovie(r.Context(), chi.URLParam(r, "movieID"), cascade); err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetRating(w http.ResponseWriter, r *http.Request) {
	agg, err := s.reviews.AggregateFor(r.Context(), chi.URLParam(r, "movieID"))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	resp := ratingAggregateResponse{Count: agg.Count}
	if agg.Count > 0 {
		avg := agg.Average
		resp.Average = &avg
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func toMovieResponse(movie domain.Movie) movieResponse {
	return movieResponse{
		ID:          movie.ID,
		Title:       movie.Title,
		ReleaseYear: movie.ReleaseYear,
		Genre:       movie.Genre,
		CreatedAt:   movie.CreatedAt,
	}
}
