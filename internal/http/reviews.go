package httpserver

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cinevibe/cinevibe-server/internal/domain"
	"github.com/cinevibe/cinevibe-server/internal/service"
)

type reviewSubmitRequest struct {
	Rating   int     `json:"rating"`
	Title    *string `json:"title"`
	Body     *string `json:"body"`
	MediaRef *string `json:"mediaRef"`
}

type reviewResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	MovieID   string    `json:"movieId"`
	Rating    int       `json:"rating"`
	Title     *string   `json:"title,omitempty"`
	Body      *string   `json:"body,omitempty"`
	MediaRef  *string   `json:"mediaRef,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type reviewListResponse struct {
	Items      []reviewResponse `json:"items"`
	NextCursor *string          `json:"nextCursor,omitempty"`
}

func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	var req reviewSubmitRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		s.respondDecodeError(w, err)
		return
	}

	review, created, err := s.reviews.Submit(r.Context(), service.SubmitParams{
		UserID:   userIDFrom(r.Context()),
		MovieID:  chi.URLParam(r, "movieID"),
		Rating:   req.Rating,
		Title:    req.Title,
		Body:     req.Body,
		MediaRef: req.MediaRef,
	})
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, toReviewResponse(review))
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	err := s.reviews.Delete(r.Context(), chi.URLParam(r, "reviewID"), userIDFrom(r.Context()))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	limit := 0
	if val := strings.TrimSpace(query.Get("limit")); val != "" {
		parsed, err := strconv.Atoi(val)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid limit value")
			return
		}
		limit = parsed
	}

	result, err := s.reviews.ListForMovie(r.Context(), chi.URLParam(r, "movieID"), limit, strings.TrimSpace(query.Get("cursor")))
	if err != nil {
		s.respondDomainError(w, r, err)
		return
	}

	items := make([]reviewResponse, 0, len(result.Items))
	for _, review := range result.Items {
		items = append(items, toReviewResponse(review))
	}
	s.respondJSON(w, http.StatusOK, reviewListResponse{Items: items, NextCursor: result.NextCursor})
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:        review.ID,
		UserID:    review.UserID,
		MovieID:   review.MovieID,
		Rating:    review.Rating,
		Title:     review.Title,
		Body:      review.Body,
		MediaRef:  review.MediaRef,
		CreatedAt: review.CreatedAt,
		UpdatedAt: review.UpdatedAt,
	}
}
