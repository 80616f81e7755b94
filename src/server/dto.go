package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"webservicepoc/src/domain"
	"webservicepoc/src/domain/entities"
)

type HelloResponseDTO struct {
	Name   string `json:"name"`
	Amount int    `json:"amount"`
}

type PostsResponseDTO struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author"`
}

type PostsListResponseDTO struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	ModifiedDate time.Time `json:"modifiedDate"`
}

func MapPostsToResponse(posts entities.Posts) PostsResponseDTO {
	return PostsResponseDTO{
		ID:      posts.ID,
		Title:   posts.Title,
		Content: posts.Content,
		Author:  posts.Author,
	}
}

func MapPostsListToResponse(items []domain.PostsListItem) []PostsListResponseDTO {
	response := make([]PostsListResponseDTO, 0, len(items))
	for _, item := range items {
		response = append(response, PostsListResponseDTO{
			ID:           item.ID,
			Title:        item.Title,
			Author:       item.Author,
			ModifiedDate: item.ModifiedDate,
		})
	}
	return response
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to write JSON response", "error", err)
	}
}

// writeError maps domain errors onto status codes; anything unexpected is
// logged and hidden behind ErrUnavailableServer.
func writeError(logger *slog.Logger, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrBadRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrPostNotFound), errors.Is(err, domain.ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	default:
		logger.Error("Request failed", "error", err)
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
	}
}
