package server

import (
	"fmt"
	"net/http"
	"strconv"

	"webservicepoc/src/domain"
)

func (s *Server) Hello(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "hello")
}

// HelloDTO echoes name and amount; amount must be an integer.
func (s *Server) HelloDTO(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	name := query.Get("name")
	if !query.Has("name") {
		writeError(s.logger, w, fmt.Errorf("query parameter 'name' is required: %w", domain.ErrBadRequest))
		return
	}

	amount, err := strconv.Atoi(query.Get("amount"))
	if err != nil {
		writeError(s.logger, w, fmt.Errorf("query parameter 'amount' must be an integer: %w", domain.ErrBadRequest))
		return
	}

	writeJSON(s.logger, w, http.StatusOK, HelloResponseDTO{Name: name, Amount: amount})
}
