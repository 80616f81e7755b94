package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"webservicepoc/src/domain"
	"webservicepoc/src/security"
)

func parsePostsID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid posts id %q: %w", r.PathValue("id"), domain.ErrBadRequest)
	}
	return id, nil
}

// SavePosts answers the new id. When the body has no author the logged in
// user's name is used.
func (s *Server) SavePosts(w http.ResponseWriter, r *http.Request) {
	var request domain.PostsSaveRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(s.logger, w, fmt.Errorf("invalid request body: %v: %w", err, domain.ErrBadRequest))
		return
	}

	if request.Author == "" {
		if principal, ok := security.PrincipalFrom(r.Context()); ok {
			request.Author = principal.Name
		}
	}

	id, err := s.postsService.Save(r.Context(), request)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(s.logger, w, http.StatusOK, id)
}

func (s *Server) UpdatePosts(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostsID(r)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	var request domain.PostsUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(s.logger, w, fmt.Errorf("invalid request body: %v: %w", err, domain.ErrBadRequest))
		return
	}

	updatedID, err := s.postsService.Update(r.Context(), id, request)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(s.logger, w, http.StatusOK, updatedID)
}

func (s *Server) GetPostsByID(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostsID(r)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	posts, err := s.postsService.FindByID(r.Context(), id)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(s.logger, w, http.StatusOK, MapPostsToResponse(posts))
}

func (s *Server) ListPosts(w http.ResponseWriter, r *http.Request) {
	items, err := s.postsService.FindAllDesc(r.Context())
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(s.logger, w, http.StatusOK, MapPostsListToResponse(items))
}

func (s *Server) DeletePosts(w http.ResponseWriter, r *http.Request) {
	id, err := parsePostsID(r)
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	if err := s.postsService.Delete(r.Context(), id); err != nil {
		writeError(s.logger, w, err)
		return
	}

	writeJSON(s.logger, w, http.StatusOK, id)
}
