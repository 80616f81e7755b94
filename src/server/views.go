package server

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"webservicepoc/src/security"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

var viewFuncs = template.FuncMap{
	"formatDate": func(t time.Time) string {
		return t.Format("2006-01-02 15:04:05")
	},
}

type indexView struct {
	Posts    []PostsListResponseDTO
	UserName string
}

type postsUpdateView struct {
	Posts PostsResponseDTO
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.views.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("Failed to render view", "view", name, "error", err)
	}
}

func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	items, err := s.postsService.FindAllDesc(r.Context())
	if err != nil {
		writeError(s.logger, w, err)
		return
	}

	view := indexView{Posts: MapPostsListToResponse(items)}
	if principal, ok := security.PrincipalFrom(r.Context()); ok {
		view.UserName = principal.Name
	}

	s.render(w, "index.html", view)
}

func (s *Server) PostsSavePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, "posts-save.html", nil)
}

func (s *Server) PostsUpdatePage(w http.ResponseWriter, r *http.Request) {
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

	s.render(w, "posts-update.html", postsUpdateView{Posts: MapPostsToResponse(posts)})
}
