package server

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"webservicepoc/src/security"
	"webservicepoc/src/services/posts"
)

// Server representa o servidor HTTP da aplicação
type Server struct {
	logger       *slog.Logger
	server       *http.Server
	mux          *http.ServeMux
	handler      http.Handler
	port         int
	postsService *posts.PostsService
	views        *template.Template
}

// Auth groups what the server needs to protect its routes. Login may be nil
// when no OAuth2 provider is configured.
type Auth struct {
	Policy   *security.Policy
	Resolver security.PrincipalResolver
	Login    *security.OAuth2Login
	LoginURL string
}

// NewServer cria uma nova instância do servidor
func NewServer(
	logger *slog.Logger,
	port int,
	postsService *posts.PostsService,
	auth Auth,
) *Server {
	server := &Server{
		mux:          http.NewServeMux(),
		port:         port,
		logger:       logger,
		postsService: postsService,
		views:        template.Must(template.New("views").Funcs(viewFuncs).ParseFS(templatesFS, "templates/*.html")),
	}

	// Rotas de Leitura
	server.mux.HandleFunc("GET /hello", server.Hello)
	server.mux.HandleFunc("GET /hello/dto", server.HelloDTO)
	server.mux.HandleFunc("GET /api/v1/posts", server.ListPosts)
	server.mux.HandleFunc("GET /api/v1/posts/{id}", server.GetPostsByID)

	// Rotas de Escritas
	server.mux.HandleFunc("POST /api/v1/posts", server.SavePosts)
	server.mux.HandleFunc("PUT /api/v1/posts/{id}", server.UpdatePosts)
	server.mux.HandleFunc("DELETE /api/v1/posts/{id}", server.DeletePosts)

	// Páginas
	server.mux.HandleFunc("GET /{$}", server.Index)
	server.mux.HandleFunc("GET /posts/save", server.PostsSavePage)
	server.mux.HandleFunc("GET /posts/update/{id}", server.PostsUpdatePage)

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	fileServer := http.FileServerFS(static)
	server.mux.Handle("GET /css/", fileServer)
	server.mux.Handle("GET /js/", fileServer)
	server.mux.Handle("GET /images/", fileServer)

	if auth.Login != nil {
		auth.Login.Register(server.mux)
	}

	server.handler = security.Middleware(logger, auth.Policy, auth.Resolver, auth.LoginURL)(server.mux)

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      server.handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return server
}

// Handler is the fully protected router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start inicia o servidor HTTP
func (s *Server) Start() error {
	s.logger.Info("Server started", "port", s.port)

	return s.server.ListenAndServe()
}

// Shutdown encerra o servidor HTTP de forma graciosa
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
