package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"webservicepoc/src/domain"
	"webservicepoc/src/services/order"
)

// ExternalCaller is the entry point of the internal-call demo services.
type ExternalCaller interface {
	External(ctx context.Context)
}

// InternalCalls holds the two sides of the internal-call demo. Nil fields
// leave their route unregistered.
type InternalCalls struct {
	SelfCall ExternalCaller
	Call     ExternalCaller
}

// Server exposes the order chain of the proxy demo.
type Server struct {
	logger     *slog.Logger
	server     *http.Server
	mux        *http.ServeMux
	port       int
	controller order.OrderController
	calls      InternalCalls
}

func NewServer(
	logger *slog.Logger,
	port int,
	controller order.OrderController,
	calls InternalCalls,
) *Server {
	server := &Server{
		mux:        http.NewServeMux(),
		port:       port,
		logger:     logger,
		controller: controller,
		calls:      calls,
	}

	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      server.mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	server.mux.HandleFunc("GET /v1/request", server.Request)
	server.mux.HandleFunc("GET /v1/no-log", server.NoLog)
	if calls.SelfCall != nil {
		server.mux.HandleFunc("GET /v1/internal/self-call", server.SelfCall)
	}
	if calls.Call != nil {
		server.mux.HandleFunc("GET /v1/internal/call", server.Call)
	}

	return server
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) Request(w http.ResponseWriter, r *http.Request) {
	itemID := r.URL.Query().Get("itemId")
	if itemID == "" {
		http.Error(w, "Query parameter 'itemId' is required", http.StatusBadRequest)
		return
	}

	result, err := s.controller.Request(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, order.ErrIllegalItem) {
			s.logger.Warn("Order rejected", "item_id", itemID, "error", err)
		} else {
			s.logger.Error("Order failed", "item_id", itemID, "error", err)
		}
		http.Error(w, domain.ErrUnavailableServer.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, result)
}

func (s *Server) NoLog(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, s.controller.NoLog(r.Context()))
}

// SelfCall runs External on the service that calls Internal on itself.
func (s *Server) SelfCall(w http.ResponseWriter, r *http.Request) {
	s.calls.SelfCall.External(r.Context())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}

// Call runs External on the service that reaches Internal through its
// decorator.
func (s *Server) Call(w http.ResponseWriter, r *http.Request) {
	s.calls.Call.External(r.Context())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, "ok")
}

func (s *Server) Start() error {
	s.logger.Info("Order proxy server started", "port", s.port)

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down order proxy server...")
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
