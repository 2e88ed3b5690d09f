package api

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"
)

// Server wraps http.Server with the timeouts used by the feedback API.
type Server struct {
	server *http.Server
}

func NewServer(addr string, handler http.Handler) *Server {
	return &Server{server: &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}}
}

// Start blocks until the server stops. A graceful Stop is not an error.
func (s *Server) Start() error {
	log.Printf("🚀 Feedback server running on http://%s", s.server.Addr)
	log.Printf("📡 Ready to receive portfolio feedback")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}
