package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/minjae-ok/todo-sync/internal/middleware"
	"github.com/minjae-ok/todo-sync/internal/service"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

func NewServer(port string, logger *slog.Logger, todoSvc *service.TodoService, authSvc *service.AuthService, auth *middleware.Auth) *Server {
	router := NewRouter(todoSvc, authSvc)

	// Middleware chain: recovery -> logging -> auth -> router
	var chain http.Handler = router
	if auth != nil {
		chain = auth.Middleware(chain)
	}
	chain = middleware.Recovery(logger)(middleware.Logging(logger)(chain))

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", port),
			Handler:      chain,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
