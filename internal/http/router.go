package http

import (
	"net/http"

	"github.com/minjae-ok/todo-sync/internal/http/handler"
	"github.com/minjae-ok/todo-sync/internal/service"
)

func NewRouter(todoSvc *service.TodoService, authSvc *service.AuthService) http.Handler {
	mux := http.NewServeMux()

	// Health check - intentionally outside /api/v1 for LB health check compatibility
	health := handler.NewHealthHandler()
	mux.Handle("/health", health)

	// Todo procedure surface
	todoHandler := handler.NewTodoHandler(todoSvc)
	mux.Handle("/api/v1/todos", todoHandler)
	mux.Handle("/api/v1/todos/", todoHandler)

	// Session establishment (external identity provider)
	if authSvc != nil {
		authHandler := handler.NewAuthHandler(authSvc)
		mux.Handle("/api/v1/auth/", authHandler)
	}

	return mux
}
