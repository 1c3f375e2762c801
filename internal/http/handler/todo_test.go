package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minjae-ok/todo-sync/internal/http/handler"
	"github.com/minjae-ok/todo-sync/internal/middleware"
	"github.com/minjae-ok/todo-sync/internal/model"
	"github.com/minjae-ok/todo-sync/internal/service"
)

// mockTodoRepo for handler tests
type mockTodoRepo struct {
	listFn            func(ctx context.Context, userID string) ([]model.Todo, error)
	createFn          func(ctx context.Context, todo model.Todo) (model.Todo, error)
	updateFn          func(ctx context.Context, todoID string, changes model.TodoChanges) (model.Todo, error)
	deleteFn          func(ctx context.Context, todoID string) (model.Todo, error)
	deleteCompletedFn func(ctx context.Context, userID string) (int64, error)
}

func (m *mockTodoRepo) ListByUser(ctx context.Context, userID string) ([]model.Todo, error) {
	return m.listFn(ctx, userID)
}
func (m *mockTodoRepo) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	return m.createFn(ctx, todo)
}
func (m *mockTodoRepo) Update(ctx context.Context, todoID string, changes model.TodoChanges) (model.Todo, error) {
	return m.updateFn(ctx, todoID, changes)
}
func (m *mockTodoRepo) Delete(ctx context.Context, todoID string) (model.Todo, error) {
	return m.deleteFn(ctx, todoID)
}
func (m *mockTodoRepo) DeleteCompleted(ctx context.Context, userID string) (int64, error) {
	return m.deleteCompletedFn(ctx, userID)
}

var now = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func sampleTodo() model.Todo {
	return model.Todo{
		ID:        "todo-1",
		CreatorID: "user-1",
		Label:     "Buy groceries",
		Completed: false,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newTodoHandler(repo *mockTodoRepo) *handler.TodoHandler {
	svc := service.NewTodoService(repo)
	return handler.NewTodoHandler(svc)
}

// asUser attaches an authenticated user to the request the way the auth
// middleware would.
func asUser(req *http.Request, userID string) *http.Request {
	return req.WithContext(middleware.SetUserID(req.Context(), userID))
}

func TestTodoHandler_List(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		listFn     func(ctx context.Context, userID string) ([]model.Todo, error)
		wantStatus int
	}{
		{
			name:   "success",
			userID: "user-1",
			listFn: func(ctx context.Context, userID string) ([]model.Todo, error) {
				return []model.Todo{sampleTodo()}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:   "empty list stays an array",
			userID: "user-1",
			listFn: func(ctx context.Context, userID string) ([]model.Todo, error) {
				return []model.Todo{}, nil
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "unauthenticated",
			userID:     "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:   "store error",
			userID: "user-1",
			listFn: func(ctx context.Context, userID string) ([]model.Todo, error) {
				return nil, fmt.Errorf("db down")
			},
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTodoRepo{listFn: tt.listFn}
			h := newTodoHandler(repo)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/todos", nil)
			if tt.userID != "" {
				req = asUser(req, tt.userID)
			}
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				var result model.TodoListResult
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Fatalf("failed to decode: %v", err)
				}
				if result.Todos == nil {
					t.Error("todos must never be null")
				}
			}
		})
	}
}

func TestTodoHandler_Add(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		repoErr    error
		wantStatus int
	}{
		{
			name:       "success",
			body:       `{"label":"Buy groceries"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "empty label",
			body:       `{"label":""}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid json",
			body:       `{invalid`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "repo error",
			body:       `{"label":"Buy groceries"}`,
			repoErr:    fmt.Errorf("db error"),
			wantStatus: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTodoRepo{
				createFn: func(ctx context.Context, todo model.Todo) (model.Todo, error) {
					if tt.repoErr != nil {
						return model.Todo{}, tt.repoErr
					}
					result := sampleTodo()
					result.Label = todo.Label
					return result, nil
				},
			}
			h := newTodoHandler(repo)

			req := asUser(httptest.NewRequest(http.MethodPost, "/api/v1/todos", bytes.NewBufferString(tt.body)), "user-1")
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantStatus == http.StatusCreated {
				var result model.Todo
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Fatalf("failed to decode: %v", err)
				}
				if result.Label != "Buy groceries" {
					t.Errorf("expected label=Buy groceries, got %s", result.Label)
				}
				if result.ID == "" {
					t.Error("created todo must carry the store-assigned id")
				}
			}
		})
	}
}

func TestTodoHandler_Update(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		repoErr    error
		wantStatus int
	}{
		{
			name:       "toggle completed",
			body:       `{"completed":true}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "edit label",
			body:       `{"label":"Updated label"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty change set is a no-op",
			body:       `{}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid json",
			body:       `{bad`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not found",
			body:       `{"completed":true}`,
			repoErr:    fmt.Errorf("failed to scan todo: %w", sql.ErrNoRows),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTodoRepo{
				updateFn: func(ctx context.Context, todoID string, changes model.TodoChanges) (model.Todo, error) {
					if tt.repoErr != nil {
						return model.Todo{}, tt.repoErr
					}
					result := sampleTodo()
					if changes.Label != nil {
						result.Label = *changes.Label
					}
					if changes.Completed != nil {
						result.Completed = *changes.Completed
					}
					return result, nil
				},
			}
			h := newTodoHandler(repo)

			req := asUser(httptest.NewRequest(http.MethodPatch, "/api/v1/todos/todo-1", bytes.NewBufferString(tt.body)), "user-1")
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestTodoHandler_Delete(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"not found", fmt.Errorf("failed to scan todo: %w", sql.ErrNoRows), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTodoRepo{
				deleteFn: func(ctx context.Context, todoID string) (model.Todo, error) {
					if tt.repoErr != nil {
						return model.Todo{}, tt.repoErr
					}
					return sampleTodo(), nil
				},
			}
			h := newTodoHandler(repo)

			req := asUser(httptest.NewRequest(http.MethodDelete, "/api/v1/todos/todo-1", nil), "user-1")
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}

			if tt.wantStatus == http.StatusOK {
				var result model.Todo
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Fatalf("failed to decode: %v", err)
				}
				if result.ID != "todo-1" {
					t.Errorf("expected deleted record, got %+v", result)
				}
			}
		})
	}
}

func TestTodoHandler_DeleteCompleted(t *testing.T) {
	tests := []struct {
		name       string
		deleted    int64
		repoErr    error
		wantStatus int
	}{
		{"removes matches", 3, nil, http.StatusOK},
		{"zero matches", 0, nil, http.StatusOK},
		{"store error", 0, fmt.Errorf("db down"), http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockTodoRepo{
				deleteCompletedFn: func(ctx context.Context, userID string) (int64, error) {
					if tt.repoErr != nil {
						return 0, tt.repoErr
					}
					if userID != "user-1" {
						t.Errorf("expected userID user-1, got %q", userID)
					}
					return tt.deleted, nil
				},
			}
			h := newTodoHandler(repo)

			req := asUser(httptest.NewRequest(http.MethodDelete, "/api/v1/todos/completed", nil), "user-1")
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d (body: %s)", tt.wantStatus, w.Code, w.Body.String())
			}

			if tt.wantStatus == http.StatusOK {
				var result model.DeleteCompletedResult
				if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
					t.Fatalf("failed to decode: %v", err)
				}
				if result.Deleted != tt.deleted {
					t.Errorf("expected deleted=%d, got %d", tt.deleted, result.Deleted)
				}
			}
		})
	}
}

func TestTodoHandler_MethodNotAllowed(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
	}{
		{"patch on collection", http.MethodPatch, "/api/v1/todos"},
		{"post on id", http.MethodPost, "/api/v1/todos/todo-1"},
		{"get on completed", http.MethodGet, "/api/v1/todos/completed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTodoHandler(&mockTodoRepo{})

			req := asUser(httptest.NewRequest(tt.method, tt.path, nil), "user-1")
			w := httptest.NewRecorder()

			h.ServeHTTP(w, req)

			if w.Code != http.StatusMethodNotAllowed {
				t.Errorf("expected status 405, got %d", w.Code)
			}
		})
	}
}
