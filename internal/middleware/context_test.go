package middleware_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/minjae-ok/todo-sync/internal/middleware"
)

func TestSetAndGetUserID(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)

	if got := middleware.GetUserID(req); got != "" {
		t.Errorf("expected empty before set, got %q", got)
	}

	req = req.WithContext(middleware.SetUserID(req.Context(), "user-abc"))

	if got := middleware.GetUserID(req); got != "user-abc" {
		t.Errorf("expected user-abc, got %q", got)
	}
}

func TestGetUserID_ForeignKeyDoesNotCollide(t *testing.T) {
	// A value stored under a same-named key of a different type must not
	// leak out as a user id.
	type otherKey string
	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), otherKey("user_id"), "spoof"))

	if got := middleware.GetUserID(req); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}
