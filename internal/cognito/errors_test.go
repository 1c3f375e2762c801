package cognito_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/minjae-ok/todo-sync/internal/cognito"
)

func TestLookupError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantFound  bool
	}{
		{
			name:       "not authorized",
			err:        cognito.ErrNotAuthorized,
			wantStatus: 401,
			wantCode:   "NOT_AUTHORIZED",
			wantFound:  true,
		},
		{
			name:       "wrapped user not found",
			err:        fmt.Errorf("some context: %w", cognito.ErrUserNotFound),
			wantStatus: 404,
			wantCode:   "USER_NOT_FOUND",
			wantFound:  true,
		},
		{
			name:       "too many requests",
			err:        cognito.ErrTooManyRequests,
			wantStatus: 429,
			wantCode:   "TOO_MANY_REQUESTS",
			wantFound:  true,
		},
		{
			name:      "unknown error",
			err:       errors.New("something else"),
			wantFound: false,
		},
		{
			name:      "nil error",
			err:       nil,
			wantFound: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, found := cognito.LookupError(tt.err)
			if found != tt.wantFound {
				t.Fatalf("LookupError() found = %v, want %v", found, tt.wantFound)
			}
			if !found {
				return
			}
			if info.Status != tt.wantStatus {
				t.Errorf("Status = %d, want %d", info.Status, tt.wantStatus)
			}
			if info.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", info.Code, tt.wantCode)
			}
		})
	}
}
