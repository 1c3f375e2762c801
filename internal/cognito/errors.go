package cognito

import "errors"

// Sentinel errors for identity-provider operations.
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserNotConfirmed      = errors.New("user not confirmed")
	ErrNotAuthorized         = errors.New("not authorized")
	ErrPasswordResetRequired = errors.New("password reset required")
	ErrTooManyRequests       = errors.New("too many requests")
	ErrInvalidParameter      = errors.New("invalid parameter")
)

// ErrorInfo maps a sentinel error to its HTTP status and error code.
type ErrorInfo struct {
	Status int
	Code   string
}

var errorMap = map[error]ErrorInfo{
	ErrUserNotFound:          {Status: 404, Code: "USER_NOT_FOUND"},
	ErrUserNotConfirmed:      {Status: 403, Code: "USER_NOT_CONFIRMED"},
	ErrNotAuthorized:         {Status: 401, Code: "NOT_AUTHORIZED"},
	ErrPasswordResetRequired: {Status: 403, Code: "PASSWORD_RESET_REQUIRED"},
	ErrTooManyRequests:       {Status: 429, Code: "TOO_MANY_REQUESTS"},
	ErrInvalidParameter:      {Status: 400, Code: "INVALID_PARAMETER"},
}

// LookupError checks if the given error matches any known sentinel
// error and returns the corresponding ErrorInfo. Returns false if no
// match.
func LookupError(err error) (ErrorInfo, bool) {
	for sentinel, info := range errorMap {
		if errors.Is(err, sentinel) {
			return info, true
		}
	}
	return ErrorInfo{}, false
}
