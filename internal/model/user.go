package model

import "time"

// User maps an external identity-provider subject to a stable local id.
// Identity establishment itself lives with the provider; this record is
// only the resolution target for the auth middleware.
type User struct {
	ID        string    `json:"id"`
	Sub       string    `json:"sub"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
