package model

import "time"

// Todo is a single user-owned task record. The id is generated by the
// store at creation time; CreatorID is set once and never reassigned.
type Todo struct {
	ID        string    `json:"id"`
	CreatorID string    `json:"creator_id"`
	Label     string    `json:"label"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TodoChanges carries a partial update: nil fields are left unchanged.
// A change set with no fields at all is a valid no-op.
type TodoChanges struct {
	Label     *string `json:"label,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type TodoListResult struct {
	Todos []Todo `json:"todos"`
}

type DeleteCompletedResult struct {
	Deleted int64 `json:"deleted"`
}
