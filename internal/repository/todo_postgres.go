package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minjae-ok/todo-sync/internal/model"
)

type PostgresTodoRepository struct {
	db *sql.DB
}

func NewPostgresTodo(db *sql.DB) *PostgresTodoRepository {
	return &PostgresTodoRepository{db: db}
}

func (r *PostgresTodoRepository) ListByUser(ctx context.Context, userID string) ([]model.Todo, error) {
	query := `
		SELECT id, creator_id, label, completed, created_at, updated_at
		FROM todos
		WHERE creator_id = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []model.Todo{}
	for rows.Next() {
		var t model.Todo
		if err := rows.Scan(
			&t.ID, &t.CreatorID, &t.Label, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan todo row: %w", err)
		}
		todos = append(todos, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

func (r *PostgresTodoRepository) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	query := `
		INSERT INTO todos (creator_id, label, completed)
		VALUES ($1, $2, $3)
		RETURNING id, creator_id, label, completed, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query, todo.CreatorID, todo.Label, todo.Completed)
	return scanTodo(row)
}

// Update applies the change set in a single statement so that two
// concurrent updates to the same record never interleave at the field
// level. Nil fields fall through to the current value via COALESCE.
func (r *PostgresTodoRepository) Update(ctx context.Context, todoID string, changes model.TodoChanges) (model.Todo, error) {
	query := `
		UPDATE todos
		SET label = COALESCE($1, label),
		    completed = COALESCE($2, completed),
		    updated_at = now()
		WHERE id = $3
		RETURNING id, creator_id, label, completed, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query, changes.Label, changes.Completed, todoID)
	return scanTodo(row)
}

func (r *PostgresTodoRepository) Delete(ctx context.Context, todoID string) (model.Todo, error) {
	query := `
		DELETE FROM todos
		WHERE id = $1
		RETURNING id, creator_id, label, completed, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query, todoID)
	return scanTodo(row)
}

func (r *PostgresTodoRepository) DeleteCompleted(ctx context.Context, userID string) (int64, error) {
	query := `DELETE FROM todos WHERE creator_id = $1 AND completed = true`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete completed todos: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return deleted, nil
}

type scannable interface {
	Scan(dest ...any) error
}

func scanTodo(row scannable) (model.Todo, error) {
	var t model.Todo
	err := row.Scan(
		&t.ID, &t.CreatorID, &t.Label, &t.Completed, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return model.Todo{}, fmt.Errorf("failed to scan todo: %w", err)
	}
	return t, nil
}

// ensure compile-time interface compliance
var _ TodoRepository = (*PostgresTodoRepository)(nil)
