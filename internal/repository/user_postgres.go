package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/minjae-ok/todo-sync/internal/model"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUser(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetOrCreate(ctx context.Context, sub, email string) (model.User, error) {
	query := `
		INSERT INTO users (sub, email)
		VALUES ($1, $2)
		ON CONFLICT (sub) DO UPDATE SET email = EXCLUDED.email
		RETURNING id, sub, email, created_at, updated_at`

	row := r.db.QueryRowContext(ctx, query, sub, email)
	return scanUser(row)
}

func (r *PostgresUserRepository) GetBySub(ctx context.Context, sub string) (model.User, error) {
	query := `
		SELECT id, sub, email, created_at, updated_at
		FROM users
		WHERE sub = $1`

	row := r.db.QueryRowContext(ctx, query, sub)
	return scanUser(row)
}

func scanUser(row scannable) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Sub, &u.Email, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to scan user: %w", err)
	}
	return u, nil
}

var _ UserRepository = (*PostgresUserRepository)(nil)
