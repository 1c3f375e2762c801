package repository

import (
	"context"

	"github.com/minjae-ok/todo-sync/internal/model"
)

type UserRepository interface {
	GetOrCreate(ctx context.Context, sub, email string) (model.User, error)
	GetBySub(ctx context.Context, sub string) (model.User, error)
}
