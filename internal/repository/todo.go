package repository

import (
	"context"

	"github.com/minjae-ok/todo-sync/internal/model"
)

type TodoRepository interface {
	ListByUser(ctx context.Context, userID string) ([]model.Todo, error)
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)
	Update(ctx context.Context, todoID string, changes model.TodoChanges) (model.Todo, error)
	Delete(ctx context.Context, todoID string) (model.Todo, error)
	DeleteCompleted(ctx context.Context, userID string) (int64, error)
}
