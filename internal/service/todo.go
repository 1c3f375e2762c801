package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/minjae-ok/todo-sync/internal/model"
	"github.com/minjae-ok/todo-sync/internal/repository"
)

// TodoService is the procedure surface over the todo store. Each method
// validates its input, performs exactly one store operation and returns
// the result or a typed error unchanged; no multi-step transactions.
type TodoService struct {
	repo repository.TodoRepository
}

func NewTodoService(repo repository.TodoRepository) *TodoService {
	return &TodoService{repo: repo}
}

func (s *TodoService) All(ctx context.Context, userID string) ([]model.Todo, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user", ErrUnauthorized)
	}

	todos, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list todos: %v", ErrStoreUnavailable, err)
	}
	return todos, nil
}

func (s *TodoService) Add(ctx context.Context, userID, label string) (model.Todo, error) {
	if userID == "" {
		return model.Todo{}, fmt.Errorf("%w: missing user", ErrUnauthorized)
	}
	// No trimming: a whitespace-only label is the caller's to keep, but
	// the empty string is rejected outright.
	if label == "" {
		return model.Todo{}, fmt.Errorf("%w: label is required", ErrInvalidInput)
	}

	todo := model.Todo{
		CreatorID: userID,
		Label:     label,
		Completed: false,
	}

	created, err := s.repo.Create(ctx, todo)
	if err != nil {
		return model.Todo{}, fmt.Errorf("%w: create todo: %v", ErrStoreUnavailable, err)
	}

	return created, nil
}

func (s *TodoService) Update(ctx context.Context, userID, todoID string, changes model.TodoChanges) (model.Todo, error) {
	if userID == "" {
		return model.Todo{}, fmt.Errorf("%w: missing user", ErrUnauthorized)
	}
	if todoID == "" {
		return model.Todo{}, ErrNotFound
	}
	if changes.Label != nil && *changes.Label == "" {
		return model.Todo{}, fmt.Errorf("%w: label cannot be empty", ErrInvalidInput)
	}
	// An empty change set is a valid no-op: absent fields are left
	// unchanged and the current record comes back.

	updated, err := s.repo.Update(ctx, todoID, changes)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("%w: update todo: %v", ErrStoreUnavailable, err)
	}

	return updated, nil
}

func (s *TodoService) Delete(ctx context.Context, userID, todoID string) (model.Todo, error) {
	if userID == "" {
		return model.Todo{}, fmt.Errorf("%w: missing user", ErrUnauthorized)
	}
	if todoID == "" {
		return model.Todo{}, ErrNotFound
	}

	deleted, err := s.repo.Delete(ctx, todoID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Todo{}, ErrNotFound
		}
		return model.Todo{}, fmt.Errorf("%w: delete todo: %v", ErrStoreUnavailable, err)
	}

	return deleted, nil
}

// DeleteCompleted removes every completed todo owned by the caller.
// Zero matches is a valid outcome, not an error.
func (s *TodoService) DeleteCompleted(ctx context.Context, userID string) (int64, error) {
	if userID == "" {
		return 0, fmt.Errorf("%w: missing user", ErrUnauthorized)
	}

	deleted, err := s.repo.DeleteCompleted(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("%w: delete completed todos: %v", ErrStoreUnavailable, err)
	}

	return deleted, nil
}
