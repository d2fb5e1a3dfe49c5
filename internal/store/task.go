package store

import (
	"context"

	"github.com/avbelov/taskman-api/internal/domain"
)

// TaskStore defines the persistence operations for tasks.
type TaskStore interface {
	// List returns all tasks in insertion order.
	List(ctx context.Context) ([]domain.Task, error)

	// GetByID retrieves a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// Create persists a new task linked to task.UserID and assigns the
	// generated ID. Returns ErrUserNotFound if the referenced user does
	// not exist; in that case no row is persisted.
	Create(ctx context.Context, task *domain.Task) error

	// Update mutates title, content and priority by ID. The owning user
	// is never changed. Returns ErrTaskNotFound if no row matched.
	Update(ctx context.Context, id int64, title, content string, priority int) error

	// Delete removes a task by ID.
	// Returns ErrTaskNotFound if no row matched.
	Delete(ctx context.Context, id int64) error
}
