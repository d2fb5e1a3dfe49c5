package store

import (
	"context"

	"github.com/avbelov/taskman-api/internal/domain"
)

// UserStore defines the persistence operations for users.
type UserStore interface {
	// List returns all users in insertion order.
	List(ctx context.Context) ([]domain.User, error)

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// Create persists a new user. The store computes a unique slug from the
	// username and assigns both the slug and the generated ID to the given
	// user. Returns ErrUsernameExists if the username is already taken.
	Create(ctx context.Context, user *domain.User) error

	// Update mutates the three mutable fields of a user in place.
	// Username and slug are never touched.
	// Returns ErrUserNotFound if no row matched.
	Update(ctx context.Context, id int64, firstName, lastName string, age int) error

	// Delete removes the user and every task the user owns as a single
	// atomic unit. Returns ErrUserNotFound if the user row did not exist;
	// in that case no rows remain deleted.
	Delete(ctx context.Context, id int64) error

	// ListTasks returns all tasks owned by the given user.
	// Returns ErrUserNotFound if the user does not exist.
	ListTasks(ctx context.Context, id int64) ([]domain.Task, error)
}
