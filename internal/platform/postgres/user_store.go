package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avbelov/taskman-api/internal/domain"
	"github.com/avbelov/taskman-api/internal/platform/logger"
	"github.com/avbelov/taskman-api/internal/slug"
	"github.com/avbelov/taskman-api/internal/store"
)

// UserStore implements the store.UserStore interface using a PostgreSQL
// database as the storage backend. It holds the shared *sql.DB directly
// (rather than a store.DBTX) because the cascading Delete needs to open
// its own transaction.
type UserStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewUserStore creates a new PostgreSQL implementation of the UserStore
// interface. It accepts a database connection that should be initialized
// and managed by the caller. If logger is nil, the default logger is used.
func NewUserStore(db *sql.DB, logger *slog.Logger) *UserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &UserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure UserStore implements store.UserStore
var _ store.UserStore = (*UserStore)(nil)

// List implements store.UserStore.List.
// Users come back in insertion order (ascending ID).
func (s *UserStore) List(ctx context.Context) ([]domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, username, firstname, lastname, age, slug
		FROM users
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query users", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.FirstName,
			&user.LastName,
			&user.Age,
			&user.Slug,
		); err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning user rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if users == nil {
		users = []domain.User{}
	}

	return users, nil
}

// GetByID implements store.UserStore.GetByID.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, username, firstname, lastname, age, slug
		FROM users
		WHERE id = $1
	`

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Age,
		&user.Slug,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.Int64("user_id", id))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return nil, MapError(err)
	}

	return &user, nil
}

// Create implements store.UserStore.Create.
// It rejects duplicate usernames, derives a unique slug from the username
// by probing numeric suffixes, and assigns the generated ID and slug to
// the given user. The unique indexes on username and slug remain the
// source of truth: a probe race between concurrent creates surfaces as
// store.ErrUsernameExists or store.ErrDuplicate from the insert itself.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var usernameTaken bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`,
		user.Username,
	).Scan(&usernameTaken)
	if err != nil {
		log.Error("failed to check username",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return MapError(err)
	}
	if usernameTaken {
		log.Debug("username already exists", slog.String("username", user.Username))
		return store.ErrUsernameExists
	}

	userSlug, err := s.uniqueSlug(ctx, slug.Make(user.Username))
	if err != nil {
		log.Error("failed to derive unique slug",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return err
	}

	query := `
		INSERT INTO users (username, firstname, lastname, age, slug)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err = s.db.QueryRowContext(ctx, query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Age,
		userSlug,
	).Scan(&user.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			// Lost a race against a concurrent create.
			log.Warn("unique violation during user creation",
				slog.String("error", err.Error()),
				slog.String("username", user.Username))
			return fmt.Errorf("%w: %v", store.ErrUsernameExists, err)
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return MapError(err)
	}

	user.Slug = userSlug

	log.Info("user created successfully",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
		slog.String("slug", user.Slug))
	return nil
}

// uniqueSlug resolves slug collisions by sequential probing: base, base-1,
// base-2, and so on until an unused slug is found. Suffixes are never
// reused even after deletions free them up mid-probe, since probing always
// starts from the bare base.
func (s *UserStore) uniqueSlug(ctx context.Context, base string) (string, error) {
	candidate := base
	for i := 1; ; i++ {
		var taken bool
		err := s.db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE slug = $1)`,
			candidate,
		).Scan(&taken)
		if err != nil {
			return "", MapError(err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// Update implements store.UserStore.Update.
// Only firstname, lastname and age are mutable; username and slug are
// immutable after creation. Returns store.ErrUserNotFound if no row matched.
func (s *UserStore) Update(ctx context.Context, id int64, firstName, lastName string, age int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET firstname = $1, lastname = $2, age = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query, firstName, lastName, age, id)
	if err != nil {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("user not found for update", slog.Int64("user_id", id))
		}
		return err
	}

	log.Info("user updated successfully", slog.Int64("user_id", id))
	return nil
}

// Delete implements store.UserStore.Delete.
// The user's tasks and the user row are deleted as a single atomic unit:
// if the commit fails, no rows remain deleted. Returns store.ErrUserNotFound
// if the user row did not exist.
func (s *UserStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM tasks WHERE user_id = $1`, id,
		); err != nil {
			return MapError(err)
		}

		result, err := tx.ExecContext(ctx,
			`DELETE FROM users WHERE id = $1`, id,
		)
		if err != nil {
			return MapError(err)
		}

		return CheckRowsAffected(result, store.ErrUserNotFound)
	})
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("user not found for delete", slog.Int64("user_id", id))
			return err
		}
		log.Error("failed to delete user",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return err
	}

	log.Info("user deleted successfully", slog.Int64("user_id", id))
	return nil
}

// ListTasks implements store.UserStore.ListTasks.
// Returns store.ErrUserNotFound if the user does not exist.
func (s *UserStore) ListTasks(ctx context.Context, id int64) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id,
	).Scan(&exists)
	if err != nil {
		log.Error("failed to check user existence",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return nil, MapError(err)
	}
	if !exists {
		log.Debug("user not found for task listing", slog.Int64("user_id", id))
		return nil, store.ErrUserNotFound
	}

	query := `
		SELECT id, title, content, priority, user_id
		FROM tasks
		WHERE user_id = $1
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query, id)
	if err != nil {
		log.Error("failed to query user tasks",
			slog.String("error", err.Error()),
			slog.Int64("user_id", id))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Content,
			&task.Priority,
			&task.UserID,
		); err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning task rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}

	return tasks, nil
}
