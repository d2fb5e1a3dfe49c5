package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avbelov/taskman-api/internal/domain"
	"github.com/avbelov/taskman-api/internal/platform/logger"
	"github.com/avbelov/taskman-api/internal/store"
)

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend.
type TaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. It accepts a database connection or transaction that should be
// initialized and managed by the caller. If logger is nil, the default
// logger is used.
func NewTaskStore(db store.DBTX, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure TaskStore implements store.TaskStore
var _ store.TaskStore = (*TaskStore)(nil)

// List implements store.TaskStore.List.
// Tasks come back in insertion order (ascending ID).
func (s *TaskStore) List(ctx context.Context) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, content, priority, user_id
		FROM tasks
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
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

// GetByID implements store.TaskStore.GetByID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, content, priority, user_id
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Content,
		&task.Priority,
		&task.UserID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.Int64("task_id", id))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return nil, MapError(err)
	}

	return &task, nil
}

// Create implements store.TaskStore.Create.
// The referenced user must exist at creation time; the foreign key on
// tasks.user_id backs the check, so a user deleted between the existence
// probe and the insert still yields store.ErrUserNotFound and no row.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("title", task.Title))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var userExists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`,
		task.UserID,
	).Scan(&userExists)
	if err != nil {
		log.Error("failed to check user existence",
			slog.String("error", err.Error()),
			slog.Int64("user_id", task.UserID))
		return MapError(err)
	}
	if !userExists {
		log.Debug("user not found for task creation",
			slog.Int64("user_id", task.UserID))
		return store.ErrUserNotFound
	}

	query := `
		INSERT INTO tasks (title, content, priority, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err = s.db.QueryRowContext(ctx, query,
		task.Title,
		task.Content,
		task.Priority,
		task.UserID,
	).Scan(&task.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.Int64("user_id", task.UserID))
			return fmt.Errorf("%w: user with ID %d not found",
				store.ErrUserNotFound, task.UserID)
		}
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("user_id", task.UserID))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.Int64("task_id", task.ID),
		slog.Int64("user_id", task.UserID))
	return nil
}

// Update implements store.TaskStore.Update.
// Only title, content and priority are mutable; user_id never changes.
// Returns store.ErrTaskNotFound if no row matched.
func (s *TaskStore) Update(ctx context.Context, id int64, title, content string, priority int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET title = $1, content = $2, priority = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query, title, content, priority, id)
	if err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found for update", slog.Int64("task_id", id))
		}
		return err
	}

	log.Info("task updated successfully", slog.Int64("task_id", id))
	return nil
}

// Delete implements store.TaskStore.Delete.
// Returns store.ErrTaskNotFound if no row matched.
func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.Int64("task_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrTaskNotFound); err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			log.Debug("task not found for delete", slog.Int64("task_id", id))
		}
		return err
	}

	log.Info("task deleted successfully", slog.Int64("task_id", id))
	return nil
}
