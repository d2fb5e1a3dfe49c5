package domain

import "errors"

var (
	ErrEmptyTitle  = errors.New("title cannot be empty")
	ErrEmptyUserID = errors.New("task must reference a user")
)

// Task is a unit of work owned by exactly one User.
// UserID is set at creation time and never changes; re-parenting a task
// to another user is not supported.
type Task struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority int    `json:"priority"`
	UserID   int64  `json:"user_id"`
}

// NewTask creates a new Task owned by the given user.
// The ID is left zero; the store assigns it on Create.
// Returns an error if validation fails.
func NewTask(title, content string, priority int, userID int64) (*Task, error) {
	task := &Task{
		Title:    title,
		Content:  content,
		Priority: priority,
		UserID:   userID,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.Title == "" {
		return ErrEmptyTitle
	}

	if t.UserID == 0 {
		return ErrEmptyUserID
	}

	return nil
}
