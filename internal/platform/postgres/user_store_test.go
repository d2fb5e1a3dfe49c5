package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avbelov/taskman-api/internal/domain"
	"github.com/avbelov/taskman-api/internal/store"
)

const (
	usernameExistsQuery = `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`
	slugExistsQuery     = `SELECT EXISTS (SELECT 1 FROM users WHERE slug = $1)`
	userExistsQuery     = `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
)

func newUserStoreMock(t *testing.T) (*UserStore, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewUserStore(db, nil), mock
}

func existsRows(exists bool) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"exists"}).AddRow(exists)
}

func userRows(users ...domain.User) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "username", "firstname", "lastname", "age", "slug"})
	for _, u := range users {
		rows.AddRow(u.ID, u.Username, u.FirstName, u.LastName, u.Age, u.Slug)
	}
	return rows
}

func TestUserStoreCreate(t *testing.T) {
	s, mock := newUserStoreMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(usernameExistsQuery)).
		WithArgs("Alice Example").
		WillReturnRows(existsRows(false))
	mock.ExpectQuery(regexp.QuoteMeta(slugExistsQuery)).
		WithArgs("alice-example").
		WillReturnRows(existsRows(false))
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Alice Example", "Alice", "Example", 30, "alice-example").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	user := &domain.User{Username: "Alice Example", FirstName: "Alice", LastName: "Example", Age: 30}
	err := s.Create(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "alice-example", user.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreCreateProbesSlugSuffix(t *testing.T) {
	s, mock := newUserStoreMock(t)

	// Base slug taken by an earlier user; probing appends -1.
	mock.ExpectQuery(regexp.QuoteMeta(usernameExistsQuery)).
		WithArgs("Alice-Example").
		WillReturnRows(existsRows(false))
	mock.ExpectQuery(regexp.QuoteMeta(slugExistsQuery)).
		WithArgs("alice-example").
		WillReturnRows(existsRows(true))
	mock.ExpectQuery(regexp.QuoteMeta(slugExistsQuery)).
		WithArgs("alice-example-1").
		WillReturnRows(existsRows(false))
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("Alice-Example", "Alice", "Example", 25, "alice-example-1").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))

	user := &domain.User{Username: "Alice-Example", FirstName: "Alice", LastName: "Example", Age: 25}
	err := s.Create(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, "alice-example-1", user.Slug)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreCreateDuplicateUsername(t *testing.T) {
	s, mock := newUserStoreMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(usernameExistsQuery)).
		WithArgs("bob").
		WillReturnRows(existsRows(true))

	user := &domain.User{Username: "bob", FirstName: "Bob", LastName: "Lee", Age: 30}
	err := s.Create(context.Background(), user)

	assert.ErrorIs(t, err, store.ErrUsernameExists)
	// No insert happened.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreCreateLosesInsertRace(t *testing.T) {
	s, mock := newUserStoreMock(t)

	// Pre-checks pass, but a concurrent create wins at the unique index.
	mock.ExpectQuery(regexp.QuoteMeta(usernameExistsQuery)).
		WithArgs("bob").
		WillReturnRows(existsRows(false))
	mock.ExpectQuery(regexp.QuoteMeta(slugExistsQuery)).
		WithArgs("bob").
		WillReturnRows(existsRows(false))
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("bob", "Bob", "Lee", 30, "bob").
		WillReturnError(&pgconn.PgError{Code: uniqueViolationCode, ConstraintName: "users_username_key"})

	user := &domain.User{Username: "bob", FirstName: "Bob", LastName: "Lee", Age: 30}
	err := s.Create(context.Background(), user)

	assert.ErrorIs(t, err, store.ErrUsernameExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreCreateInvalidUser(t *testing.T) {
	s, _ := newUserStoreMock(t)

	err := s.Create(context.Background(), &domain.User{Username: "", Age: 1})
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
}

func TestUserStoreGetByID(t *testing.T) {
	s, mock := newUserStoreMock(t)

	want := domain.User{ID: 3, Username: "bob", FirstName: "Bob", LastName: "Lee", Age: 30, Slug: "bob"}
	mock.ExpectQuery("SELECT id, username, firstname, lastname, age, slug FROM users WHERE").
		WithArgs(int64(3)).
		WillReturnRows(userRows(want))

	got, err := s.GetByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, &want, got)
}

func TestUserStoreGetByIDNotFound(t *testing.T) {
	s, mock := newUserStoreMock(t)

	mock.ExpectQuery("SELECT id, username, firstname, lastname, age, slug FROM users WHERE").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	got, err := s.GetByID(context.Background(), 99)

	assert.Nil(t, got)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStoreList(t *testing.T) {
	s, mock := newUserStoreMock(t)

	first := domain.User{ID: 1, Username: "bob", FirstName: "Bob", LastName: "Lee", Age: 30, Slug: "bob"}
	second := domain.User{ID: 2, Username: "alice", FirstName: "Alice", LastName: "Example", Age: 25, Slug: "alice"}
	mock.ExpectQuery("SELECT id, username, firstname, lastname, age, slug FROM users ORDER BY id").
		WillReturnRows(userRows(first, second))

	users, err := s.List(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []domain.User{first, second}, users)
}

func TestUserStoreListEmpty(t *testing.T) {
	s, mock := newUserStoreMock(t)

	mock.ExpectQuery("SELECT id, username, firstname, lastname, age, slug FROM users ORDER BY id").
		WillReturnRows(userRows())

	users, err := s.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, users, "List should return an empty slice, not nil")
	assert.Empty(t, users)
}

func TestUserStoreUpdate(t *testing.T) {
	s, mock := newUserStoreMock(t)

	mock.ExpectExec("UPDATE users SET").
		WithArgs("Bob", "Lee", 31, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := s.Update(context.Background(), 3, "Bob", "Lee", 31)
	assert.NoError(t, err)
}

func TestUserStoreUpdateNotFound(t *testing.T) {
	s, mock := newUserStoreMock(t)

	mock.ExpectExec("UPDATE users SET").
		WithArgs("Bob", "Lee", 31, int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.Update(context.Background(), 99, "Bob", "Lee", 31)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUserStoreDeleteCascades(t *testing.T) {
	s, mock := newUserStoreMock(t)

	// Tasks and the user row go in one transaction.
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tasks WHERE user_id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec("DELETE FROM users WHERE id").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := s.Delete(context.Background(), 7)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreDeleteNotFoundRollsBack(t *testing.T) {
	s, mock := newUserStoreMock(t)

	// No user row matched: the transaction rolls back, so the task
	// deletes never become visible either.
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM tasks WHERE user_id").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM users WHERE id").
		WithArgs(int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.Delete(context.Background(), 99)

	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserStoreListTasks(t *testing.T) {
	s, mock := newUserStoreMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(userExistsQuery)).
		WithArgs(int64(3)).
		WillReturnRows(existsRows(true))
	mock.ExpectQuery("SELECT id, title, content, priority, user_id FROM tasks WHERE user_id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "content", "priority", "user_id"}).
			AddRow(1, "T1", "do x", 1, 3))

	tasks, err := s.ListTasks(context.Background(), 3)

	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.Task{ID: 1, Title: "T1", Content: "do x", Priority: 1, UserID: 3}, tasks[0])
}

func TestUserStoreListTasksUserMissing(t *testing.T) {
	s, mock := newUserStoreMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(userExistsQuery)).
		WithArgs(int64(99)).
		WillReturnRows(existsRows(false))

	tasks, err := s.ListTasks(context.Background(), 99)

	assert.Nil(t, tasks)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
