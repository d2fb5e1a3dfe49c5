package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avbelov/taskman-api/internal/store"
)

// mockResult implements sql.Result for testing
type mockResult struct {
	rowsAffected int64
	err          error
}

func (m mockResult) LastInsertId() (int64, error) {
	return 0, nil
}

func (m mockResult) RowsAffected() (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.rowsAffected, nil
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		expectedError error
		expectedMsg   string
	}{
		{
			name:          "nil_error",
			err:           nil,
			expectedError: nil,
		},
		{
			name:          "sql_no_rows",
			err:           sql.ErrNoRows,
			expectedError: store.ErrNotFound,
		},
		{
			name: "unique_violation",
			err: &pgconn.PgError{
				Code:           uniqueViolationCode,
				ConstraintName: "users_username_key",
			},
			expectedError: store.ErrDuplicate,
		},
		{
			name: "foreign_key_violation",
			err: &pgconn.PgError{
				Code:           foreignKeyViolationCode,
				ConstraintName: "tasks_user_id_fkey",
			},
			expectedError: store.ErrInvalidEntity,
			expectedMsg:   "foreign key violation",
		},
		{
			name: "not_null_violation",
			err: &pgconn.PgError{
				Code:       notNullViolationCode,
				ColumnName: "username",
			},
			expectedError: store.ErrInvalidEntity,
			expectedMsg:   "not null violation",
		},
		{
			name:          "generic_error",
			err:           errors.New("some other error"),
			expectedError: nil,
			expectedMsg:   "some other error",
		},
		{
			name: "unknown_pg_code",
			err: &pgconn.PgError{
				Code:    "99999",
				Message: "unknown error",
			},
			expectedMsg: "99999",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapError(tt.err)

			if tt.err == nil {
				assert.Nil(t, result)
				return
			}

			require.Error(t, result)
			if tt.expectedError != nil {
				assert.ErrorIs(t, result, tt.expectedError)
			}
			if tt.expectedMsg != "" {
				assert.Contains(t, result.Error(), tt.expectedMsg)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, IsUniqueViolation(errors.New("not a pg error")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: foreignKeyViolationCode}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: uniqueViolationCode}))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestCheckRowsAffected(t *testing.T) {
	t.Run("rows_affected", func(t *testing.T) {
		assert.NoError(t, CheckRowsAffected(mockResult{rowsAffected: 1}, store.ErrUserNotFound))
	})

	t.Run("zero_rows_returns_not_found", func(t *testing.T) {
		err := CheckRowsAffected(mockResult{rowsAffected: 0}, store.ErrUserNotFound)
		assert.ErrorIs(t, err, store.ErrUserNotFound)
	})

	t.Run("rows_affected_error_propagates", func(t *testing.T) {
		boom := errors.New("driver does not support RowsAffected")
		err := CheckRowsAffected(mockResult{err: boom}, store.ErrUserNotFound)
		require.Error(t, err)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nil_result", func(t *testing.T) {
		assert.Error(t, CheckRowsAffected(nil, store.ErrUserNotFound))
	})
}
