// Package domain contains the core entity types of the task manager.
package domain

import "errors"

// Common validation errors
var (
	ErrEmptyUsername = errors.New("username cannot be empty")
	ErrNegativeAge   = errors.New("age cannot be negative")
)

// User represents a registered user of the task manager.
// ID and Slug are assigned by the store at creation time and are
// immutable afterwards, as is Username.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
	Age       int    `json:"age"`
	Slug      string `json:"slug"`
}

// NewUser creates a new User with the given fields.
// The ID and Slug are left zero; the store assigns both on Create.
// Returns an error if validation fails.
func NewUser(username, firstName, lastName string, age int) (*User, error) {
	user := &User{
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Age:       age,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks if the User has valid data.
// Returns an error if any field fails validation.
func (u *User) Validate() error {
	if u.Username == "" {
		return ErrEmptyUsername
	}

	if u.Age < 0 {
		return ErrNegativeAge
	}

	return nil
}
