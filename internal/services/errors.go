package services

import "errors"

var (
	// ErrNotFound means the targeted record does not exist.
	ErrNotFound = errors.New("journal entry not found")
	// ErrUnauthorized means the operation needs an owner identity and none was supplied.
	ErrUnauthorized = errors.New("not authenticated")
	// ErrForbidden means the caller is not the owner of the record.
	ErrForbidden = errors.New("journal entry belongs to another user")

	ErrUsernameTaken      = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is inactive")
)
