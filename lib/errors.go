package lib

import (
	"database/sql"
	"errors"

	"eterna_server/database"
)

// Database errors
var (
	ErrConflict  = errors.New("conflict")
	ErrNotFound  = errors.New("not found")
	ErrReference = errors.New("referenced record does not exist")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorizedAccess = errors.New("Unauthorized access")
)

// Catalog errors
var (
	ErrEmptyName            = errors.New("name must not be empty")
	ErrConfirmationRequired = errors.New("confirmation required")
)

// UserError carries a message shown to the admin verbatim
type UserError struct {
	Message string
}

func (e *UserError) Error() string {
	return e.Message
}

func NewUserError(message string) error {
	return &UserError{Message: message}
}

// MapPgError translates PostgreSQL failures from either driver into sentinels
func MapPgError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}

	switch database.SQLState(err) { // SQLSTATE
	case "23505": // unique_violation
		return ErrConflict
	case "23503": // foreign_key_violation
		return ErrReference
	case "P0002": // no_data_found
		return ErrNotFound
	}
	return err
}
