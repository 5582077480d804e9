package errors

import "errors"

// Common application errors shared across repositories, services and handlers.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized is returned for authentication failures (bad credentials, bad token).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller lacks permission for the action.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation is returned for invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken is returned when a token (refresh or reset) has expired.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict is returned for state conflicts (duplicate email, duplicate invoice number).
	ErrConflict = errors.New("resource state conflict")
)
