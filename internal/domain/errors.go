package domain

import "errors"

var (
	// ErrInvalidInput indicates a missing or empty required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrConflict indicates a duplicate unique key, e.g. an email already registered.
	ErrConflict = errors.New("conflict")
	// ErrUnauthorized indicates a missing, unknown or superseded session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is the single login failure; it never says which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
)
