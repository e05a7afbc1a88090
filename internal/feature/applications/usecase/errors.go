// Package usecase implements the business logic for the applications feature.
package usecase

import "errors"

var (
	// ErrNotFound is returned when no application has the requested ID.
	// Repositories also return it when an owner-scoped read or write matched no row.
	ErrNotFound = errors.New("application not found")

	// ErrForbidden is returned when the application exists but belongs to another user.
	ErrForbidden = errors.New("not authorized to access this application")
)
