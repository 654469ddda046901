package db

import "errors"

// Error definitions for the registry.
var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found in registry")
	ErrForbidden     = errors.New("teacher does not teach this course")
)
