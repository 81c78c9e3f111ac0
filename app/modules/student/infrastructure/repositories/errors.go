package studentdb

import "errors"

// Sentinel errors for the student repository layer.
var (
	// ErrNotFound indicates the requested student does not exist.
	ErrNotFound = errors.New("student record not found")

	// ErrDuplicate indicates the email or roll number is already taken.
	ErrDuplicate = errors.New("student already exists")
)
