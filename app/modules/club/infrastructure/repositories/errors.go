package clubdb

import "errors"

var (
	// ErrNotFound is returned when a club or membership is not found.
	ErrNotFound = errors.New("club not found")
	// ErrDuplicate is returned when a club name or membership already exists.
	ErrDuplicate = errors.New("club already exists")
	// ErrInvalidReference is returned when a referenced staff account or student does not exist.
	ErrInvalidReference = errors.New("referenced record does not exist")
)
