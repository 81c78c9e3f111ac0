package eventdb

import "errors"

var (
	// ErrNotFound indicates the requested row does not exist.
	ErrNotFound = errors.New("event record not found")

	// ErrNotPending indicates a decision matched no Pending_Approval event.
	ErrNotPending = errors.New("event not found or not pending approval")

	// ErrStatusChanged indicates a conditional registration update matched no row.
	ErrStatusChanged = errors.New("registration status changed concurrently")

	// ErrDuplicate indicates a unique constraint rejected an insert.
	ErrDuplicate = errors.New("duplicate record")
)
