package authdb

import (
	"context"
	"errors"

	"github.com/uptrace/bun"
)

var (
	// ErrNotFound indicates no active staff account matched.
	ErrNotFound = errors.New("staff account not found")
	// ErrDuplicate indicates the email is already registered.
	ErrDuplicate = errors.New("staff account already exists")
)

// Repository defines persistence for staff accounts.
type Repository interface {
	GetActiveByEmail(ctx context.Context, db bun.IDB, email string) (*StaffAccount, error)
	Create(ctx context.Context, db bun.IDB, account *StaffAccount) error
}
