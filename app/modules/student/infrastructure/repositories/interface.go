package studentdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for students.
//
// Error semantics:
//   - ErrNotFound: requested record does not exist
//   - ErrDuplicate: Create hit a unique constraint
//   - other errors: infrastructure failures
type Repository interface {
	GetByID(ctx context.Context, db bun.IDB, id int64) (*Student, error)
	GetByEmail(ctx context.Context, db bun.IDB, email string) (*Student, error)
	Create(ctx context.Context, db bun.IDB, student *Student) error
	// GetOrCreateByEmail returns the student with the given email, creating
	// one when absent. created reports whether a row was inserted.
	GetOrCreateByEmail(ctx context.Context, db bun.IDB, email, name string, phone *string) (student *Student, created bool, err error)
	// UpdateContact overwrites name and phone when the given value is non-nil.
	UpdateContact(ctx context.Context, db bun.IDB, id int64, name, phone *string) error
	// SetPasswordHash claims an account created without a password.
	SetPasswordHash(ctx context.Context, db bun.IDB, id int64, hash string) error
	Count(ctx context.Context, db bun.IDB) (int, error)
}
