package studentdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Black-And-White-Club/campus-events/db/bundb"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new student repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Student, error) {
	db = r.resolveDB(db)
	student := new(Student)
	err := db.NewSelect().Model(student).Where("s.id = ?", id).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get student by id: %w", err)
	}
	return student, nil
}

// GetByEmail looks a student up by normalized email.
func (r *Impl) GetByEmail(ctx context.Context, db bun.IDB, email string) (*Student, error) {
	db = r.resolveDB(db)
	student := new(Student)
	err := db.NewSelect().Model(student).Where("s.email = ?", NormalizeEmail(email)).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get student by email: %w", err)
	}
	return student, nil
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, student *Student) error {
	db = r.resolveDB(db)
	student.Email = NormalizeEmail(student.Email)
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	if _, err := db.NewInsert().Model(student).Returning("id").Exec(ctx); err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

func (r *Impl) UpdateContact(ctx context.Context, db bun.IDB, id int64, name, phone *string) error {
	if name == nil && phone == nil {
		return nil
	}
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Student)(nil)).
		Set("name = COALESCE(?, name)", name).
		Set("phone = COALESCE(?, phone)", phone).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to update student contact: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) SetPasswordHash(ctx context.Context, db bun.IDB, id int64, hash string) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Student)(nil)).
		Set("password_hash = ?", hash).
		Set("updated_at = ?", time.Now().UTC()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to set password hash: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Impl) Count(ctx context.Context, db bun.IDB) (int, error) {
	db = r.resolveDB(db)
	n, err := db.NewSelect().Model((*Student)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return n, nil
}

// GetOrCreateByEmail inserts with ON CONFLICT DO NOTHING so a concurrent
// creator does not abort the caller's transaction. If the derived roll
// number is taken by another email, the full email is used instead.
func (r *Impl) GetOrCreateByEmail(ctx context.Context, db bun.IDB, email, name string, phone *string) (*Student, bool, error) {
	db = r.resolveDB(db)
	email = NormalizeEmail(email)

	for _, roll := range []string{RollNumberFromEmail(email), email} {
		now := time.Now().UTC()
		student := &Student{
			StudentID: roll,
			Name:      name,
			Email:     email,
			Phone:     phone,
			CreatedAt: now,
			UpdatedAt: now,
		}
		result, err := db.NewInsert().Model(student).On("CONFLICT DO NOTHING").Returning("id").Exec(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("failed to create student: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows > 0 {
			return student, true, nil
		}

		existing, err := r.GetByEmail(ctx, db, email)
		if err == nil {
			return existing, false, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, false, err
		}
	}
	return nil, false, ErrDuplicate
}
