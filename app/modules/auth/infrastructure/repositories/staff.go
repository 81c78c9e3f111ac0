package authdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Black-And-White-Club/campus-events/db/bundb"
	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new staff account repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetActiveByEmail(ctx context.Context, db bun.IDB, email string) (*StaffAccount, error) {
	db = r.resolveDB(db)
	account := new(StaffAccount)
	err := db.NewSelect().
		Model(account).
		Where("sa.email = ?", strings.ToLower(strings.TrimSpace(email))).
		Where("sa.is_active = TRUE").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get staff account: %w", err)
	}
	return account, nil
}

func (r *Impl) Create(ctx context.Context, db bun.IDB, account *StaffAccount) error {
	db = r.resolveDB(db)
	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	account.CreatedAt = time.Now().UTC()
	account.IsActive = true
	if _, err := db.NewInsert().Model(account).Returning("id").Exec(ctx); err != nil {
		if bundb.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create staff account: %w", err)
	}
	return nil
}
