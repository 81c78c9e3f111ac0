package auditdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new audit log repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) Append(ctx context.Context, db bun.IDB, entry *Entry) (bool, error) {
	db = r.resolveDB(db)
	res, err := db.NewInsert().
		Model(entry).
		On("CONFLICT (message_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to append audit entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read audit insert result: %w", err)
	}
	return n > 0, nil
}

func (r *Impl) ListRecent(ctx context.Context, db bun.IDB, limit int) ([]Entry, error) {
	db = r.resolveDB(db)
	entries := make([]Entry, 0, limit)
	err := db.NewSelect().
		Model(&entries).
		OrderExpr("al.created_at DESC, al.id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
