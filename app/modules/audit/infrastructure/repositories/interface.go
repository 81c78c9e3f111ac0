package auditdb

import (
	"context"

	"github.com/uptrace/bun"
)

// Repository exposes the admin audit log. It is append-only.
type Repository interface {
	// Append inserts entry. It reports false when an entry with the same
	// MessageID already exists.
	Append(ctx context.Context, db bun.IDB, entry *Entry) (bool, error)
	ListRecent(ctx context.Context, db bun.IDB, limit int) ([]Entry, error)
}
