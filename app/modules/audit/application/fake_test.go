package auditservice

import (
	"context"

	auditdb "github.com/Black-And-White-Club/campus-events/app/modules/audit/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// FakeAuditRepo is a programmable fake for auditdb.Repository.
type FakeAuditRepo struct {
	trace []string

	AppendFunc     func(ctx context.Context, db bun.IDB, entry *auditdb.Entry) (bool, error)
	ListRecentFunc func(ctx context.Context, db bun.IDB, limit int) ([]auditdb.Entry, error)
}

func (f *FakeAuditRepo) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeAuditRepo) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

func (f *FakeAuditRepo) Append(ctx context.Context, db bun.IDB, entry *auditdb.Entry) (bool, error) {
	f.record("Append")
	if f.AppendFunc != nil {
		return f.AppendFunc(ctx, db, entry)
	}
	return true, nil
}

func (f *FakeAuditRepo) ListRecent(ctx context.Context, db bun.IDB, limit int) ([]auditdb.Entry, error) {
	f.record("ListRecent")
	if f.ListRecentFunc != nil {
		return f.ListRecentFunc(ctx, db, limit)
	}
	return nil, nil
}

var _ auditdb.Repository = (*FakeAuditRepo)(nil)
