package auditdb

import (
	"time"

	"github.com/uptrace/bun"
)

// Entry is one row of the append-only admin audit log. MessageID is the bus
// message UUID and makes redelivered messages idempotent.
type Entry struct {
	bun.BaseModel `bun:"table:admin_audit_log,alias:al"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	MessageID   *string   `bun:"message_id" json:"-"`
	ActorID     int64     `bun:"actor_id,notnull" json:"actor_id"`
	ActorRole   string    `bun:"actor_role,notnull" json:"actor_role"`
	ActionType  string    `bun:"action_type,notnull" json:"action_type"`
	TargetType  string    `bun:"target_type,notnull" json:"target_type"`
	TargetID    int64     `bun:"target_id,notnull" json:"target_id"`
	Description string    `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
}
