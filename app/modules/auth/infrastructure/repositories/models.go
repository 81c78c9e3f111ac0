package authdb

import (
	"time"

	"github.com/uptrace/bun"
)

// StaffAccount is a faculty or admin login.
type StaffAccount struct {
	bun.BaseModel `bun:"table:staff_accounts,alias:sa"`

	ID           int64     `bun:"id,pk,autoincrement"`
	Name         string    `bun:"name,notnull"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         string    `bun:"role,notnull"`
	Department   *string   `bun:"department"`
	IsActive     bool      `bun:"is_active,notnull,default:true"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
