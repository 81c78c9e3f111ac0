package studentdb

import (
	"strings"
	"time"

	"github.com/uptrace/bun"
)

// Student is a campus user who can join clubs and register for events.
type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID int64 `bun:"id,pk,autoincrement"`
	// StudentID is the roll number. Students created on first registration
	// get the local part of their email.
	StudentID    string    `bun:"student_id,notnull,unique"`
	Name         string    `bun:"name,notnull"`
	Email        string    `bun:"email,notnull,unique"`
	Phone        *string   `bun:"phone"`
	Department   *string   `bun:"department"`
	YearOfStudy  *int      `bun:"year_of_study"`
	PasswordHash *string   `bun:"password_hash"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RollNumberFromEmail derives a roll number from the part before '@'.
func RollNumberFromEmail(email string) string {
	local, _, _ := strings.Cut(NormalizeEmail(email), "@")
	return local
}
