package clubdb

import (
	"time"

	"github.com/uptrace/bun"
)

// MembershipRole is a student's role within one club.
type MembershipRole string

const (
	RoleMember MembershipRole = "Member"
	RoleHead   MembershipRole = "Head"
)

// MembershipStatus marks whether a membership currently counts.
type MembershipStatus string

const (
	MembershipActive   MembershipStatus = "Active"
	MembershipInactive MembershipStatus = "Inactive"
)

// Club is an organizing body. Deleted clubs keep their row with IsActive false.
type Club struct {
	bun.BaseModel `bun:"table:clubs,alias:c"`

	ID                   int64     `bun:"id,pk,autoincrement" json:"id"`
	Name                 string    `bun:"name,notnull,unique" json:"name"`
	Description          *string   `bun:"description" json:"description,omitempty"`
	FacultyCoordinatorID *int64    `bun:"faculty_coordinator_id" json:"faculty_coordinator_id,omitempty"`
	CreatedByAdminID     *int64    `bun:"created_by_admin_id" json:"created_by_admin_id,omitempty"`
	IsActive             bool      `bun:"is_active,notnull,default:true" json:"is_active"`
	CreatedAt            time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt            time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Membership links a student to a club.
type Membership struct {
	bun.BaseModel `bun:"table:club_memberships,alias:cm"`

	ID                int64            `bun:"id,pk,autoincrement" json:"id"`
	StudentID         int64            `bun:"student_id,notnull" json:"student_id"`
	ClubID            int64            `bun:"club_id,notnull" json:"club_id"`
	Role              MembershipRole   `bun:"role,notnull" json:"role"`
	Status            MembershipStatus `bun:"status,notnull" json:"status"`
	ApprovedByAdminID *int64           `bun:"approved_by_admin_id" json:"approved_by_admin_id,omitempty"`
	JoinDate          time.Time        `bun:"join_date,notnull,default:current_timestamp" json:"join_date"`
}

// ClubSummary is a club with its active member count and current head.
type ClubSummary struct {
	Club `bun:",extend"`

	FacultyCoordinator *string `bun:"faculty_coordinator" json:"faculty_coordinator,omitempty"`
	MemberCount        int     `bun:"member_count" json:"member_count"`
	HeadName           *string `bun:"head_name" json:"head_name,omitempty"`
	HeadEmail          *string `bun:"head_email" json:"head_email,omitempty"`
}

// Member is one active membership joined with its student.
type Member struct {
	ID         int64          `bun:"id" json:"id"`
	RollNumber string         `bun:"student_id" json:"student_id"`
	Name       string         `bun:"name" json:"name"`
	Email      string         `bun:"email" json:"email"`
	Role       MembershipRole `bun:"role" json:"role"`
	JoinDate   time.Time      `bun:"join_date" json:"join_date"`
}

// ClubUpdate carries the fields an admin may change. Nil leaves a field as is.
type ClubUpdate struct {
	Name                 *string
	Description          *string
	FacultyCoordinatorID *int64
	IsActive             *bool
}

// Empty reports whether the update changes nothing.
func (u ClubUpdate) Empty() bool {
	return u.Name == nil && u.Description == nil && u.FacultyCoordinatorID == nil && u.IsActive == nil
}

// ClubCounts feeds the admin dashboard.
type ClubCounts struct {
	Total  int `bun:"total" json:"total"`
	Active int `bun:"active" json:"active"`
}
