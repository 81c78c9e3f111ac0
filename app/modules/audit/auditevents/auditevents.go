// Package auditevents is the contract between modules that perform audited
// actions and the audit module that persists them.
package auditevents

import (
	"context"
	"time"
)

// AdminActionRecordedTopic carries AdminActionRecorded payloads.
const AdminActionRecordedTopic = "audit.admin_action.recorded.v1"

// Action types.
const (
	ActionCreateClub     = "CREATE_CLUB"
	ActionUpdateClub     = "UPDATE_CLUB"
	ActionDeleteClub     = "DELETE_CLUB"
	ActionJoinClub       = "JOIN_CLUB"
	ActionAssignClubHead = "ASSIGN_CLUB_HEAD"
	ActionApproveEvent   = "APPROVE_EVENT"
	ActionRejectEvent    = "REJECT_EVENT"
)

// Target types.
const (
	TargetClub       = "CLUB"
	TargetEvent      = "EVENT"
	TargetMembership = "MEMBERSHIP"
)

// AdminActionRecorded describes one audited action. ActorID is a staff
// account id for admin actions and a student id for ActorRole "student".
type AdminActionRecorded struct {
	ActorID     int64     `json:"actor_id"`
	ActorRole   string    `json:"actor_role"`
	ActionType  string    `json:"action_type"`
	TargetType  string    `json:"target_type"`
	TargetID    int64     `json:"target_id"`
	Description string    `json:"description"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Recorder accepts audit entries after the audited transaction commits.
// Recording is best effort: implementations log failures and never return them.
type Recorder interface {
	Record(ctx context.Context, entry AdminActionRecorded)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(ctx context.Context, entry AdminActionRecorded)

func (f RecorderFunc) Record(ctx context.Context, entry AdminActionRecorded) { f(ctx, entry) }

// Discard drops every entry.
var Discard Recorder = RecorderFunc(func(context.Context, AdminActionRecorded) {})
