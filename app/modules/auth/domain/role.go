package authdomain

// Role represents a user's role for authorization purposes. The set is
// closed: any value other than the constants below is rejected by IsValid and
// grants nothing.
type Role string

const (
	RoleStudent  Role = "student"
	RoleClubHead Role = "club_head"
	RoleFaculty  Role = "faculty"
	RoleAdmin    Role = "admin"
)

// Capability names one action a role may be allowed to perform.
type Capability string

const (
	CapViewEvents             Capability = "view_events"
	CapRegisterEvent          Capability = "register_event"
	CapCancelRegistration     Capability = "cancel_registration"
	CapJoinClub               Capability = "join_club"
	CapCreateEvent            Capability = "create_event"
	CapManageClubMembers      Capability = "manage_club_members"
	CapViewEventRegistrations Capability = "view_event_registrations"
	CapCoordinateClub         Capability = "coordinate_club"
	CapApproveMinorEvents     Capability = "approve_minor_events"
	CapApproveEvent           Capability = "approve_event"
	CapRejectEvent            Capability = "reject_event"
	CapCreateClub             Capability = "create_club"
	CapUpdateClub             Capability = "update_club"
	CapDeleteClub             Capability = "delete_club"
	CapManageVenues           Capability = "manage_venues"
	CapViewDashboard          Capability = "view_dashboard"
	CapViewAuditLog           Capability = "view_audit_log"
)

var studentCapabilities = []Capability{
	CapViewEvents,
	CapRegisterEvent,
	CapCancelRegistration,
	CapJoinClub,
}

var capabilities = map[Role]map[Capability]struct{}{
	RoleStudent: setOf(studentCapabilities...),
	RoleClubHead: setOf(append([]Capability{
		CapCreateEvent,
		CapManageClubMembers,
		CapViewEventRegistrations,
	}, studentCapabilities...)...),
	RoleFaculty: setOf(
		CapViewEvents,
		CapCoordinateClub,
		CapApproveMinorEvents,
	),
	RoleAdmin: setOf(
		CapViewEvents,
		CapApproveEvent,
		CapRejectEvent,
		CapCreateClub,
		CapUpdateClub,
		CapDeleteClub,
		CapManageClubMembers,
		CapManageVenues,
		CapViewDashboard,
		CapViewAuditLog,
	),
}

func setOf(caps ...Capability) map[Capability]struct{} {
	out := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		out[c] = struct{}{}
	}
	return out
}

// IsValid checks if the role is a valid value.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleClubHead, RoleFaculty, RoleAdmin:
		return true
	default:
		return false
	}
}

// Can reports whether the role grants c.
func (r Role) Can(c Capability) bool {
	_, ok := capabilities[r][c]
	return ok
}

// Capabilities lists what the role grants, in no particular order.
func (r Role) Capabilities() []Capability {
	out := make([]Capability, 0, len(capabilities[r]))
	for c := range capabilities[r] {
		out = append(out, c)
	}
	return out
}

// IsStaff is true for roles held by faculty/admin accounts rather than students.
func (r Role) IsStaff() bool {
	return r == RoleFaculty || r == RoleAdmin
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}
