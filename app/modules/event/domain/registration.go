package eventdomain

import "errors"

// RegistrationStatus is the per (student, event) registration state.
type RegistrationStatus string

const (
	// StatusNone marks the absence of a registration row.
	StatusNone       RegistrationStatus = ""
	StatusRegistered RegistrationStatus = "Registered"
	StatusWaitlisted RegistrationStatus = "Waitlisted"
	StatusCancelled  RegistrationStatus = "Cancelled"
)

// IsActive is true for Registered and Waitlisted.
func (s RegistrationStatus) IsActive() bool {
	return s == StatusRegistered || s == StatusWaitlisted
}

// ActivityAction is the action_type written to the registration activity log.
type ActivityAction string

const (
	ActionInsert     ActivityAction = "INSERT"
	ActionCancel     ActivityAction = "CANCEL"
	ActionReactivate ActivityAction = "REACTIVATE"
	ActionWaitlist   ActivityAction = "WAITLIST"
)

var (
	ErrAlreadyRegistered    = errors.New("an active registration already exists")
	ErrNoActiveRegistration = errors.New("no active registration")
)

// Transition is one registration state change.
type Transition struct {
	From   RegistrationStatus
	To     RegistrationStatus
	Action ActivityAction
}

// Delta is the change the transition makes to the event's Registered count.
func (t Transition) Delta() int {
	switch {
	case t.From != StatusRegistered && t.To == StatusRegistered:
		return 1
	case t.From == StatusRegistered && t.To != StatusRegistered:
		return -1
	default:
		return 0
	}
}

// Reuses reports whether the transition updates an existing row.
func (t Transition) Reuses() bool {
	return t.From != StatusNone
}

// PlanAdmission decides the transition for a registration request.
// current is the status of the student's existing row, or StatusNone.
// A cancelled row is reactivated through the allocator like a fresh request,
// so reactivation never overshoots capacity.
func PlanAdmission(current RegistrationStatus, maxParticipants *int, registered int) (Transition, error) {
	if current.IsActive() {
		return Transition{}, ErrAlreadyRegistered
	}

	to := Allocate(maxParticipants, registered)

	t := Transition{From: current, To: to}
	switch {
	case to == StatusWaitlisted:
		t.Action = ActionWaitlist
	case current == StatusCancelled:
		t.Action = ActionReactivate
	default:
		t.Action = ActionInsert
	}
	return t, nil
}

// PlanCancellation decides the transition for a cancellation request.
// Cancelling never promotes a waitlisted registration.
func PlanCancellation(current RegistrationStatus) (Transition, error) {
	if !current.IsActive() {
		return Transition{}, ErrNoActiveRegistration
	}
	return Transition{From: current, To: StatusCancelled, Action: ActionCancel}, nil
}
