package eventdomain

import (
	"errors"
	"time"
)

// EventStatus is the approval lifecycle of an event.
type EventStatus string

const (
	EventPendingApproval EventStatus = "Pending_Approval"
	EventApproved        EventStatus = "Approved"
	EventRejected        EventStatus = "Rejected"
	EventCompleted       EventStatus = "Completed"
)

// BookingStatus tracks the venue booking attached to an event.
type BookingStatus string

const (
	BookingPending   BookingStatus = "Pending"
	BookingConfirmed BookingStatus = "Confirmed"
	BookingCancelled BookingStatus = "Cancelled"
)

var (
	ErrNotOpen         = errors.New("event is not open for registration")
	ErrDeadlinePassed  = errors.New("registration deadline has passed")
	ErrReasonRequired  = errors.New("rejection reason is required")
	ErrAlreadyDecided  = errors.New("event is not pending approval")
	ErrUnknownDecision = errors.New("unknown approval decision")
)

// RegistrationOpen reports whether an event in the given status with the given
// deadline accepts registrations at now. A nil deadline never closes.
func RegistrationOpen(status EventStatus, deadline *time.Time, now time.Time) error {
	if status != EventApproved {
		return ErrNotOpen
	}
	if deadline != nil && now.After(*deadline) {
		return ErrDeadlinePassed
	}
	return nil
}

// Decision is an admin's verdict on a pending event.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// Outcome is what a decision does to the event and its venue booking.
type Outcome struct {
	EventStatus   EventStatus
	BookingStatus BookingStatus
}

// Decide validates a decision against the event's current status. Only
// Pending_Approval events can be decided, and a rejection needs a reason.
func Decide(current EventStatus, d Decision, reason string) (Outcome, error) {
	var out Outcome
	switch d {
	case DecisionApprove:
		out = Outcome{EventStatus: EventApproved, BookingStatus: BookingConfirmed}
	case DecisionReject:
		if reason == "" {
			return Outcome{}, ErrReasonRequired
		}
		out = Outcome{EventStatus: EventRejected, BookingStatus: BookingCancelled}
	default:
		return Outcome{}, ErrUnknownDecision
	}
	if current != EventPendingApproval {
		return Outcome{}, ErrAlreadyDecided
	}
	return out, nil
}
