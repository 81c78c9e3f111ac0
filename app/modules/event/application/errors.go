package eventservice

import "github.com/Black-And-White-Club/campus-events/app/shared/apperrors"

var (
	ErrEventNotFound        = apperrors.NotFound("Event not found")
	ErrStudentNotFound      = apperrors.NotFound("Student not found")
	ErrRegistrationNotFound = apperrors.NotFound("Registration not found or already cancelled")
	ErrNotPending           = apperrors.NotFound("Event not found or not pending approval")
	ErrVenueNotFound        = apperrors.NotFound("Venue not found")
	ErrNotOpen              = apperrors.InvalidState("This event is not open for registration")
	ErrDeadlinePassed       = apperrors.InvalidState("Registration deadline has passed")
	ErrAlreadyRegistered    = apperrors.Conflict("You are already registered for this event")
	ErrNotClubHead          = apperrors.Forbidden("Only the club head can manage this club's events")
	ErrEmailRequired        = apperrors.Validation("Email is required")
	ErrMissingEventFields   = apperrors.Validation("Name, event date, start time, end time and club are required")
	ErrInvalidDate          = apperrors.Validation("Event date must be YYYY-MM-DD")
	ErrInvalidTime          = apperrors.Validation("Start and end time must be HH:MM with end after start")
	ErrInvalidCapacity      = apperrors.Validation("Max participants must be positive")
	ErrInvalidDeadline      = apperrors.Validation("Registration deadline could not be understood")
	ErrDeadlineAfterEvent   = apperrors.Validation("Registration deadline must not be after the event")
	ErrReasonRequired       = apperrors.Validation("Rejection reason is required")
	ErrInvalidWinners       = apperrors.Validation("Winner positions must be unique and at least 1")
	ErrWinnerNotRegistered  = apperrors.Validation("Every winner must hold a registration for the event")
)
