package clubservice

import "github.com/Black-And-White-Club/campus-events/app/shared/apperrors"

var (
	ErrClubNotFound       = apperrors.NotFound("Club not found")
	ErrStudentNotFound    = apperrors.NotFound("Student not found")
	ErrAlreadyMember      = apperrors.Conflict("Already a member of this club")
	ErrDuplicateName      = apperrors.Conflict("Club with this name already exists")
	ErrHasUpcomingEvents  = apperrors.Conflict("Cannot delete club with active or upcoming events")
	ErrNameRequired       = apperrors.Validation("Club name is required")
	ErrNoFields           = apperrors.Validation("No fields to update")
	ErrEmailRequired      = apperrors.Validation("Email is required")
	ErrStudentIDRequired  = apperrors.Validation("Student ID is required")
	ErrInvalidCoordinator = apperrors.Validation("Invalid faculty coordinator ID")
)
