package authservice

import "github.com/Black-And-White-Club/campus-events/app/shared/apperrors"

var (
	// ErrInvalidCredentials is returned for an unknown email or wrong password.
	ErrInvalidCredentials = apperrors.Unauthenticated("Invalid credentials")

	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = apperrors.Unauthenticated("Invalid or expired token")

	// ErrMissingToken is returned when no token is provided.
	ErrMissingToken = apperrors.Unauthenticated("Authentication required")

	// ErrEmailTaken is returned when registering an email that already has a login.
	ErrEmailTaken = apperrors.Conflict("An account with this email already exists")

	// ErrMissingFields is returned when a registration omits name, email or password.
	ErrMissingFields = apperrors.Validation("Name, email and password are required")

	// ErrWeakPassword is returned for passwords shorter than minPasswordLength.
	ErrWeakPassword = apperrors.Validation("Password must be at least 8 characters")
)
