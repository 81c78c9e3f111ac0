package eventdomain

// Allocate admits a request as Registered while the Registered count is below
// maxParticipants, and as Waitlisted once it is reached. A nil maxParticipants
// means unlimited capacity.
//
// Callers must hold a lock that keeps registered stable until the resulting
// row is written.
func Allocate(maxParticipants *int, registered int) RegistrationStatus {
	if maxParticipants == nil || registered < *maxParticipants {
		return StatusRegistered
	}
	return StatusWaitlisted
}

// SpotsLeft returns the remaining Registered slots, or nil when unlimited.
func SpotsLeft(maxParticipants *int, registered int) *int {
	if maxParticipants == nil {
		return nil
	}
	left := max(*maxParticipants-registered, 0)
	return &left
}
