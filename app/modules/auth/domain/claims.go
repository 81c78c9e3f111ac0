package authdomain

import (
	"context"
	"time"
)

// Claims represents the domain model for authentication claims.
type Claims struct {
	// UserID is the students.id for student roles and staff_accounts.id for staff roles.
	UserID    int64
	Email     string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// Can reports whether the claims' role grants c. Nil claims grant nothing.
func (c *Claims) Can(want Capability) bool {
	if c == nil {
		return false
	}
	return c.Role.Can(want)
}

type claimsKey struct{}

// WithClaims attaches validated claims to ctx.
func WithClaims(ctx context.Context, c *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, c)
}

// ClaimsFromContext returns the claims set by the auth middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*Claims)
	return c, ok && c != nil
}
