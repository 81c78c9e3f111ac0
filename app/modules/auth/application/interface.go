package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/campus-events/app/modules/auth/domain"
	"github.com/uptrace/bun"
)

// Service defines the authentication service interface.
type Service interface {
	// RegisterStudent creates a student login, or claims a student row that was
	// created without a password by an earlier event registration.
	RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*Session, error)

	// LoginStudent checks a student's password and issues a token.
	LoginStudent(ctx context.Context, email, password string) (*Session, error)

	// LoginStaff checks a faculty/admin password and issues a token.
	LoginStaff(ctx context.Context, email, password string) (*Session, error)

	// ValidateToken validates a JWT token and returns the claims if valid.
	ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error)
}

// HeadLookup tells whether a student heads any active club. The club
// repository satisfies it.
type HeadLookup interface {
	IsActiveHeadOfAnyClub(ctx context.Context, db bun.IDB, studentID int64) (bool, error)
}

type RegisterStudentRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// UserInfo is the public part of a session.
type UserInfo struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Email string          `json:"email"`
	Role  authdomain.Role `json:"role"`
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      UserInfo  `json:"user"`
}
