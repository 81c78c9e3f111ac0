package authhandlers

import (
	"context"

	authservice "github.com/Black-And-White-Club/campus-events/app/modules/auth/application"
	authdomain "github.com/Black-And-White-Club/campus-events/app/modules/auth/domain"
)

// ------------------------
// Fake Service
// ------------------------

type FakeService struct {
	RegisterStudentFunc func(ctx context.Context, req authservice.RegisterStudentRequest) (*authservice.Session, error)
	LoginStudentFunc    func(ctx context.Context, email, password string) (*authservice.Session, error)
	LoginStaffFunc      func(ctx context.Context, email, password string) (*authservice.Session, error)
	ValidateTokenFunc   func(ctx context.Context, tokenString string) (*authdomain.Claims, error)
}

func (f *FakeService) RegisterStudent(ctx context.Context, req authservice.RegisterStudentRequest) (*authservice.Session, error) {
	if f.RegisterStudentFunc != nil {
		return f.RegisterStudentFunc(ctx, req)
	}
	return &authservice.Session{Token: "t", User: authservice.UserInfo{ID: 1, Role: authdomain.RoleStudent}}, nil
}

func (f *FakeService) LoginStudent(ctx context.Context, email, password string) (*authservice.Session, error) {
	if f.LoginStudentFunc != nil {
		return f.LoginStudentFunc(ctx, email, password)
	}
	return &authservice.Session{Token: "student-token"}, nil
}

func (f *FakeService) LoginStaff(ctx context.Context, email, password string) (*authservice.Session, error) {
	if f.LoginStaffFunc != nil {
		return f.LoginStaffFunc(ctx, email, password)
	}
	return &authservice.Session{Token: "staff-token"}, nil
}

func (f *FakeService) ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error) {
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(ctx, tokenString)
	}
	return &authdomain.Claims{}, nil
}

var _ authservice.Service = (*FakeService)(nil)
