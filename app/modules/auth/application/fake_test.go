package authservice

import (
	"context"
	"time"

	authdomain "github.com/Black-And-White-Club/campus-events/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/jwt"
	authdb "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/uptrace/bun"
)

// ------------------------
// Fake JWT Provider
// ------------------------

type FakeJWTProvider struct {
	trace []string

	GenerateTokenFunc func(claims *authdomain.Claims, ttl time.Duration) (string, error)
	ValidateTokenFunc func(tokenString string) (*authdomain.Claims, error)

	lastClaims *authdomain.Claims
}

func (f *FakeJWTProvider) Trace() []string { return f.trace }

func (f *FakeJWTProvider) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeJWTProvider) GenerateToken(claims *authdomain.Claims, ttl time.Duration) (string, error) {
	f.record("GenerateToken")
	f.lastClaims = claims
	if f.GenerateTokenFunc != nil {
		return f.GenerateTokenFunc(claims, ttl)
	}
	return "fake-token", nil
}

func (f *FakeJWTProvider) ValidateToken(tokenString string) (*authdomain.Claims, error) {
	f.record("ValidateToken")
	if f.ValidateTokenFunc != nil {
		return f.ValidateTokenFunc(tokenString)
	}
	return &authdomain.Claims{UserID: 1, Role: authdomain.RoleStudent}, nil
}

// ------------------------
// Fake Student Repository
// ------------------------

type FakeStudentRepo struct {
	trace []string

	GetByEmailFunc      func(ctx context.Context, email string) (*studentdb.Student, error)
	CreateFunc          func(ctx context.Context, student *studentdb.Student) error
	SetPasswordHashFunc func(ctx context.Context, id int64, hash string) error
}

func (f *FakeStudentRepo) Trace() []string { return f.trace }

func (f *FakeStudentRepo) record(step string) { f.trace = append(f.trace, step) }

func (f *FakeStudentRepo) GetByID(ctx context.Context, db bun.IDB, id int64) (*studentdb.Student, error) {
	f.record("GetByID")
	return nil, studentdb.ErrNotFound
}

func (f *FakeStudentRepo) GetByEmail(ctx context.Context, db bun.IDB, email string) (*studentdb.Student, error) {
	f.record("GetByEmail")
	if f.GetByEmailFunc != nil {
		return f.GetByEmailFunc(ctx, email)
	}
	return nil, studentdb.ErrNotFound
}

func (f *FakeStudentRepo) Create(ctx context.Context, db bun.IDB, student *studentdb.Student) error {
	f.record("Create")
	if f.CreateFunc != nil {
		return f.CreateFunc(ctx, student)
	}
	student.ID = 100
	return nil
}

func (f *FakeStudentRepo) GetOrCreateByEmail(ctx context.Context, db bun.IDB, email, name string, phone *string) (*studentdb.Student, bool, error) {
	f.record("GetOrCreateByEmail")
	return nil, false, studentdb.ErrNotFound
}

func (f *FakeStudentRepo) UpdateContact(ctx context.Context, db bun.IDB, id int64, name, phone *string) error {
	f.record("UpdateContact")
	return nil
}

func (f *FakeStudentRepo) SetPasswordHash(ctx context.Context, db bun.IDB, id int64, hash string) error {
	f.record("SetPasswordHash")
	if f.SetPasswordHashFunc != nil {
		return f.SetPasswordHashFunc(ctx, id, hash)
	}
	return nil
}

func (f *FakeStudentRepo) Count(ctx context.Context, db bun.IDB) (int, error) {
	f.record("Count")
	return 0, nil
}

// ------------------------
// Fake Staff Repository
// ------------------------

type FakeStaffRepo struct {
	trace []string

	GetActiveByEmailFunc func(ctx context.Context, email string) (*authdb.StaffAccount, error)
}

func (f *FakeStaffRepo) GetActiveByEmail(ctx context.Context, db bun.IDB, email string) (*authdb.StaffAccount, error) {
	f.trace = append(f.trace, "GetActiveByEmail")
	if f.GetActiveByEmailFunc != nil {
		return f.GetActiveByEmailFunc(ctx, email)
	}
	return nil, authdb.ErrNotFound
}

func (f *FakeStaffRepo) Create(ctx context.Context, db bun.IDB, account *authdb.StaffAccount) error {
	f.trace = append(f.trace, "Create")
	return nil
}

// ------------------------
// Fake Head Lookup
// ------------------------

type FakeHeadLookup struct {
	IsHead bool
	Err    error
}

func (f *FakeHeadLookup) IsActiveHeadOfAnyClub(ctx context.Context, db bun.IDB, studentID int64) (bool, error) {
	return f.IsHead, f.Err
}

// Interface assertions
var (
	_ authjwt.Provider     = (*FakeJWTProvider)(nil)
	_ studentdb.Repository = (*FakeStudentRepo)(nil)
	_ authdb.Repository    = (*FakeStaffRepo)(nil)
	_ HeadLookup           = (*FakeHeadLookup)(nil)
)
