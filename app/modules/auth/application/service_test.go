package authservice

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	authdomain "github.com/Black-And-White-Club/campus-events/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/jwt"
	authdb "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/crypto/bcrypt"
)

func hashFor(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func newTestService(students *FakeStudentRepo, staff *FakeStaffRepo, heads *FakeHeadLookup, jwt *FakeJWTProvider) Service {
	return NewService(
		jwt, students, staff, heads,
		Config{BcryptCost: bcrypt.MinCost},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
}

func TestService_LoginStudent(t *testing.T) {
	hash := hashFor(t, "correct-horse")

	tests := []struct {
		name      string
		email     string
		password  string
		student   *studentdb.Student
		isHead    bool
		expectErr error
		wantRole  authdomain.Role
	}{
		{
			name:     "student login",
			email:    "asha@college.edu",
			password: "correct-horse",
			student:  &studentdb.Student{ID: 7, Name: "Asha", Email: "asha@college.edu", PasswordHash: &hash},
			wantRole: authdomain.RoleStudent,
		},
		{
			name:     "club head login",
			email:    "asha@college.edu",
			password: "correct-horse",
			student:  &studentdb.Student{ID: 7, Name: "Asha", Email: "asha@college.edu", PasswordHash: &hash},
			isHead:   true,
			wantRole: authdomain.RoleClubHead,
		},
		{
			name:      "wrong password",
			email:     "asha@college.edu",
			password:  "nope-nope",
			student:   &studentdb.Student{ID: 7, PasswordHash: &hash},
			expectErr: ErrInvalidCredentials,
		},
		{
			name:      "account created without password",
			email:     "asha@college.edu",
			password:  "correct-horse",
			student:   &studentdb.Student{ID: 7},
			expectErr: ErrInvalidCredentials,
		},
		{
			name:      "unknown email",
			email:     "ghost@college.edu",
			password:  "whatever1",
			expectErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			students := &FakeStudentRepo{
				GetByEmailFunc: func(ctx context.Context, email string) (*studentdb.Student, error) {
					if tt.student == nil {
						return nil, studentdb.ErrNotFound
					}
					return tt.student, nil
				},
			}
			jwt := &FakeJWTProvider{}
			svc := newTestService(students, &FakeStaffRepo{}, &FakeHeadLookup{IsHead: tt.isHead}, jwt)

			session, err := svc.LoginStudent(context.Background(), tt.email, tt.password)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Nil(t, session)
				assert.Empty(t, jwt.Trace())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "fake-token", session.Token)
			assert.Equal(t, tt.wantRole, session.User.Role)
			assert.Equal(t, tt.student.ID, jwt.lastClaims.UserID)
			assert.Equal(t, tt.wantRole, jwt.lastClaims.Role)
		})
	}
}

func TestService_LoginStaff(t *testing.T) {
	hash := hashFor(t, "admin-pass")

	tests := []struct {
		name      string
		account   *authdb.StaffAccount
		password  string
		expectErr error
		wantRole  authdomain.Role
	}{
		{
			name:     "admin",
			account:  &authdb.StaffAccount{ID: 1, Email: "dean@college.edu", PasswordHash: hash, Role: "admin"},
			password: "admin-pass",
			wantRole: authdomain.RoleAdmin,
		},
		{
			name:     "faculty",
			account:  &authdb.StaffAccount{ID: 2, Email: "prof@college.edu", PasswordHash: hash, Role: "faculty"},
			password: "admin-pass",
			wantRole: authdomain.RoleFaculty,
		},
		{
			name:      "corrupt role never grants access",
			account:   &authdb.StaffAccount{ID: 3, PasswordHash: hash, Role: "student"},
			password:  "admin-pass",
			expectErr: ErrInvalidCredentials,
		},
		{
			name:      "wrong password",
			account:   &authdb.StaffAccount{ID: 1, PasswordHash: hash, Role: "admin"},
			password:  "guess",
			expectErr: ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			staff := &FakeStaffRepo{
				GetActiveByEmailFunc: func(ctx context.Context, email string) (*authdb.StaffAccount, error) {
					return tt.account, nil
				},
			}
			svc := newTestService(&FakeStudentRepo{}, staff, &FakeHeadLookup{}, &FakeJWTProvider{})

			session, err := svc.LoginStaff(context.Background(), "x@college.edu", tt.password)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, session.User.Role)
		})
	}
}

func TestService_RegisterStudent(t *testing.T) {
	existingHash := "already"

	tests := []struct {
		name      string
		req       RegisterStudentRequest
		existing  *studentdb.Student
		createErr error
		expectErr error
		wantTrace []string
	}{
		{
			name:      "new student",
			req:       RegisterStudentRequest{Name: "Asha", Email: "Asha@College.edu", Password: "long-enough"},
			wantTrace: []string{"GetByEmail", "Create"},
		},
		{
			name:      "claims passwordless row",
			req:       RegisterStudentRequest{Name: "Asha", Email: "asha@college.edu", Password: "long-enough"},
			existing:  &studentdb.Student{ID: 5, Email: "asha@college.edu"},
			wantTrace: []string{"GetByEmail", "SetPasswordHash", "UpdateContact"},
		},
		{
			name:      "email taken",
			req:       RegisterStudentRequest{Name: "Asha", Email: "asha@college.edu", Password: "long-enough"},
			existing:  &studentdb.Student{ID: 5, PasswordHash: &existingHash},
			expectErr: ErrEmailTaken,
			wantTrace: []string{"GetByEmail"},
		},
		{
			name:      "lost race on insert",
			req:       RegisterStudentRequest{Name: "Asha", Email: "asha@college.edu", Password: "long-enough"},
			createErr: studentdb.ErrDuplicate,
			expectErr: ErrEmailTaken,
			wantTrace: []string{"GetByEmail", "Create"},
		},
		{
			name:      "missing fields",
			req:       RegisterStudentRequest{Email: "asha@college.edu"},
			expectErr: ErrMissingFields,
		},
		{
			name:      "short password",
			req:       RegisterStudentRequest{Name: "Asha", Email: "asha@college.edu", Password: "short"},
			expectErr: ErrWeakPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var created *studentdb.Student
			students := &FakeStudentRepo{
				GetByEmailFunc: func(ctx context.Context, email string) (*studentdb.Student, error) {
					if tt.existing == nil {
						return nil, studentdb.ErrNotFound
					}
					return tt.existing, nil
				},
				CreateFunc: func(ctx context.Context, s *studentdb.Student) error {
					if tt.createErr != nil {
						return tt.createErr
					}
					s.ID = 11
					created = s
					return nil
				},
			}
			svc := newTestService(students, &FakeStaffRepo{}, &FakeHeadLookup{}, &FakeJWTProvider{})

			session, err := svc.RegisterStudent(context.Background(), tt.req)

			assert.Equal(t, tt.wantTrace, students.Trace())
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, authdomain.RoleStudent, session.User.Role)
			if created != nil {
				assert.Equal(t, "asha@college.edu", created.Email)
				assert.Equal(t, "asha", created.StudentID)
				require.NotNil(t, created.PasswordHash)
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*created.PasswordHash), []byte(tt.req.Password)))
			}
		})
	}
}

func TestService_ValidateToken(t *testing.T) {
	jwt := &FakeJWTProvider{
		ValidateTokenFunc: func(token string) (*authdomain.Claims, error) {
			if token == "good" {
				return &authdomain.Claims{UserID: 3, Role: authdomain.RoleAdmin}, nil
			}
			return nil, authjwt.ErrExpiredToken
		},
	}
	svc := newTestService(&FakeStudentRepo{}, &FakeStaffRepo{}, &FakeHeadLookup{}, jwt)

	claims, err := svc.ValidateToken(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, authdomain.RoleAdmin, claims.Role)

	_, err = svc.ValidateToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = svc.ValidateToken(context.Background(), "stale")
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.True(t, errors.Is(err, authjwt.ErrExpiredToken))
}
