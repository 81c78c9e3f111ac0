package authservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	authdomain "github.com/Black-And-White-Club/campus-events/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/jwt"
	authdb "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultTokenTTL   = 24 * time.Hour
	minPasswordLength = 8
)

// Config holds the configuration for the auth service.
type Config struct {
	DefaultTTL time.Duration
	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int
}

// service implements the Service interface.
type service struct {
	students    studentdb.Repository
	staff       authdb.Repository
	heads       HeadLookup
	jwtProvider authjwt.Provider
	config      Config
	logger      *slog.Logger
	tracer      trace.Tracer
	db          *bun.DB
}

// NewService creates a new auth service.
func NewService(
	jwtProvider authjwt.Provider,
	students studentdb.Repository,
	staff authdb.Repository,
	heads HeadLookup,
	config Config,
	logger *slog.Logger,
	tracer trace.Tracer,
	db *bun.DB,
) Service {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = DefaultTokenTTL
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = bcrypt.DefaultCost
	}
	return &service{
		students:    students,
		staff:       staff,
		heads:       heads,
		jwtProvider: jwtProvider,
		config:      config,
		logger:      logger,
		tracer:      tracer,
		db:          db,
	}
}

func (s *service) RegisterStudent(ctx context.Context, req RegisterStudentRequest) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.RegisterStudent")
	defer span.End()

	email := studentdb.NormalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)
	if name == "" || email == "" || req.Password == "" {
		return nil, ErrMissingFields
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	hashed := string(hash)

	var student *studentdb.Student
	err = s.runInTx(ctx, func(ctx context.Context, db bun.IDB) error {
		existing, err := s.students.GetByEmail(ctx, db, email)
		switch {
		case err == nil:
			if existing.PasswordHash != nil {
				return ErrEmailTaken
			}
			if err := s.students.SetPasswordHash(ctx, db, existing.ID, hashed); err != nil {
				return err
			}
			var phone *string
			if req.Phone != "" {
				phone = &req.Phone
			}
			if err := s.students.UpdateContact(ctx, db, existing.ID, &name, phone); err != nil {
				return err
			}
			existing.Name = name
			student = existing
			return nil
		case errors.Is(err, studentdb.ErrNotFound):
		default:
			return err
		}

		student = &studentdb.Student{
			StudentID:    studentdb.RollNumberFromEmail(email),
			Name:         name,
			Email:        email,
			PasswordHash: &hashed,
		}
		if req.Phone != "" {
			student.Phone = &req.Phone
		}
		if err := s.students.Create(ctx, db, student); err != nil {
			if errors.Is(err, studentdb.ErrDuplicate) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Student registered",
		attr.ExtractCorrelationID(ctx),
		attr.Int64("student_id", student.ID),
	)
	return s.issue(ctx, UserInfo{ID: student.ID, Name: student.Name, Email: student.Email, Role: authdomain.RoleStudent})
}

func (s *service) LoginStudent(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.LoginStudent")
	defer span.End()

	student, err := s.students.GetByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, studentdb.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if student.PasswordHash == nil || !checkPassword(*student.PasswordHash, password) {
		s.logger.WarnContext(ctx, "Student login rejected", attr.ExtractCorrelationID(ctx), attr.Int64("student_id", student.ID))
		return nil, ErrInvalidCredentials
	}

	role := authdomain.RoleStudent
	isHead, err := s.heads.IsActiveHeadOfAnyClub(ctx, nil, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve club head status: %w", err)
	}
	if isHead {
		role = authdomain.RoleClubHead
	}

	return s.issue(ctx, UserInfo{ID: student.ID, Name: student.Name, Email: student.Email, Role: role})
}

func (s *service) LoginStaff(ctx context.Context, email, password string) (*Session, error) {
	ctx, span := s.tracer.Start(ctx, "AuthService.LoginStaff")
	defer span.End()

	account, err := s.staff.GetActiveByEmail(ctx, nil, email)
	if err != nil {
		if errors.Is(err, authdb.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !checkPassword(account.PasswordHash, password) {
		s.logger.WarnContext(ctx, "Staff login rejected", attr.ExtractCorrelationID(ctx), attr.Int64("staff_id", account.ID))
		return nil, ErrInvalidCredentials
	}

	role := authdomain.Role(account.Role)
	if !role.IsStaff() {
		s.logger.ErrorContext(ctx, "Staff account has a non-staff role",
			attr.Int64("staff_id", account.ID),
			attr.String("role", account.Role),
		)
		return nil, ErrInvalidCredentials
	}

	return s.issue(ctx, UserInfo{ID: account.ID, Name: account.Name, Email: account.Email, Role: role})
}

// ValidateToken validates a JWT token and returns the claims if valid.
func (s *service) ValidateToken(ctx context.Context, tokenString string) (*authdomain.Claims, error) {
	_, span := s.tracer.Start(ctx, "AuthService.ValidateToken")
	defer span.End()

	if tokenString == "" {
		return nil, ErrMissingToken
	}
	claims, err := s.jwtProvider.ValidateToken(tokenString)
	if err != nil {
		return nil, ErrInvalidToken.Wrap(err)
	}
	return claims, nil
}

func (s *service) issue(ctx context.Context, user UserInfo) (*Session, error) {
	claims := &authdomain.Claims{UserID: user.ID, Email: user.Email, Role: user.Role}
	token, err := s.jwtProvider.GenerateToken(claims, s.config.DefaultTTL)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to generate token", attr.Error(err))
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Session{
		Token:     token,
		ExpiresAt: time.Now().Add(s.config.DefaultTTL),
		User:      user,
	}, nil
}

// runInTx runs fn in a transaction, or directly when no database is wired (tests).
func (s *service) runInTx(ctx context.Context, fn func(ctx context.Context, db bun.IDB) error) error {
	if s.db == nil {
		return fn(ctx, nil)
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, tx)
	})
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
