package testutils

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	authdb "github.com/Black-And-White-Club/campus-events/app/modules/auth/infrastructure/repositories"
	clubdb "github.com/Black-And-White-Club/campus-events/app/modules/club/infrastructure/repositories"
	eventdomain "github.com/Black-And-White-Club/campus-events/app/modules/event/domain"
	eventdb "github.com/Black-And-White-Club/campus-events/app/modules/event/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"
)

// TestDataGenerator seeds realistic rows through the module repositories.
type TestDataGenerator struct {
	faker *gofakeit.Faker
	seq   int
}

// NewTestDataGenerator creates a generator. A fixed seed makes runs repeatable.
func NewTestDataGenerator(seed ...uint64) *TestDataGenerator {
	s := uint64(time.Now().UnixNano())
	if len(seed) > 0 {
		s = seed[0]
	}
	return &TestDataGenerator{faker: gofakeit.New(s)}
}

func (g *TestDataGenerator) next() int {
	g.seq++
	return g.seq
}

// Email returns a unique campus email address.
func (g *TestDataGenerator) Email() string {
	local := strings.ToLower(g.faker.FirstName() + "." + g.faker.LastName())
	return fmt.Sprintf("%s%d@campus.test", local, g.next())
}

// Students inserts n students.
func (g *TestDataGenerator) Students(t *testing.T, ctx context.Context, db bun.IDB, n int) []*studentdb.Student {
	t.Helper()
	repo := studentdb.NewRepository(db)
	out := make([]*studentdb.Student, 0, n)
	for i := 0; i < n; i++ {
		email := g.Email()
		dept := g.faker.RandomString([]string{"CSE", "ECE", "MECH", "CIVIL", "MBA"})
		s := &studentdb.Student{
			StudentID:  studentdb.RollNumberFromEmail(email),
			Name:       g.faker.Name(),
			Email:      email,
			Department: &dept,
		}
		if err := repo.Create(ctx, db, s); err != nil {
			t.Fatalf("failed to seed student: %v", err)
		}
		out = append(out, s)
	}
	return out
}

// StaffPassword is the password of every seeded staff account.
const StaffPassword = "campus-pass"

// Staff inserts a staff account with the given role ("admin" or "faculty").
func (g *TestDataGenerator) Staff(t *testing.T, ctx context.Context, db bun.IDB, role string) *authdb.StaffAccount {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(StaffPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash staff password: %v", err)
	}
	a := &authdb.StaffAccount{
		Name:         g.faker.Name(),
		Email:        g.Email(),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := authdb.NewRepository(db).Create(ctx, db, a); err != nil {
		t.Fatalf("failed to seed staff account: %v", err)
	}
	return a
}

// ClubWithHead inserts an active club and makes head its active Head.
func (g *TestDataGenerator) ClubWithHead(t *testing.T, ctx context.Context, db bun.IDB, adminID int64, head *studentdb.Student) *clubdb.Club {
	t.Helper()
	repo := clubdb.NewRepository(db)
	desc := g.faker.Sentence(8)
	club := &clubdb.Club{
		Name:             fmt.Sprintf("%s Club %d", g.faker.HipsterWord(), g.next()),
		Description:      &desc,
		CreatedByAdminID: &adminID,
		IsActive:         true,
	}
	if err := repo.CreateClub(ctx, db, club); err != nil {
		t.Fatalf("failed to seed club: %v", err)
	}
	if head != nil {
		if err := repo.UpsertMembership(ctx, db, &clubdb.Membership{
			StudentID:         head.ID,
			ClubID:            club.ID,
			Role:              clubdb.RoleHead,
			Status:            clubdb.MembershipActive,
			ApprovedByAdminID: &adminID,
		}); err != nil {
			t.Fatalf("failed to seed club head: %v", err)
		}
	}
	return club
}

// ApprovedEvent inserts an Approved event a week from now. A nil capacity
// means unlimited.
func (g *TestDataGenerator) ApprovedEvent(t *testing.T, ctx context.Context, db bun.IDB, clubID int64, capacity *int) *eventdb.Event {
	t.Helper()
	eventType := g.faker.RandomString([]string{"Workshop", "Seminar", "Hackathon", "Cultural"})
	ev := &eventdb.Event{
		Name:            fmt.Sprintf("%s %d", g.faker.BuzzWord(), g.next()),
		EventType:       &eventType,
		EventDate:       time.Now().UTC().AddDate(0, 0, 7).Truncate(24 * time.Hour),
		StartTime:       "10:00",
		EndTime:         "12:00",
		ClubID:          clubID,
		MaxParticipants: capacity,
		Status:          eventdomain.EventApproved,
	}
	if err := eventdb.NewRepository(db).CreateEvent(ctx, db, ev); err != nil {
		t.Fatalf("failed to seed event: %v", err)
	}
	return ev
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
