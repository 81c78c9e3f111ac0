package clubintegration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/campus-events/app/eventbus"
	"github.com/Black-And-White-Club/campus-events/app/modules/audit"
	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	auditdb "github.com/Black-And-White-Club/campus-events/app/modules/audit/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/modules/club"
	clubservice "github.com/Black-And-White-Club/campus-events/app/modules/club/application"
	clubdb "github.com/Black-And-White-Club/campus-events/app/modules/club/infrastructure/repositories"
	studentdb "github.com/Black-And-White-Club/campus-events/app/modules/student/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/integration_tests/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Club writes publish audit entries over NATS and the audit module persists them.
func TestClubActionsAreAuditedOverNATS(t *testing.T) {
	env := testutils.NewTestEnvironment(t, testutils.WithNATS())
	ctx, cancel := context.WithCancel(env.Ctx)
	defer cancel()

	bus, err := eventbus.NewEventBus(ctx, env.Config.NATS.URL, env.Obs.Logger)
	require.NoError(t, err)
	defer bus.Close()
	require.NoError(t, bus.HealthCheck())

	auditModule, err := audit.NewAuditModule(ctx, env.Obs, bus.Publisher(), bus.Subscriber(), env.DB)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go auditModule.Run(ctx, &wg)
	defer func() {
		_ = auditModule.Close()
		wg.Wait()
	}()

	gen := testutils.NewTestDataGenerator(7)
	admin := gen.Staff(t, ctx, env.DB, "admin")
	students := gen.Students(t, ctx, env.DB, 2)

	clubModule := club.NewClubModule(ctx, env.Obs, studentdb.NewRepository(env.DB), auditModule.Recorder(), env.DB)
	svc := clubModule.ClubService

	// The subscriber attaches asynchronously; give it a moment before publishing.
	time.Sleep(500 * time.Millisecond)

	created, err := svc.CreateClub(ctx, admin.ID, clubservice.CreateClubRequest{Name: "Robotics"})
	require.NoError(t, err)

	_, err = svc.CreateClub(ctx, admin.ID, clubservice.CreateClubRequest{Name: "Robotics"})
	require.ErrorIs(t, err, clubservice.ErrDuplicateName)

	_, err = svc.AssignHead(ctx, admin.ID, created.ID, students[0].ID)
	require.NoError(t, err)
	_, err = svc.AssignHead(ctx, admin.ID, created.ID, students[1].ID)
	require.NoError(t, err)

	members, err := svc.ListMembers(ctx, created.ID)
	require.NoError(t, err)
	heads := 0
	for _, m := range members {
		if m.Role == clubdb.RoleHead {
			heads++
		}
	}
	assert.Equal(t, 1, heads, "exactly one active head")

	repo := auditdb.NewRepository(env.DB)
	var entries []auditdb.Entry
	require.Eventually(t, func() bool {
		entries, err = repo.ListRecent(ctx, nil, 10)
		return err == nil && len(entries) == 3
	}, 15*time.Second, 200*time.Millisecond, "expected three audit entries")

	actions := map[string]int{}
	for _, e := range entries {
		actions[e.ActionType]++
		assert.Equal(t, admin.ID, e.ActorID)
		assert.Equal(t, created.ID, e.TargetID)
	}
	assert.Equal(t, map[string]int{
		auditevents.ActionCreateClub:     1,
		auditevents.ActionAssignClubHead: 2,
	}, actions)
}
