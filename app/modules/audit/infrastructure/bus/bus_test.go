package auditbus

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	auditdb "github.com/Black-And-White-Club/campus-events/app/modules/audit/infrastructure/repositories"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type persisted struct {
	messageID string
	entry     auditevents.AdminActionRecorded
	corrID    string
}

// fakeAuditService records Persist calls.
type fakeAuditService struct {
	mu    sync.Mutex
	calls []persisted
	done  chan struct{}

	PersistFunc func(ctx context.Context, messageID string, entry auditevents.AdminActionRecorded) (bool, error)
}

func (f *fakeAuditService) Persist(ctx context.Context, messageID string, entry auditevents.AdminActionRecorded) (bool, error) {
	f.mu.Lock()
	f.calls = append(f.calls, persisted{messageID: messageID, entry: entry, corrID: attr.CorrelationID(ctx)})
	f.mu.Unlock()
	if f.done != nil {
		defer func() { f.done <- struct{}{} }()
	}
	if f.PersistFunc != nil {
		return f.PersistFunc(ctx, messageID, entry)
	}
	return true, nil
}

func (f *fakeAuditService) ListRecent(context.Context, int) ([]auditdb.Entry, error) {
	return nil, nil
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

type failingPublisher struct{ calls int }

func (p *failingPublisher) Publish(string, ...*message.Message) error {
	p.calls++
	return errors.New("nats: connection closed")
}

func (p *failingPublisher) Close() error { return nil }

func TestPublisher_RecordFailureIsSwallowed(t *testing.T) {
	pub := &failingPublisher{}
	NewPublisher(pub, discardLogger()).Record(context.Background(), auditevents.AdminActionRecorded{ActionType: auditevents.ActionDeleteClub})
	assert.Equal(t, 1, pub.calls)
}

func TestConsumer_HandleUndecodablePayload(t *testing.T) {
	svc := &fakeAuditService{}
	err := NewConsumer(svc, discardLogger()).Handle(message.NewMessage("m-1", []byte("not json")))
	require.NoError(t, err)
	assert.Empty(t, svc.calls)
}

func TestConsumer_HandlePropagatesPersistError(t *testing.T) {
	svc := &fakeAuditService{
		PersistFunc: func(context.Context, string, auditevents.AdminActionRecorded) (bool, error) {
			return false, errors.New("db down")
		},
	}
	err := NewConsumer(svc, discardLogger()).Handle(message.NewMessage("m-1", []byte(`{"actor_id":1}`)))
	assert.EqualError(t, err, "db down")
}

func TestDropOnFailure(t *testing.T) {
	h := dropOnFailure(discardLogger())(func(*message.Message) ([]*message.Message, error) {
		return nil, errors.New("still failing")
	})
	out, err := h(message.NewMessage("m-1", nil))
	assert.NoError(t, err)
	assert.Nil(t, out)
}

func TestPublishConsumeRoundTrip(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := discardLogger()
	ch := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 8}, watermill.NewSlogLogger(logger))
	defer ch.Close()

	svc := &fakeAuditService{done: make(chan struct{}, 1)}
	router, err := NewRouter(ch, NewConsumer(svc, logger), logger)
	require.NoError(t, err)

	go func() { _ = router.Run(ctx) }()
	<-router.Running()

	entry := auditevents.AdminActionRecorded{
		ActorID:     9,
		ActorRole:   "admin",
		ActionType:  auditevents.ActionApproveEvent,
		TargetType:  auditevents.TargetEvent,
		TargetID:    31,
		Description: "Approved event",
		OccurredAt:  time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}
	NewPublisher(ch, logger).Record(attr.WithCorrelationID(ctx, "corr-1"), entry)

	select {
	case <-svc.done:
	case <-time.After(5 * time.Second):
		t.Fatal("audit entry was not consumed")
	}

	svc.mu.Lock()
	defer svc.mu.Unlock()
	require.Len(t, svc.calls, 1)
	assert.NotEmpty(t, svc.calls[0].messageID)
	assert.Equal(t, "corr-1", svc.calls[0].corrID)
	assert.Equal(t, entry.ActionType, svc.calls[0].entry.ActionType)
	assert.True(t, entry.OccurredAt.Equal(svc.calls[0].entry.OccurredAt))
}

func TestPublisher_SetsCorrelationMetadata(t *testing.T) {
	var got *message.Message
	pub := publisherFunc(func(_ string, msgs ...*message.Message) error {
		got = msgs[0]
		return nil
	})
	NewPublisher(pub, discardLogger()).Record(attr.WithCorrelationID(context.Background(), "abc"), auditevents.AdminActionRecorded{ActionType: auditevents.ActionJoinClub})
	require.NotNil(t, got)
	assert.Equal(t, "abc", middleware.MessageCorrelationID(got))
	assert.Equal(t, auditevents.ActionJoinClub, got.Metadata.Get("action_type"))
}

type publisherFunc func(topic string, msgs ...*message.Message) error

func (f publisherFunc) Publish(topic string, msgs ...*message.Message) error {
	return f(topic, msgs...)
}
func (publisherFunc) Close() error { return nil }
