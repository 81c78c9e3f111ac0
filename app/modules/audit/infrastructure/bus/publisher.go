package auditbus

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// Publisher is an auditevents.Recorder that publishes entries to the bus.
type Publisher struct {
	publisher message.Publisher
	logger    *slog.Logger
}

func NewPublisher(publisher message.Publisher, logger *slog.Logger) *Publisher {
	return &Publisher{publisher: publisher, logger: logger}
}

var _ auditevents.Recorder = (*Publisher)(nil)

// Record publishes entry. Failures are logged and dropped.
func (p *Publisher) Record(ctx context.Context, entry auditevents.AdminActionRecorded) {
	payload, err := json.Marshal(entry)
	if err != nil {
		p.logger.WarnContext(ctx, "Failed to encode audit entry (non-critical)",
			attr.ExtractCorrelationID(ctx),
			attr.String("action_type", entry.ActionType),
			attr.Error(err),
		)
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if id := attr.CorrelationID(ctx); id != "" {
		middleware.SetCorrelationID(id, msg)
	}
	msg.Metadata.Set("action_type", entry.ActionType)

	if err := p.publisher.Publish(auditevents.AdminActionRecordedTopic, msg); err != nil {
		p.logger.WarnContext(ctx, "Failed to publish audit entry (non-critical)",
			attr.ExtractCorrelationID(ctx),
			attr.String("action_type", entry.ActionType),
			attr.Int64("target_id", entry.TargetID),
			attr.Error(err),
		)
	}
}
