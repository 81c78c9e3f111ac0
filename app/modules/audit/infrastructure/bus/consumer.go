package auditbus

import (
	"encoding/json"
	"log/slog"
	"time"

	auditservice "github.com/Black-And-White-Club/campus-events/app/modules/audit/application"
	"github.com/Black-And-White-Club/campus-events/app/modules/audit/auditevents"
	"github.com/Black-And-White-Club/campus-events/app/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

const handlerName = "audit.persist_admin_action"

// Consumer persists AdminActionRecorded messages.
type Consumer struct {
	service auditservice.Service
	logger  *slog.Logger
}

func NewConsumer(service auditservice.Service, logger *slog.Logger) *Consumer {
	return &Consumer{service: service, logger: logger}
}

// Handle decodes and stores one message. Undecodable payloads are acked and
// dropped.
func (c *Consumer) Handle(msg *message.Message) error {
	ctx := attr.WithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))

	var entry auditevents.AdminActionRecorded
	if err := json.Unmarshal(msg.Payload, &entry); err != nil {
		c.logger.WarnContext(ctx, "Dropping undecodable audit message",
			attr.ExtractCorrelationID(ctx),
			attr.String("message_id", msg.UUID),
			attr.Error(err),
		)
		return nil
	}

	_, err := c.service.Persist(ctx, msg.UUID, entry)
	return err
}

// dropOnFailure acks messages whose handler still fails after retries.
// The audit log is best effort and must not block the subscription.
func dropOnFailure(logger *slog.Logger) message.HandlerMiddleware {
	return func(h message.HandlerFunc) message.HandlerFunc {
		return func(msg *message.Message) ([]*message.Message, error) {
			out, err := h(msg)
			if err != nil {
				logger.WarnContext(msg.Context(), "Audit entry dropped (non-critical)",
					attr.String("message_id", msg.UUID),
					attr.Error(err),
				)
				return nil, nil
			}
			return out, nil
		}
	}
}

// NewRouter builds the watermill router that feeds the consumer.
func NewRouter(subscriber message.Subscriber, consumer *Consumer, logger *slog.Logger) (*message.Router, error) {
	wmLogger := watermill.NewSlogLogger(logger)
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: 10 * time.Second}, wmLogger)
	if err != nil {
		return nil, err
	}

	router.AddMiddleware(
		dropOnFailure(logger),
		middleware.Retry{
			MaxRetries:      3,
			InitialInterval: 100 * time.Millisecond,
			Multiplier:      2,
			Logger:          wmLogger,
		}.Middleware,
		middleware.Recoverer,
	)

	router.AddNoPublisherHandler(handlerName, auditevents.AdminActionRecordedTopic, subscriber, consumer.Handle)
	return router, nil
}
