package service

import (
	"context"

	"github.com/487058267/agent-cross-discipline/internal/pkg/logger"
	"github.com/487058267/agent-cross-discipline/pkg/events"
	pktNats "github.com/487058267/agent-cross-discipline/pkg/nats"
)

const (
	auditModule  = "EVENT_AUDIT"
	auditDurable = "lesson-event-audit"
)

// EventSubscriber registers durable handlers on the event bus.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

type IEventAuditService interface {
	Start(ctx context.Context) error
}

// eventAuditService copies every lesson event into a dedicated audit log.
type eventAuditService struct {
	subscriber EventSubscriber
	audit      logger.ILogger
}

func NewEventAuditService(subscriber EventSubscriber, audit logger.ILogger) IEventAuditService {
	return &eventAuditService{subscriber: subscriber, audit: audit}
}

func (s *eventAuditService) Start(ctx context.Context) error {
	return s.subscriber.Subscribe(ctx, pktNats.SubjectPrefix+">", auditDurable, s.Handle)
}

// Handle records one event.
func (s *eventAuditService) Handle(_ context.Context, event events.Event) error {
	details := make(map[string]interface{}, len(event.Payload())+1)
	for k, v := range event.Payload() {
		details[k] = v
	}
	details["occurred_at"] = event.Timestamp()
	s.audit.Info(auditModule, event.EventType(), details)
	return nil
}
