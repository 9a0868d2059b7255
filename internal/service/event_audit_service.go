package service

import (
	"context"

	"career-compass-be/internal/pkg/logger"
	"career-compass-be/pkg/events"
)

// NewEventAuditor returns the handler the NATS subscriber runs for every
// domain event on the bus. Events land in the usage feed log as a durable
// audit trail; the websocket hub keeps its own realtime push path.
func NewEventAuditor(log logger.ILogger) func(ctx context.Context, event events.Event) error {
	return func(ctx context.Context, event events.Event) error {
		log.Info("event_audit", event.EventType(), event.Payload())
		return nil
	}
}
