package dispatcher

import (
	"context"

	"github.com/ofisi/requestflow/internal/domain/event"
)

// AuditLogHandler writes every domain event to the structured log,
// giving operators a queryable audit stream of lifecycle activity
type AuditLogHandler struct {
	logger Logger
}

// NewAuditLogHandler creates an audit log handler
func NewAuditLogHandler(logger Logger) *AuditLogHandler {
	return &AuditLogHandler{logger: logger}
}

// Handle logs one domain event
func (h *AuditLogHandler) Handle(_ context.Context, evt *event.Event) error {
	h.logger.Info("Domain event",
		"event_id", evt.ID,
		"event_type", evt.Type.String(),
		"domain", evt.Domain.String(),
		"request_id", evt.RequestID,
		"actor_id", evt.ActorID,
		"correlation_id", evt.CorrelationID,
		"payload", evt.Payload,
	)
	return nil
}

// SubscribeAll registers the handler for every defined event type
func (h *AuditLogHandler) SubscribeAll(d Dispatcher) {
	for _, t := range event.Types() {
		d.Subscribe(t, "audit_log", h.Handle)
	}
}
