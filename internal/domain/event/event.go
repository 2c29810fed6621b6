package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/ofisi/requestflow/internal/domain/workflow"
)

// Event represents a domain event emitted after a lifecycle transition
type Event struct {
	ID            string                 `json:"id"`
	Type          Type                   `json:"type"`
	Domain        workflow.Domain        `json:"domain"`
	RequestID     int64                  `json:"request_id"`
	ActorID       string                 `json:"actor_id"`
	Payload       map[string]interface{} `json:"payload"`
	Timestamp     time.Time              `json:"timestamp"`
	CorrelationID string                 `json:"correlation_id"`
}

// New creates a domain event with a fresh ID and correlation ID
func New(eventType Type, domain workflow.Domain, requestID int64, actorID string, payload map[string]interface{}) *Event {
	return &Event{
		ID:            uuid.NewString(),
		Type:          eventType,
		Domain:        domain,
		RequestID:     requestID,
		ActorID:       actorID,
		Payload:       payload,
		Timestamp:     time.Now(),
		CorrelationID: uuid.NewString(),
	}
}

// GetString retrieves a string value from the payload
func (e *Event) GetString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if s, ok := val.(string); ok {
			return s
		}
	}
	return ""
}

// GetInt retrieves an int64 value from the payload
func (e *Event) GetInt(key string) int64 {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}

// GetBool retrieves a bool value from the payload
func (e *Event) GetBool(key string) bool {
	if val, ok := e.Payload[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}
