package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "CHAT_EXCHANGE_RECORDED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation used across the service.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Event type codes emitted by the chat and quota domain.
const (
	TypeExchangeRecorded = "CHAT_EXCHANGE_RECORDED"
	TypeCooldownStarted  = "QUOTA_COOLDOWN_STARTED"
	TypeCooldownEnded    = "QUOTA_COOLDOWN_ENDED"
	TypeUploadStored     = "UPLOAD_STORED"
	TypeSessionDeleted   = "CHAT_SESSION_DELETED"
)
