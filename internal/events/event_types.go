package events

import (
	"time"

	"github.com/spec-kit/account-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated     EventType = "user_created"
	EventUserUpdated     EventType = "user_updated"
	EventUserDeleted     EventType = "user_deleted"
	EventPasswordChanged EventType = "password_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

// Event represents an account lifecycle event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Email     string      `json:"email"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	NickName string      `json:"nick_name"`
	Role     domain.Role `json:"role"`
	IsActive bool        `json:"is_active"`
}

// UserUpdatedPayload lists which fields the patch touched. Values are
// deliberately omitted so password material can never leak through an
// event sink.
type UserUpdatedPayload struct {
	ChangedFields []string `json:"changed_fields"`
	EmailChanged  bool     `json:"email_changed"`
}
