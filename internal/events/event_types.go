package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported auth event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventLoginSucceeded EventType = "login_succeeded"
	EventLoginFailed    EventType = "login_failed"
	EventTokenRefreshed EventType = "token_refreshed"
)

// Event represents an authentication event emitted by services. UserID is
// empty when the account was never resolved (e.g. unknown login email).
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	UserID    string    `json:"user_id,omitempty"`
	Email     string    `json:"email,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	Detail    string    `json:"detail,omitempty"`
}

// NewEvent stamps a fresh event with an id and the current time.
func NewEvent(eventType EventType, userID, email, detail string) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Email:     email,
		Timestamp: time.Now(),
		Detail:    detail,
	}
}
