package models

import "time"

// Event types recorded in the activity log.
const (
	EventAccountRegistered = "account.registered"
	EventLogin             = "session.login"
	EventLoginFailed       = "session.login_failed"
	EventLogout            = "session.logout"
	EventCardCreated       = "card.created"
)

// Event represents a loggable action on an account.
type Event struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"userEmail"`
	Type      string    `json:"type"` // e.g., "session.login", "card.created"
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}
