package services

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/isdelr/diary/internal/models"
)

const defaultEventLimit = 20

// EventServiceProvider defines the interface for the account activity log.
type EventServiceProvider interface {
	Record(ctx context.Context, userEmail, eventType, message string) error
	Recent(ctx context.Context, userEmail string, limit int) ([]models.Event, error)
}

// EventService provides business logic for event management.
type EventService struct {
	db *sql.DB
}

// NewEventService creates a new EventService.
func NewEventService(db *sql.DB) *EventService {
	return &EventService{db: db}
}

// Record logs a new event for the account identified by userEmail.
func (s *EventService) Record(ctx context.Context, userEmail, eventType, message string) error {
	event := models.Event{
		ID:        uuid.New().String(),
		UserEmail: userEmail,
		Type:      eventType,
		Message:   message,
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (id, user_email, type, message) VALUES (?, ?, ?, ?)",
		event.ID, event.UserEmail, event.Type, event.Message)
	return err
}

// Recent retrieves the most recent events of one account, newest first.
func (s *EventService) Recent(ctx context.Context, userEmail string, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_email, type, message, created_at FROM events WHERE user_email = ? ORDER BY created_at DESC, rowid DESC LIMIT ?",
		userEmail, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var event models.Event
		if err := rows.Scan(&event.ID, &event.UserEmail, &event.Type, &event.Message, &event.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
