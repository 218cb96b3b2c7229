package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/isdelr/diary/internal/models"
)

// CardServiceProvider defines the interface for card services.
// Every operation is scoped to the owner's email.
type CardServiceProvider interface {
	CreateCard(ctx context.Context, ownerEmail, title, subtitle, text string) (models.Card, error)
	ListCards(ctx context.Context, ownerEmail string) ([]models.Card, error)
	GetCard(ctx context.Context, id int64, ownerEmail string) (models.Card, error)
}

// CardService provides business logic for diary cards.
type CardService struct {
	db *sql.DB
}

// NewCardService creates a new CardService.
func NewCardService(db *sql.DB) *CardService {
	return &CardService{db: db}
}

const cardColumns = "c.id, c.title, c.subtitle, c.text, u.email, c.created_at"

// CreateCard stores a card owned by ownerEmail. The owner must exist.
func (s *CardService) CreateCard(ctx context.Context, ownerEmail, title, subtitle, text string) (models.Card, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO cards (user_id, title, subtitle, text) SELECT id, ?, ?, ? FROM users WHERE email = ?",
		title, subtitle, text, ownerEmail)
	if err != nil {
		return models.Card{}, fmt.Errorf("failed to insert card: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return models.Card{}, err
	}
	if n == 0 {
		return models.Card{}, fmt.Errorf("owner %s: %w", ownerEmail, ErrNotFound)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.Card{}, err
	}
	return s.GetCard(ctx, id, ownerEmail)
}

// ListCards returns all cards owned by ownerEmail in insertion order.
func (s *CardService) ListCards(ctx context.Context, ownerEmail string) ([]models.Card, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+cardColumns+" FROM cards c JOIN users u ON u.id = c.user_id WHERE u.email = ? ORDER BY c.id",
		ownerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	cards := []models.Card{}
	for rows.Next() {
		var card models.Card
		if err := rows.Scan(&card.ID, &card.Title, &card.Subtitle, &card.Text, &card.OwnerEmail, &card.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cards, nil
}

// GetCard returns the card with the given id if it belongs to ownerEmail.
// Cards of other owners are reported as ErrNotFound.
func (s *CardService) GetCard(ctx context.Context, id int64, ownerEmail string) (models.Card, error) {
	var card models.Card
	row := s.db.QueryRowContext(ctx,
		"SELECT "+cardColumns+" FROM cards c JOIN users u ON u.id = c.user_id WHERE c.id = ? AND u.email = ?",
		id, ownerEmail)
	err := row.Scan(&card.ID, &card.Title, &card.Subtitle, &card.Text, &card.OwnerEmail, &card.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Card{}, ErrNotFound
		}
		return models.Card{}, err
	}
	return card, nil
}
