package models

import "time"

// Card is a private diary note. OwnerEmail is resolved from the owning user.
type Card struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	Text       string    `json:"text"`
	OwnerEmail string    `json:"ownerEmail"`
	CreatedAt  time.Time `json:"createdAt"`
}
