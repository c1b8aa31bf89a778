package models

import (
	"time"

	"github.com/google/uuid"
)

type Notice struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	PostedByID uuid.UUID  `json:"posted_by_id"`
	IsArchived bool       `json:"is_archived"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
