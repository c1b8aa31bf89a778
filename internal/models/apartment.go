package models

import "github.com/google/uuid"

// Apartment carries the tower name denormalized from the towers table
// for display purposes.
type Apartment struct {
	ID        uuid.UUID `json:"id"`
	Number    string    `json:"number"`
	TowerName string    `json:"tower_name"`
}
