package models

import "github.com/google/uuid"

type Amenity struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}
