package models

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatusType string

const (
	BookingStatusPending   BookingStatusType = "PENDING"
	BookingStatusApproved  BookingStatusType = "APPROVED"
	BookingStatusRejected  BookingStatusType = "REJECTED"
	BookingStatusCancelled BookingStatusType = "CANCELLED"
)

type Booking struct {
	ID          uuid.UUID         `json:"id"`
	AmenityID   uuid.UUID         `json:"amenity_id"`
	ApartmentID uuid.UUID         `json:"apartment_id"`
	UserID      uuid.UUID         `json:"user_id"`
	StartTime   time.Time         `json:"start_time"`
	EndTime     time.Time         `json:"end_time"`
	Status      BookingStatusType `json:"status"`
	Notes       string            `json:"notes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}
