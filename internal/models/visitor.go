package models

import (
	"time"

	"github.com/google/uuid"
)

type VisitorStatusType string

const (
	VisitorStatusExpected   VisitorStatusType = "EXPECTED"
	VisitorStatusCheckedIn  VisitorStatusType = "CHECKED_IN"
	VisitorStatusCheckedOut VisitorStatusType = "CHECKED_OUT"
)

type Visitor struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	PhoneNumber string            `json:"phone_number,omitempty"`
	ApartmentID uuid.UUID         `json:"apartment_id"`
	HostUserID  uuid.UUID         `json:"host_user_id"`
	EntryTime   time.Time         `json:"entry_time"`
	ExitTime    *time.Time        `json:"exit_time,omitempty"`
	Status      VisitorStatusType `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}
