package models

import (
	"time"

	"github.com/google/uuid"
)

type ComplaintStatusType string

const (
	ComplaintStatusOpen       ComplaintStatusType = "OPEN"
	ComplaintStatusInProgress ComplaintStatusType = "IN_PROGRESS"
	ComplaintStatusResolved   ComplaintStatusType = "RESOLVED"
	ComplaintStatusClosed     ComplaintStatusType = "CLOSED"
	ComplaintStatusRejected   ComplaintStatusType = "REJECTED"
)

type Complaint struct {
	ID          uuid.UUID           `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	ApartmentID uuid.UUID           `json:"apartment_id"`
	UserID      uuid.UUID           `json:"user_id"`
	Status      ComplaintStatusType `json:"status"`
	CreatedAt   time.Time           `json:"created_at"`
	ResolvedAt  *time.Time          `json:"resolved_at,omitempty"`
}

// ComplaintComment rows reference their complaint and must be removed
// before it.
type ComplaintComment struct {
	ID          uuid.UUID `json:"id"`
	ComplaintID uuid.UUID `json:"complaint_id"`
	UserID      uuid.UUID `json:"user_id"`
	Body        string    `json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}
