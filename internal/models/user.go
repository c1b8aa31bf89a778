package models

import (
	"time"

	"github.com/google/uuid"
)

type UserRoleType string

const (
	UserRoleAdmin    UserRoleType = "ADMIN"
	UserRoleResident UserRoleType = "RESIDENT"
)

type User struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	PhoneNumber *string      `json:"phone_number,omitempty"`
	Role        UserRoleType `json:"role"`
	CreatedAt   time.Time    `json:"created_at"`
}
