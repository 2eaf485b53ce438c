package users

import (
	"time"

	"crewhub/internal/domain/access"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type User struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	DisplayName string      `json:"displayName"`
	Role        access.Role `json:"role"`
	TeamID      string      `json:"teamId,omitempty"`
	Status      string      `json:"status"`
	LastLogin   *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (u User) Owner() access.Owner {
	return access.Owner{UserID: u.ID, Role: u.Role}
}
