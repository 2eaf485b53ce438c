package timesheets

import (
	"time"

	"crewhub/internal/domain/access"
)

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
)

type Entry struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	OwnerRole access.Role `json:"-"`
	WeekStart time.Time   `json:"weekStart"`
	Hours     float64     `json:"hours"`
	Notes     string      `json:"notes,omitempty"`
	Status    string      `json:"status"`
	DeciderID string      `json:"deciderId,omitempty"`
	DecidedAt *time.Time  `json:"decidedAt,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (e Entry) Owner() access.Owner {
	return access.Owner{UserID: e.UserID, Role: e.OwnerRole}
}
