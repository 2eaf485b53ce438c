package attendance

import (
	"time"

	"crewhub/internal/domain/access"
)

const (
	StatusOpen       = "open"
	StatusClosed     = "closed"
	StatusAutoClosed = "auto-closed"
	StatusCorrected  = "corrected"
)

type Record struct {
	ID        string      `json:"id"`
	UserID    string      `json:"userId"`
	OwnerRole access.Role `json:"-"`
	Date      time.Time   `json:"date"`
	ClockIn   time.Time   `json:"clockIn"`
	ClockOut  *time.Time  `json:"clockOut,omitempty"`
	Status    string      `json:"status"`
	Note      string      `json:"note,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (r Record) Owner() access.Owner {
	return access.Owner{UserID: r.UserID, Role: r.OwnerRole}
}
