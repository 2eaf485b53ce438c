package leave

import (
	"time"

	"crewhub/internal/domain/access"
)

const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

const (
	TypeAnnual = "annual"
	TypeSick   = "sick"
	TypeUnpaid = "unpaid"
)

type Request struct {
	ID           string      `json:"id"`
	UserID       string      `json:"userId"`
	OwnerRole    access.Role `json:"-"`
	Type         string      `json:"type"`
	StartDate    time.Time   `json:"startDate"`
	EndDate      time.Time   `json:"endDate"`
	Days         int         `json:"days"`
	Reason       string      `json:"reason,omitempty"`
	Status       string      `json:"status"`
	DeciderID    string      `json:"deciderId,omitempty"`
	DecidedAt    *time.Time  `json:"decidedAt,omitempty"`
	DecisionNote string      `json:"decisionNote,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

func (r Request) Owner() access.Owner {
	return access.Owner{UserID: r.UserID, Role: r.OwnerRole}
}

type Balance struct {
	UserID    string `json:"userId"`
	Year      int    `json:"year"`
	Type      string `json:"type"`
	Allocated int    `json:"allocated"`
	Used      int    `json:"used"`
}

func KnownType(t string) bool {
	switch t {
	case TypeAnnual, TypeSick, TypeUnpaid:
		return true
	}
	return false
}
