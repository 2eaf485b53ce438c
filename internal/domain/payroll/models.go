package payroll

import (
	"time"

	"crewhub/internal/domain/access"
)

const (
	StatusDraft     = "draft"
	StatusFinalized = "finalized"
	StatusPaid      = "paid"
)

type Row struct {
	ID          string      `json:"id"`
	UserID      string      `json:"userId"`
	OwnerRole   access.Role `json:"-"`
	DisplayName string      `json:"displayName"`
	Month       string      `json:"month"`
	Gross       int64       `json:"gross"`
	Deductions  int64       `json:"deductions"`
	Net         int64       `json:"net"`
	BankRef     string      `json:"bankRef,omitempty"`
	BankRefEnc  []byte      `json:"-"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

func (r Row) Owner() access.Owner {
	return access.Owner{UserID: r.UserID, Role: r.OwnerRole}
}
