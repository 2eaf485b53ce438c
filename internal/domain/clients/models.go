package clients

import (
	"time"

	"crewhub/internal/domain/access"
)

const (
	TicketOpen      = "open"
	TicketPending   = "pending"
	TicketEscalated = "escalated"
	TicketResolved  = "resolved"
	TicketClosed    = "closed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type Client struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	ContactName string    `json:"contactName,omitempty"`
	Email       string    `json:"email,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	OpenTickets int       `json:"openTickets"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Ticket struct {
	ID         string      `json:"id"`
	ClientID   string      `json:"clientId"`
	ClientName string      `json:"clientName"`
	OwnerID    string      `json:"ownerId"`
	OwnerRole  access.Role `json:"-"`
	Subject    string      `json:"subject"`
	Body       string      `json:"body,omitempty"`
	Status     string      `json:"status"`
	Priority   string      `json:"priority"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// A ticket is owned by the user handling it.
func (t Ticket) Owner() access.Owner {
	return access.Owner{UserID: t.OwnerID, Role: t.OwnerRole}
}

func KnownTicketStatus(s string) bool {
	switch s {
	case TicketOpen, TicketPending, TicketEscalated, TicketResolved, TicketClosed:
		return true
	}
	return false
}

func KnownPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
