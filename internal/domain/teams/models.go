package teams

import (
	"time"

	"crewhub/internal/domain/access"
)

type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	MemberCount int       `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type Member struct {
	UserID      string                `json:"userId"`
	DisplayName string                `json:"displayName"`
	Email       string                `json:"email"`
	UserRole    access.Role           `json:"userRole"`
	Role        access.MembershipRole `json:"role"`
	JoinedAt    time.Time             `json:"joinedAt"`
}
