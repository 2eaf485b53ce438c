package audit

import "time"

const (
	ActionLogin        = "auth.login"
	ActionLogout       = "auth.logout"
	ActionTokenRefresh = "auth.refresh"
	ActionDenied       = "access.denied"
)

type Event struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId,omitempty"`
	ActorName  string    `json:"actorName,omitempty"`
	ActorRole  string    `json:"actorRole,omitempty"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType,omitempty"`
	EntityID   string    `json:"entityId,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	RequestID  string    `json:"requestId,omitempty"`
	IP         string    `json:"ip,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Filter struct {
	ActorID string
	Action  string
	From    time.Time
	To      time.Time
	Page    int
	PerPage int
}
