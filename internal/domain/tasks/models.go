package tasks

import (
	"time"

	"crewhub/internal/domain/access"
)

const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusDone       = "done"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID           string      `json:"id"`
	AssigneeID   string      `json:"assigneeId"`
	AssigneeRole access.Role `json:"-"`
	CreatorID    string      `json:"creatorId"`
	Title        string      `json:"title"`
	Description  string      `json:"description,omitempty"`
	Status       string      `json:"status"`
	Priority     string      `json:"priority"`
	DueDate      *time.Time  `json:"dueDate,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// A task is owned by its assignee for visibility purposes.
func (t Task) Owner() access.Owner {
	return access.Owner{UserID: t.AssigneeID, Role: t.AssigneeRole}
}

func KnownStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusDone:
		return true
	}
	return false
}

func KnownPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
