package leads

import (
	"time"

	"crewhub/internal/domain/access"
)

const (
	StageNew       = "new"
	StageContacted = "contacted"
	StageQualified = "qualified"
	StageProposal  = "proposal"
	StageWon       = "won"
	StageLost      = "lost"
)

type Lead struct {
	ID        string      `json:"id"`
	OwnerID   string      `json:"ownerId"`
	OwnerRole access.Role `json:"-"`
	Company   string      `json:"company"`
	Contact   string      `json:"contact"`
	Email     string      `json:"email,omitempty"`
	Phone     string      `json:"phone,omitempty"`
	Stage     string      `json:"stage"`
	Value     int64       `json:"value"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

func (l Lead) Owner() access.Owner {
	return access.Owner{UserID: l.OwnerID, Role: l.OwnerRole}
}

func KnownStage(s string) bool {
	switch s {
	case StageNew, StageContacted, StageQualified, StageProposal, StageWon, StageLost:
		return true
	}
	return false
}
