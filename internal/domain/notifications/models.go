package notifications

import "time"

type Notification struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Kind      string     `json:"kind"`
	Title     string     `json:"title"`
	Body      string     `json:"body,omitempty"`
	EntityID  string     `json:"entityId,omitempty"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

const (
	KindLeaveDecision     = "leave.decision"
	KindTaskAssigned      = "task.assigned"
	KindTimesheetDecision = "timesheet.decision"
	KindTicketEscalated   = "ticket.escalated"
	KindPayslipReady      = "payslip.ready"
)
