package reports

import "crewhub/internal/domain/access"

type Headcount struct {
	Role  access.Role `json:"role"`
	Count int         `json:"count"`
}

type AttendanceSummary struct {
	From        string  `json:"from"`
	To          string  `json:"to"`
	Records     int     `json:"records"`
	Closed      int     `json:"closed"`
	AutoClosed  int     `json:"autoClosed"`
	StillOpen   int     `json:"stillOpen"`
	ClosureRate float64 `json:"closureRate"`
}

type LeaveSummary struct {
	Pending   int `json:"pending"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
	DaysTaken int `json:"daysTaken"`
}

type TicketBacklog struct {
	Open      int `json:"open"`
	Pending   int `json:"pending"`
	Escalated int `json:"escalated"`
	Resolved  int `json:"resolved"`
}

type Dashboard struct {
	Headcount  []Headcount       `json:"headcount"`
	Attendance AttendanceSummary `json:"attendance"`
	Leave      LeaveSummary      `json:"leave"`
	Tickets    TicketBacklog     `json:"tickets"`
}
