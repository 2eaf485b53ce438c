package reports

import (
	"context"
	"sort"
	"time"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/attendance"
	"crewhub/internal/domain/clients"
	"crewhub/internal/domain/leave"
	"crewhub/internal/domain/users"
)

// Service builds dashboard aggregates from the other services' visible
// listings, so every number respects the caller's visibility scope.
type Service struct {
	Users      *users.Service
	Attendance *attendance.Service
	Leave      *leave.Service
	Clients    *clients.Service
}

func NewService(usersSvc *users.Service, attendanceSvc *attendance.Service, leaveSvc *leave.Service, clientsSvc *clients.Service) *Service {
	return &Service{Users: usersSvc, Attendance: attendanceSvc, Leave: leaveSvc, Clients: clientsSvc}
}

func (s *Service) Dashboard(ctx context.Context, p access.Principal, from, to time.Time) (Dashboard, error) {
	var d Dashboard

	headcount, err := s.headcount(ctx, p)
	if err != nil {
		return Dashboard{}, err
	}
	d.Headcount = headcount

	att, err := s.attendanceSummary(ctx, p, from, to)
	if err != nil {
		return Dashboard{}, err
	}
	d.Attendance = att

	lv, err := s.leaveSummary(ctx, p)
	if err != nil {
		return Dashboard{}, err
	}
	d.Leave = lv

	tb, err := s.ticketBacklog(ctx, p)
	if err != nil {
		return Dashboard{}, err
	}
	d.Tickets = tb

	return d, nil
}

func (s *Service) headcount(ctx context.Context, p access.Principal) ([]Headcount, error) {
	visible, err := s.Users.ListVisible(ctx, p)
	if err != nil {
		return nil, err
	}
	byRole := make(map[access.Role]int)
	for _, u := range visible {
		if u.Status == users.StatusActive {
			byRole[u.Role]++
		}
	}
	out := make([]Headcount, 0, len(byRole))
	for role, n := range byRole {
		out = append(out, Headcount{Role: role, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Role < out[j].Role })
	return out, nil
}

func (s *Service) attendanceSummary(ctx context.Context, p access.Principal, from, to time.Time) (AttendanceSummary, error) {
	records, err := s.Attendance.ListRange(ctx, p, from, to)
	if err != nil {
		return AttendanceSummary{}, err
	}
	sum := AttendanceSummary{
		From:    from.Format("2006-01-02"),
		To:      to.Format("2006-01-02"),
		Records: len(records),
	}
	for _, r := range records {
		switch r.Status {
		case attendance.StatusClosed, attendance.StatusCorrected:
			sum.Closed++
		case attendance.StatusAutoClosed:
			sum.AutoClosed++
		case attendance.StatusOpen:
			sum.StillOpen++
		}
	}
	if sum.Records > 0 {
		sum.ClosureRate = float64(sum.Closed) / float64(sum.Records)
	}
	return sum, nil
}

func (s *Service) leaveSummary(ctx context.Context, p access.Principal) (LeaveSummary, error) {
	requests, err := s.Leave.ListVisible(ctx, p)
	if err != nil {
		return LeaveSummary{}, err
	}
	var sum LeaveSummary
	for _, r := range requests {
		switch r.Status {
		case leave.StatusPending:
			sum.Pending++
		case leave.StatusApproved:
			sum.Approved++
			sum.DaysTaken += r.Days
		case leave.StatusRejected:
			sum.Rejected++
		case leave.StatusCancelled:
			sum.Cancelled++
		}
	}
	return sum, nil
}

func (s *Service) ticketBacklog(ctx context.Context, p access.Principal) (TicketBacklog, error) {
	tickets, err := s.Clients.ListTicketsVisible(ctx, p)
	if err != nil {
		return TicketBacklog{}, err
	}
	var tb TicketBacklog
	for _, t := range tickets {
		switch t.Status {
		case clients.TicketOpen:
			tb.Open++
		case clients.TicketPending:
			tb.Pending++
		case clients.TicketEscalated:
			tb.Escalated++
		case clients.TicketResolved:
			tb.Resolved++
		}
	}
	return tb, nil
}
