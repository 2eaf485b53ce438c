package clients

import (
	"context"
	"errors"
	"time"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/notifications"
)

var (
	ErrForbidden       = errors.New("clients: forbidden")
	ErrUnknownStatus   = errors.New("clients: unknown ticket status")
	ErrUnknownPriority = errors.New("clients: unknown priority")
)

type Notifier interface {
	Notify(ctx context.Context, userID, kind, title, body, entityID string)
}

type Service struct {
	Store    *Store
	Access   *access.Service
	Notifier Notifier
}

func NewService(store *Store, accessSvc *access.Service, notifier Notifier) *Service {
	return &Service{Store: store, Access: accessSvc, Notifier: notifier}
}

// Client accounts are shared reference data, visible to anyone who holds the
// clients view permission; tickets are the role-scoped records.
func (s *Service) ListClients(ctx context.Context) ([]Client, error) {
	return s.Store.ListClients(ctx)
}

func (s *Service) CreateClient(ctx context.Context, c Client) (string, error) {
	return s.Store.CreateClient(ctx, c)
}

func (s *Service) UpdateClient(ctx context.Context, c Client) error {
	return s.Store.UpdateClient(ctx, c)
}

func (s *Service) ListTicketsVisible(ctx context.Context, p access.Principal) ([]Ticket, error) {
	all, err := s.Store.ListTickets(ctx)
	if err != nil {
		return nil, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return nil, err
	}
	return access.VisibleRecords(p, all, Ticket.Owner, memberships), nil
}

func (s *Service) CreateTicket(ctx context.Context, p access.Principal, t Ticket) (Ticket, error) {
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	if !KnownPriority(t.Priority) {
		return Ticket{}, ErrUnknownPriority
	}
	t.OwnerID = p.UserID
	id, err := s.Store.CreateTicket(ctx, t)
	if err != nil {
		return Ticket{}, err
	}
	return s.Store.GetTicket(ctx, id)
}

func (s *Service) SetTicketStatus(ctx context.Context, p access.Principal, ticketID, status string) (Ticket, error) {
	if !KnownTicketStatus(status) {
		return Ticket{}, ErrUnknownStatus
	}
	ticket, err := s.mutable(ctx, p, ticketID)
	if err != nil {
		return Ticket{}, err
	}
	if err := s.Store.SetTicketStatus(ctx, ticket.ID, status); err != nil {
		return Ticket{}, err
	}
	return s.Store.GetTicket(ctx, ticket.ID)
}

func (s *Service) ReassignTicket(ctx context.Context, p access.Principal, ticketID, ownerID string) (Ticket, error) {
	ticket, err := s.mutable(ctx, p, ticketID)
	if err != nil {
		return Ticket{}, err
	}
	if err := s.Store.ReassignTicket(ctx, ticket.ID, ownerID); err != nil {
		return Ticket{}, err
	}
	if s.Notifier != nil && ownerID != p.UserID {
		s.Notifier.Notify(ctx, ownerID, notifications.KindTaskAssigned, "Ticket assigned: "+ticket.Subject, "", ticket.ID)
	}
	return s.Store.GetTicket(ctx, ticket.ID)
}

func (s *Service) mutable(ctx context.Context, p access.Principal, ticketID string) (Ticket, error) {
	ticket, err := s.Store.GetTicket(ctx, ticketID)
	if err != nil {
		return Ticket{}, err
	}
	memberships, err := s.Access.Scope(ctx, p)
	if err != nil {
		return Ticket{}, err
	}
	if !access.CanMutate(p, ticket.Owner(), memberships) {
		return Ticket{}, ErrForbidden
	}
	return ticket, nil
}

// EscalateStale is run by the background sweep: open or pending tickets
// untouched past the threshold flip to escalated and the owner is notified.
func (s *Service) EscalateStale(ctx context.Context, staleAfter time.Duration) (int, error) {
	stale, err := s.Store.StaleOpenTickets(ctx, time.Now().Add(-staleAfter))
	if err != nil {
		return 0, err
	}
	for _, t := range stale {
		if err := s.Store.SetTicketStatus(ctx, t.ID, TicketEscalated); err != nil {
			return 0, err
		}
		if s.Notifier != nil {
			s.Notifier.Notify(ctx, t.OwnerID, notifications.KindTicketEscalated,
				"Ticket escalated: "+t.Subject, "No activity since "+t.UpdatedAt.Format(time.RFC3339), t.ID)
		}
	}
	return len(stale), nil
}
