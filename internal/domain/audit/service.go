package audit

import (
	"context"
	"log/slog"

	"crewhub/internal/domain/access"
)

// Service writes audit events best-effort: a failed insert is logged and
// swallowed so auditing never breaks the request it describes.
type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Record(ctx context.Context, p access.Principal, action, entityType, entityID, detail, requestID, ip string) {
	ev := Event{
		ActorID:    p.UserID,
		ActorName:  p.DisplayName,
		ActorRole:  string(p.Role),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Detail:     detail,
		RequestID:  requestID,
		IP:         ip,
	}
	if err := s.Store.Insert(ctx, ev); err != nil {
		slog.Error("audit event insert failed", "action", action, "actor", p.UserID, "error", err)
	}
}

// RecordDenial satisfies the transport layer's denial hook.
func (s *Service) RecordDenial(ctx context.Context, p access.Principal, path, requestID, ip string) {
	s.Record(ctx, p, ActionDenied, "route", path, "", requestID, ip)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Event, int, error) {
	events, err := s.Store.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.Store.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
