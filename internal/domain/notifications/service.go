package notifications

import (
	"context"
	"log/slog"
)

// Service delivers in-app notifications best-effort; a failed insert never
// fails the action that triggered it.
type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) Notify(ctx context.Context, userID, kind, title, body, entityID string) {
	if userID == "" {
		return
	}
	n := Notification{UserID: userID, Kind: kind, Title: title, Body: body, EntityID: entityID}
	if err := s.Store.Insert(ctx, n); err != nil {
		slog.Error("notification insert failed", "user", userID, "kind", kind, "error", err)
	}
}

func (s *Service) List(ctx context.Context, userID string, limit int) ([]Notification, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.Store.ListForUser(ctx, userID, limit)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.Store.UnreadCount(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.Store.MarkRead(ctx, userID, notificationID)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.Store.MarkAllRead(ctx, userID)
}
