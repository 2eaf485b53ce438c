package notifications

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, n Notification) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO notifications (user_id, kind, title, body, entity_id)
    VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
  `, n.UserID, n.Kind, n.Title, n.Body, n.EntityID)
	return err
}

func (s *Store) ListForUser(ctx context.Context, userID string, limit int) ([]Notification, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, user_id, kind, title, COALESCE(body, ''), COALESCE(entity_id, ''), read_at, created_at
    FROM notifications
    WHERE user_id = $1
    ORDER BY created_at DESC
    LIMIT $2
  `, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Body, &n.EntityID, &n.ReadAt, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) UnreadCount(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.DB.QueryRow(ctx, `
    SELECT count(*) FROM notifications WHERE user_id = $1 AND read_at IS NULL
  `, userID).Scan(&n)
	return n, err
}

// MarkRead is scoped to the owner so one user cannot touch another's rows.
func (s *Store) MarkRead(ctx context.Context, userID, notificationID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now()
    WHERE id = $1 AND user_id = $2 AND read_at IS NULL
  `, notificationID, userID)
	return err
}

func (s *Store) MarkAllRead(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE notifications SET read_at = now()
    WHERE user_id = $1 AND read_at IS NULL
  `, userID)
	return err
}
