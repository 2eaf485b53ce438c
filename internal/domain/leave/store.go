package leave

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const requestColumns = `l.id, l.user_id, u.role, l.type, l.start_date, l.end_date, l.days,
  COALESCE(l.reason, ''), l.status, COALESCE(l.decider_id::text, ''), l.decided_at,
  COALESCE(l.decision_note, ''), l.created_at, l.updated_at`

func scanRequest(row interface{ Scan(...any) error }) (Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.UserID, &r.OwnerRole, &r.Type, &r.StartDate, &r.EndDate, &r.Days,
		&r.Reason, &r.Status, &r.DeciderID, &r.DecidedAt, &r.DecisionNote, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Store) List(ctx context.Context) ([]Request, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests l
    JOIN users u ON u.id = l.user_id
    ORDER BY l.created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, requestID string) (Request, error) {
	return scanRequest(s.DB.QueryRow(ctx, `
    SELECT `+requestColumns+`
    FROM leave_requests l
    JOIN users u ON u.id = l.user_id
    WHERE l.id = $1
  `, requestID))
}

func (s *Store) Create(ctx context.Context, userID, leaveType string, start, end time.Time, days int, reason string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (user_id, type, start_date, end_date, days, reason, status)
    VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), 'pending')
    RETURNING id
  `, userID, leaveType, start, end, days, reason).Scan(&id)
	return id, err
}

// Decide flips a pending request; the status guard makes decisions idempotent
// under races.
func (s *Store) Decide(ctx context.Context, requestID, status, deciderID, note string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = $1, decider_id = $2, decided_at = now(), decision_note = NULLIF($3, ''), updated_at = now()
    WHERE id = $4 AND status = 'pending'
  `, status, deciderID, note, requestID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Cancel(ctx context.Context, requestID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE leave_requests
    SET status = 'cancelled', updated_at = now()
    WHERE id = $1 AND status = 'pending'
  `, requestID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) Balances(ctx context.Context, userID string, year int) ([]Balance, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT b.user_id, b.year, b.type, b.allocated,
           COALESCE((
             SELECT sum(l.days) FROM leave_requests l
             WHERE l.user_id = b.user_id AND l.type = b.type
               AND l.status = 'approved'
               AND date_part('year', l.start_date) = b.year
           ), 0)
    FROM leave_balances b
    WHERE b.user_id = $1 AND b.year = $2
    ORDER BY b.type
  `, userID, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Balance
	for rows.Next() {
		var b Balance
		if err := rows.Scan(&b.UserID, &b.Year, &b.Type, &b.Allocated, &b.Used); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *Store) SetAllocation(ctx context.Context, userID string, year int, leaveType string, allocated int) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO leave_balances (user_id, year, type, allocated)
    VALUES ($1, $2, $3, $4)
    ON CONFLICT (user_id, year, type)
    DO UPDATE SET allocated = EXCLUDED.allocated
  `, userID, year, leaveType, allocated)
	return err
}
