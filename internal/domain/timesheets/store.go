package timesheets

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

const entryColumns = `t.id, t.user_id, u.role, t.week_start, t.hours, COALESCE(t.notes, ''),
  t.status, COALESCE(t.decider_id::text, ''), t.decided_at, t.created_at, t.updated_at`

func scanEntry(row interface{ Scan(...any) error }) (Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.UserID, &e.OwnerRole, &e.WeekStart, &e.Hours, &e.Notes,
		&e.Status, &e.DeciderID, &e.DecidedAt, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+entryColumns+`
    FROM timesheets t
    JOIN users u ON u.id = t.user_id
    ORDER BY t.week_start DESC, u.display_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, entryID string) (Entry, error) {
	return scanEntry(s.DB.QueryRow(ctx, `
    SELECT `+entryColumns+`
    FROM timesheets t
    JOIN users u ON u.id = t.user_id
    WHERE t.id = $1
  `, entryID))
}

// Upsert keeps one entry per user per week; resubmitting a draft replaces it.
func (s *Store) Upsert(ctx context.Context, userID string, weekStart time.Time, hours float64, notes, status string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO timesheets (user_id, week_start, hours, notes, status)
    VALUES ($1, $2, $3, NULLIF($4, ''), $5)
    ON CONFLICT (user_id, week_start)
    DO UPDATE SET hours = EXCLUDED.hours, notes = EXCLUDED.notes, status = EXCLUDED.status,
                  decider_id = NULL, decided_at = NULL, updated_at = now()
    RETURNING id
  `, userID, weekStart, hours, notes, status).Scan(&id)
	return id, err
}

func (s *Store) Decide(ctx context.Context, entryID, status, deciderID string) (bool, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE timesheets
    SET status = $1, decider_id = $2, decided_at = now(), updated_at = now()
    WHERE id = $3 AND status = 'submitted'
  `, status, deciderID, entryID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
