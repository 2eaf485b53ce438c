package attendance

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

const recordColumns = `a.id, a.user_id, u.role, a.date, a.clock_in, a.clock_out, a.status, COALESCE(a.note, ''), a.created_at, a.updated_at`

func scanRecord(row interface{ Scan(...any) error }) (Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.UserID, &r.OwnerRole, &r.Date, &r.ClockIn, &r.ClockOut, &r.Status, &r.Note, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Store) ListRange(ctx context.Context, from, to time.Time) ([]Record, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records a
    JOIN users u ON u.id = a.user_id
    WHERE a.date >= $1 AND a.date <= $2
    ORDER BY a.date DESC, a.clock_in DESC
  `, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, recordID string) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records a
    JOIN users u ON u.id = a.user_id
    WHERE a.id = $1
  `, recordID))
}

func (s *Store) OpenForUser(ctx context.Context, userID string, date time.Time) (Record, error) {
	return scanRecord(s.DB.QueryRow(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records a
    JOIN users u ON u.id = a.user_id
    WHERE a.user_id = $1 AND a.date = $2 AND a.status = 'open'
  `, userID, date))
}

func (s *Store) ClockIn(ctx context.Context, userID string, date, at time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (user_id, date, clock_in, status)
    VALUES ($1, $2, $3, 'open')
    RETURNING id
  `, userID, date, at).Scan(&id)
	return id, err
}

func (s *Store) ClockOut(ctx context.Context, recordID string, at time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE attendance_records
    SET clock_out = $1, status = 'closed', updated_at = now()
    WHERE id = $2 AND status = 'open'
  `, at, recordID)
	return err
}

func (s *Store) Correct(ctx context.Context, recordID string, clockIn time.Time, clockOut *time.Time, note string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE attendance_records
    SET clock_in = $1, clock_out = $2, status = 'corrected', note = NULLIF($3, ''), updated_at = now()
    WHERE id = $4
  `, clockIn, clockOut, note, recordID)
	return err
}

// CloseOpenBefore closes every record still open from a previous day, setting
// the clock-out to end of that record's day.
func (s *Store) CloseOpenBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_records
    SET clock_out = date + interval '1 day' - interval '1 second',
        status = 'auto-closed', updated_at = now()
    WHERE status = 'open' AND date < $1
  `, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
