package payroll

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

const rowColumns = `p.id, p.user_id, u.role, u.display_name, p.month, p.gross, p.deductions, p.net, p.bank_ref, p.status, p.created_at, p.updated_at`

func scanRow(row interface{ Scan(...any) error }) (Row, error) {
	var r Row
	err := row.Scan(&r.ID, &r.UserID, &r.OwnerRole, &r.DisplayName, &r.Month,
		&r.Gross, &r.Deductions, &r.Net, &r.BankRefEnc, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

func (s *Store) ListMonth(ctx context.Context, month string) ([]Row, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+rowColumns+`
    FROM payroll_rows p
    JOIN users u ON u.id = p.user_id
    WHERE p.month = $1
    ORDER BY u.display_name
  `, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, rowID string) (Row, error) {
	return scanRow(s.DB.QueryRow(ctx, `
    SELECT `+rowColumns+`
    FROM payroll_rows p
    JOIN users u ON u.id = p.user_id
    WHERE p.id = $1
  `, rowID))
}

func (s *Store) Upsert(ctx context.Context, userID, month string, gross, deductions int64, bankRef []byte) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_rows (user_id, month, gross, deductions, net, bank_ref, status)
    VALUES ($1, $2, $3, $4, $3 - $4, $5, 'draft')
    ON CONFLICT (user_id, month)
    DO UPDATE SET gross = EXCLUDED.gross, deductions = EXCLUDED.deductions,
                  net = EXCLUDED.net, bank_ref = EXCLUDED.bank_ref, updated_at = now()
    RETURNING id
  `, userID, month, gross, deductions, bankRef).Scan(&id)
	return id, err
}

func (s *Store) SetStatus(ctx context.Context, rowID, status string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE payroll_rows SET status = $1, updated_at = now() WHERE id = $2
  `, status, rowID)
	return err
}
