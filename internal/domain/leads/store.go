package leads

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

const leadColumns = `l.id, l.owner_id, u.role, l.company, l.contact, COALESCE(l.email, ''),
  COALESCE(l.phone, ''), l.stage, l.value, COALESCE(l.notes, ''), l.created_at, l.updated_at`

func scanLead(row interface{ Scan(...any) error }) (Lead, error) {
	var l Lead
	err := row.Scan(&l.ID, &l.OwnerID, &l.OwnerRole, &l.Company, &l.Contact, &l.Email,
		&l.Phone, &l.Stage, &l.Value, &l.Notes, &l.CreatedAt, &l.UpdatedAt)
	return l, err
}

func (s *Store) List(ctx context.Context) ([]Lead, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+leadColumns+`
    FROM leads l
    JOIN users u ON u.id = l.owner_id
    ORDER BY l.updated_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, leadID string) (Lead, error) {
	return scanLead(s.DB.QueryRow(ctx, `
    SELECT `+leadColumns+`
    FROM leads l
    JOIN users u ON u.id = l.owner_id
    WHERE l.id = $1
  `, leadID))
}

func (s *Store) Create(ctx context.Context, l Lead) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leads (owner_id, company, contact, email, phone, stage, value, notes)
    VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), $6, $7, NULLIF($8, ''))
    RETURNING id
  `, l.OwnerID, l.Company, l.Contact, l.Email, l.Phone, l.Stage, l.Value, l.Notes).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, l Lead) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE leads
    SET company = $1, contact = $2, email = NULLIF($3, ''), phone = NULLIF($4, ''),
        stage = $5, value = $6, notes = NULLIF($7, ''), updated_at = now()
    WHERE id = $8
  `, l.Company, l.Contact, l.Email, l.Phone, l.Stage, l.Value, l.Notes, l.ID)
	return err
}

func (s *Store) Delete(ctx context.Context, leadID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM leads WHERE id = $1", leadID)
	return err
}
