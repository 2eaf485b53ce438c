package users

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"crewhub/internal/domain/access"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const userColumns = `id, email, display_name, role, COALESCE(team_id::text, ''), status, last_login, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.DisplayName, &u.Role, &u.TeamID, &u.Status, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+userColumns+`
    FROM users
    ORDER BY display_name, email
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, userID string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE id = $1
  `, userID))
}

func (s *Store) Create(ctx context.Context, email, displayName string, role access.Role, teamID, passwordHash string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, display_name, role, team_id, password_hash, status)
    VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, 'active')
    RETURNING id
  `, email, displayName, role, teamID, passwordHash).Scan(&id)
	return id, err
}

func (s *Store) UpdateProfile(ctx context.Context, userID, displayName, teamID string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE users
    SET display_name = $1, team_id = NULLIF($2, '')::uuid, updated_at = now()
    WHERE id = $3
  `, displayName, teamID, userID)
	return err
}

func (s *Store) SetRole(ctx context.Context, userID string, role access.Role) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET role = $1, updated_at = now() WHERE id = $2", role, userID)
	return err
}

func (s *Store) SetStatus(ctx context.Context, userID, status string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET status = $1, updated_at = now() WHERE id = $2", status, userID)
	return err
}
