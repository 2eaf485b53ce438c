package teams

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

func (s *Store) List(ctx context.Context) ([]Team, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT t.id, t.name, COALESCE(t.description, ''),
           (SELECT count(*) FROM team_memberships tm WHERE tm.team_id = t.id),
           t.created_at, t.updated_at
    FROM teams t
    ORDER BY t.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.MemberCount, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, teamID string) (Team, error) {
	var t Team
	err := s.DB.QueryRow(ctx, `
    SELECT t.id, t.name, COALESCE(t.description, ''),
           (SELECT count(*) FROM team_memberships tm WHERE tm.team_id = t.id),
           t.created_at, t.updated_at
    FROM teams t
    WHERE t.id = $1
  `, teamID).Scan(&t.ID, &t.Name, &t.Description, &t.MemberCount, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) Create(ctx context.Context, name, description string) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO teams (name, description)
    VALUES ($1, NULLIF($2, ''))
    RETURNING id
  `, name, description).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, teamID, name, description string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE teams
    SET name = $1, description = NULLIF($2, ''), updated_at = now()
    WHERE id = $3
  `, name, description, teamID)
	return err
}

func (s *Store) Delete(ctx context.Context, teamID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM teams WHERE id = $1", teamID)
	return err
}

func (s *Store) Members(ctx context.Context, teamID string) ([]Member, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.display_name, u.email, u.role, tm.role, tm.created_at
    FROM team_memberships tm
    JOIN users u ON u.id = tm.user_id
    WHERE tm.team_id = $1
    ORDER BY tm.role, u.display_name
  `, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.UserID, &m.DisplayName, &m.Email, &m.UserRole, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// AddMember upserts so promoting an existing member to lead is the same call.
func (s *Store) AddMember(ctx context.Context, teamID, userID string, role access.MembershipRole) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO team_memberships (team_id, user_id, role)
    VALUES ($1, $2, $3)
    ON CONFLICT (team_id, user_id)
    DO UPDATE SET role = EXCLUDED.role
  `, teamID, userID, role)
	return err
}

func (s *Store) RemoveMember(ctx context.Context, teamID, userID string) error {
	_, err := s.DB.Exec(ctx, `
    DELETE FROM team_memberships WHERE team_id = $1 AND user_id = $2
  `, teamID, userID)
	return err
}

func (s *Store) MembershipsForUser(ctx context.Context, userID string) ([]access.TeamMembership, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT team_id, user_id, role
    FROM team_memberships
    WHERE user_id = $1
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []access.TeamMembership
	for rows.Next() {
		var m access.TeamMembership
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Role); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
