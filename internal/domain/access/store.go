package access

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store reads permission overrides and team memberships from Postgres and
// carries the administrative CRUD for overrides.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) OverridesForUser(ctx context.Context, userID string) ([]Override, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT user_id, permission, grant_permission, updated_at
    FROM permission_overrides
    WHERE user_id = $1
    ORDER BY updated_at
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Override
	for rows.Next() {
		var ov Override
		if err := rows.Scan(&ov.UserID, &ov.Permission, &ov.Grant, &ov.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, ov)
	}
	return out, rows.Err()
}

// RoleOf resolves the role a user currently holds.
func (s *Store) RoleOf(ctx context.Context, userID string) (Role, error) {
	var role Role
	err := s.DB.QueryRow(ctx, "SELECT role FROM users WHERE id = $1", userID).Scan(&role)
	return role, err
}

// LeadScope returns every membership of every team the user leads, including
// the lead rows themselves.
func (s *Store) LeadScope(ctx context.Context, userID string) ([]TeamMembership, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT tm.team_id, tm.user_id, tm.role
    FROM team_memberships tm
    WHERE tm.team_id IN (
      SELECT team_id FROM team_memberships WHERE user_id = $1 AND role = 'lead'
    )
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TeamMembership
	for rows.Next() {
		var m TeamMembership
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Role); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) ListOverrides(ctx context.Context, userID string) ([]Override, error) {
	return s.OverridesForUser(ctx, userID)
}

func (s *Store) UpsertOverride(ctx context.Context, ov Override) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO permission_overrides (user_id, permission, grant_permission)
    VALUES ($1, $2, $3)
    ON CONFLICT (user_id, permission)
    DO UPDATE SET grant_permission = EXCLUDED.grant_permission, updated_at = now()
  `, ov.UserID, ov.Permission, ov.Grant)
	return err
}

func (s *Store) DeleteOverride(ctx context.Context, userID string, perm Permission) error {
	_, err := s.DB.Exec(ctx, `
    DELETE FROM permission_overrides WHERE user_id = $1 AND permission = $2
  `, userID, perm)
	return err
}
