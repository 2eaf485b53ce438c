package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/auth"
	"crewhub/internal/platform/config"
)

// Seed creates the first Admin account when none exists. Roles and the
// permission catalog are static configuration in the access package and are
// deliberately not persisted, so there is exactly one copy to keep consistent.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	email := strings.TrimSpace(cfg.SeedAdminEmail)
	if email == "" || cfg.SeedAdminPassword == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE role = $1", access.RoleAdmin).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, display_name, role, password_hash, status)
    VALUES ($1, $2, $3, $4, 'active')
    ON CONFLICT (email) DO NOTHING
  `, email, "Administrator", access.RoleAdmin, hash)
	return err
}
