package audit

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Insert(ctx context.Context, ev Event) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO audit_events (actor_id, actor_name, actor_role, action, entity_type, entity_id, detail, request_id, ip)
    VALUES (NULLIF($1, '')::uuid, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
  `, ev.ActorID, ev.ActorName, ev.ActorRole, ev.Action, ev.EntityType, ev.EntityID, ev.Detail, ev.RequestID, ev.IP)
	return err
}

func filterClause(f Filter, args *[]any) string {
	var conds []string
	if f.ActorID != "" {
		*args = append(*args, f.ActorID)
		conds = append(conds, fmt.Sprintf("actor_id = $%d", len(*args)))
	}
	if f.Action != "" {
		*args = append(*args, f.Action)
		conds = append(conds, fmt.Sprintf("action = $%d", len(*args)))
	}
	if !f.From.IsZero() {
		*args = append(*args, f.From)
		conds = append(conds, fmt.Sprintf("created_at >= $%d", len(*args)))
	}
	if !f.To.IsZero() {
		*args = append(*args, f.To)
		conds = append(conds, fmt.Sprintf("created_at <= $%d", len(*args)))
	}
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func (s *Store) List(ctx context.Context, f Filter) ([]Event, error) {
	var args []any
	query := `
    SELECT id, COALESCE(actor_id::text, ''), actor_name, actor_role, action,
           COALESCE(entity_type, ''), COALESCE(entity_id, ''), COALESCE(detail, ''),
           COALESCE(request_id, ''), COALESCE(ip, ''), created_at
    FROM audit_events` + filterClause(f, &args) + `
    ORDER BY created_at DESC`
	if f.PerPage > 0 {
		args = append(args, f.PerPage)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
		if f.Page > 1 {
			args = append(args, (f.Page-1)*f.PerPage)
			query += fmt.Sprintf(" OFFSET $%d", len(args))
		}
	}

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.ActorID, &ev.ActorName, &ev.ActorRole, &ev.Action,
			&ev.EntityType, &ev.EntityID, &ev.Detail, &ev.RequestID, &ev.IP, &ev.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context, f Filter) (int, error) {
	var args []any
	query := "SELECT count(*) FROM audit_events" + filterClause(f, &args)
	var n int
	err := s.DB.QueryRow(ctx, query, args...).Scan(&n)
	return n, err
}
