package tasks

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

const taskColumns = `t.id, t.assignee_id, u.role, t.creator_id, t.title, COALESCE(t.description, ''),
  t.status, t.priority, t.due_date, t.created_at, t.updated_at`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.AssigneeID, &t.AssigneeRole, &t.CreatorID, &t.Title, &t.Description,
		&t.Status, &t.Priority, &t.DueDate, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) List(ctx context.Context) ([]Task, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+taskColumns+`
    FROM tasks t
    JOIN users u ON u.id = t.assignee_id
    ORDER BY t.due_date NULLS LAST, t.created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) Get(ctx context.Context, taskID string) (Task, error) {
	return scanTask(s.DB.QueryRow(ctx, `
    SELECT `+taskColumns+`
    FROM tasks t
    JOIN users u ON u.id = t.assignee_id
    WHERE t.id = $1
  `, taskID))
}

func (s *Store) Create(ctx context.Context, assigneeID, creatorID, title, description, priority string, dueDate *time.Time) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tasks (assignee_id, creator_id, title, description, status, priority, due_date)
    VALUES ($1, $2, $3, NULLIF($4, ''), 'open', $5, $6)
    RETURNING id
  `, assigneeID, creatorID, title, description, priority, dueDate).Scan(&id)
	return id, err
}

func (s *Store) Update(ctx context.Context, taskID, title, description, priority string, dueDate *time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE tasks
    SET title = $1, description = NULLIF($2, ''), priority = $3, due_date = $4, updated_at = now()
    WHERE id = $5
  `, title, description, priority, dueDate, taskID)
	return err
}

func (s *Store) SetStatus(ctx context.Context, taskID, status string) error {
	_, err := s.DB.Exec(ctx, "UPDATE tasks SET status = $1, updated_at = now() WHERE id = $2", status, taskID)
	return err
}

func (s *Store) AssigneeRole(ctx context.Context, userID string) (string, error) {
	var role string
	err := s.DB.QueryRow(ctx, "SELECT role FROM users WHERE id = $1", userID).Scan(&role)
	return role, err
}

func (s *Store) Delete(ctx context.Context, taskID string) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM tasks WHERE id = $1", taskID)
	return err
}
