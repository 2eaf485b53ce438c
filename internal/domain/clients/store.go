package clients

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

func (s *Store) ListClients(ctx context.Context) ([]Client, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT c.id, c.name, COALESCE(c.contact_name, ''), COALESCE(c.email, ''), COALESCE(c.phone, ''),
           (SELECT count(*) FROM tickets t WHERE t.client_id = c.id AND t.status IN ('open', 'pending', 'escalated')),
           c.created_at, c.updated_at
    FROM clients c
    ORDER BY c.name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Client
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.ContactName, &c.Email, &c.Phone, &c.OpenTickets, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateClient(ctx context.Context, c Client) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO clients (name, contact_name, email, phone)
    VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), NULLIF($4, ''))
    RETURNING id
  `, c.Name, c.ContactName, c.Email, c.Phone).Scan(&id)
	return id, err
}

func (s *Store) UpdateClient(ctx context.Context, c Client) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE clients
    SET name = $1, contact_name = NULLIF($2, ''), email = NULLIF($3, ''), phone = NULLIF($4, ''), updated_at = now()
    WHERE id = $5
  `, c.Name, c.ContactName, c.Email, c.Phone, c.ID)
	return err
}

const ticketColumns = `t.id, t.client_id, c.name, t.owner_id, u.role, t.subject, COALESCE(t.body, ''),
  t.status, t.priority, t.created_at, t.updated_at`

func scanTicket(row interface{ Scan(...any) error }) (Ticket, error) {
	var t Ticket
	err := row.Scan(&t.ID, &t.ClientID, &t.ClientName, &t.OwnerID, &t.OwnerRole, &t.Subject, &t.Body,
		&t.Status, &t.Priority, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) ListTickets(ctx context.Context) ([]Ticket, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+ticketColumns+`
    FROM tickets t
    JOIN clients c ON c.id = t.client_id
    JOIN users u ON u.id = t.owner_id
    ORDER BY t.updated_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTicket(ctx context.Context, ticketID string) (Ticket, error) {
	return scanTicket(s.DB.QueryRow(ctx, `
    SELECT `+ticketColumns+`
    FROM tickets t
    JOIN clients c ON c.id = t.client_id
    JOIN users u ON u.id = t.owner_id
    WHERE t.id = $1
  `, ticketID))
}

func (s *Store) CreateTicket(ctx context.Context, t Ticket) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO tickets (client_id, owner_id, subject, body, status, priority)
    VALUES ($1, $2, $3, NULLIF($4, ''), 'open', $5)
    RETURNING id
  `, t.ClientID, t.OwnerID, t.Subject, t.Body, t.Priority).Scan(&id)
	return id, err
}

func (s *Store) SetTicketStatus(ctx context.Context, ticketID, status string) error {
	_, err := s.DB.Exec(ctx, "UPDATE tickets SET status = $1, updated_at = now() WHERE id = $2", status, ticketID)
	return err
}

func (s *Store) ReassignTicket(ctx context.Context, ticketID, ownerID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE tickets SET owner_id = $1, updated_at = now() WHERE id = $2", ownerID, ticketID)
	return err
}

// StaleOpenTickets returns open or pending tickets untouched since the cutoff.
func (s *Store) StaleOpenTickets(ctx context.Context, cutoff time.Time) ([]Ticket, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+ticketColumns+`
    FROM tickets t
    JOIN clients c ON c.id = t.client_id
    JOIN users u ON u.id = t.owner_id
    WHERE t.status IN ('open', 'pending') AND t.updated_at < $1
  `, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
