package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"crewhub/internal/domain/attendance"
	"crewhub/internal/domain/clients"
	"crewhub/internal/platform/config"
)

const (
	JobAttendanceSweep  = "attendance_sweep"
	JobTicketEscalation = "ticket_escalation"
)

// Service runs the periodic maintenance jobs in-process: the nightly
// attendance auto-close and the stale-ticket escalation sweep. Each run is
// recorded in job_runs for the operators.
type Service struct {
	DB         *pgxpool.Pool
	Cfg        config.Config
	Attendance *attendance.Service
	Clients    *clients.Service
	queue      chan job
}

type job struct {
	Type string
	Run  func(context.Context) (any, error)
}

func New(db *pgxpool.Pool, cfg config.Config, attendanceSvc *attendance.Service, clientsSvc *clients.Service) *Service {
	return &Service{
		DB:         db,
		Cfg:        cfg,
		Attendance: attendanceSvc,
		Clients:    clientsSvc,
		queue:      make(chan job, 128),
	}
}

func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
	if s.Cfg.AttendanceSweepInterval > 0 {
		go s.schedule(ctx, s.Cfg.AttendanceSweepInterval, JobAttendanceSweep, s.sweepAttendance)
	}
	if s.Cfg.TicketSweepInterval > 0 {
		go s.schedule(ctx, s.Cfg.TicketSweepInterval, JobTicketEscalation, s.escalateTickets)
	}
}

func (s *Service) sweepAttendance(ctx context.Context) (any, error) {
	closed, err := s.Attendance.AutoCloseOpen(ctx)
	return map[string]any{"closed": closed}, err
}

func (s *Service) escalateTickets(ctx context.Context) (any, error) {
	escalated, err := s.Clients.EscalateStale(ctx, s.Cfg.TicketStaleAfter)
	return map[string]any{"escalated": escalated}, err
}

func (s *Service) Enqueue(jobType string, run func(context.Context) (any, error)) {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
	default:
		slog.Warn("job queue full", "jobType", jobType)
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run func(context.Context) (any, error)) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "error", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if err := s.DB.QueryRow(ctx, `
    INSERT INTO job_runs (job_type, status)
    VALUES ($1, $2)
    RETURNING id
  `, j.Type, "running").Scan(&runID); err != nil {
		slog.Warn("job run insert failed", "error", err)
	}

	details, err := j.Run(ctx)
	status := "completed"
	if err != nil {
		status = "failed"
	}
	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "error", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if _, updErr := s.DB.Exec(ctx, `
      UPDATE job_runs
      SET status = $1, details_json = $2, completed_at = now()
      WHERE id = $3
    `, status, detailsJSON, runID); updErr != nil {
			slog.Warn("job run update failed", "error", updErr)
		}
	}
	return details, err
}

func (s *Service) schedule(ctx context.Context, interval time.Duration, jobType string, run func(context.Context) (any, error)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Enqueue(jobType, run)
		}
	}
}
