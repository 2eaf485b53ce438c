package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"crewhub/internal/domain/access"
	"crewhub/internal/domain/attendance"
	"crewhub/internal/domain/audit"
	"crewhub/internal/domain/auth"
	"crewhub/internal/domain/clients"
	"crewhub/internal/domain/leads"
	"crewhub/internal/domain/leave"
	"crewhub/internal/domain/notifications"
	"crewhub/internal/domain/payroll"
	"crewhub/internal/domain/reports"
	"crewhub/internal/domain/tasks"
	"crewhub/internal/domain/teams"
	"crewhub/internal/domain/timesheets"
	"crewhub/internal/domain/users"
	"crewhub/internal/platform/config"
	"crewhub/internal/platform/crypto"
	"crewhub/internal/platform/db"
	"crewhub/internal/platform/jobs"
	"crewhub/internal/platform/metrics"
	"crewhub/internal/transport/http/api"
	attendancehandler "crewhub/internal/transport/http/handlers/attendance"
	audithandler "crewhub/internal/transport/http/handlers/audit"
	authhandler "crewhub/internal/transport/http/handlers/auth"
	clientshandler "crewhub/internal/transport/http/handlers/clients"
	leadshandler "crewhub/internal/transport/http/handlers/leads"
	leavehandler "crewhub/internal/transport/http/handlers/leave"
	notificationshandler "crewhub/internal/transport/http/handlers/notifications"
	payrollhandler "crewhub/internal/transport/http/handlers/payroll"
	reportshandler "crewhub/internal/transport/http/handlers/reports"
	taskshandler "crewhub/internal/transport/http/handlers/tasks"
	teamshandler "crewhub/internal/transport/http/handlers/teams"
	timesheetshandler "crewhub/internal/transport/http/handlers/timesheets"
	usershandler "crewhub/internal/transport/http/handlers/users"
	"crewhub/internal/transport/http/middleware"
)

func Run() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("config invalid", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg)

	// A malformed catalog or role table must never reach the request path.
	resolver, err := access.NewResolver(access.Catalog, access.RolePermissions)
	if err != nil {
		var cfgErr *access.ConfigurationError
		if errors.As(err, &cfgErr) {
			slog.Error("permission catalog invalid", "reason", cfgErr.Reason)
		} else {
			slog.Error("resolver init failed", "error", err)
		}
		os.Exit(1)
	}

	cryptoSvc, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		slog.Error("encryption key invalid", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			slog.Error("migrations failed", "error", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			slog.Error("seed failed", "error", err)
			os.Exit(1)
		}
	}

	accessStore := access.NewStore(pool)
	accessSvc := access.NewService(resolver, accessStore)

	auditSvc := audit.NewService(audit.NewStore(pool))
	notifySvc := notifications.NewService(notifications.NewStore(pool))

	usersSvc := users.NewService(users.NewStore(pool), accessSvc, accessStore)
	teamsSvc := teams.NewService(teams.NewStore(pool))
	attendanceSvc := attendance.NewService(attendance.NewStore(pool), accessSvc)
	leaveSvc := leave.NewService(leave.NewStore(pool), accessSvc, notifySvc)
	payrollSvc := payroll.NewService(payroll.NewStore(pool), accessSvc, cryptoSvc)
	tasksSvc := tasks.NewService(tasks.NewStore(pool), accessSvc, notifySvc)
	timesheetsSvc := timesheets.NewService(timesheets.NewStore(pool), accessSvc, notifySvc)
	leadsSvc := leads.NewService(leads.NewStore(pool), accessSvc)
	clientsSvc := clients.NewService(clients.NewStore(pool), accessSvc, notifySvc)
	reportsSvc := reports.NewService(usersSvc, attendanceSvc, leaveSvc, clientsSvc)

	authStore := auth.NewStore(pool)

	background := jobs.New(pool, cfg, attendanceSvc, clientsSvc)
	background.Start(ctx)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authStore, auditSvc, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL).RegisterRoutes(r)
		usershandler.NewHandler(usersSvc, accessSvc, auditSvc).RegisterRoutes(r)
		teamshandler.NewHandler(teamsSvc, accessSvc, auditSvc).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc, accessSvc, auditSvc).RegisterRoutes(r)
		leavehandler.NewHandler(leaveSvc, accessSvc, auditSvc).RegisterRoutes(r)
		payrollhandler.NewHandler(payrollSvc, accessSvc, auditSvc).RegisterRoutes(r)
		taskshandler.NewHandler(tasksSvc, accessSvc, auditSvc).RegisterRoutes(r)
		timesheetshandler.NewHandler(timesheetsSvc, accessSvc, auditSvc).RegisterRoutes(r)
		leadshandler.NewHandler(leadsSvc, accessSvc, auditSvc).RegisterRoutes(r)
		clientshandler.NewHandler(clientsSvc, accessSvc, auditSvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, accessSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc, accessSvc, auditSvc).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "error", err)
	}
}

func setupLogging(cfg config.Config) {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))
}

// spaHandler serves the built frontend, falling back to index.html so
// client-side routes resolve on refresh.
type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, r.URL.Path)
	if _, err := os.Stat(path); err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	} else if !os.IsNotExist(err) {
		http.NotFound(w, r)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
}
