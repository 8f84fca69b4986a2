package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrconsole/internal/domain/attendance"
	"hrconsole/internal/domain/audit"
	domainauth "hrconsole/internal/domain/auth"
	"hrconsole/internal/domain/directory"
	"hrconsole/internal/domain/gallery"
	"hrconsole/internal/domain/notifications"
	"hrconsole/internal/domain/reports"
	"hrconsole/internal/domain/requests"
	"hrconsole/internal/domain/salary"
	"hrconsole/internal/platform/config"
	cryptoutil "hrconsole/internal/platform/crypto"
	"hrconsole/internal/platform/db"
	"hrconsole/internal/platform/email"
	"hrconsole/internal/platform/jobs"
	"hrconsole/internal/platform/metrics"
	"hrconsole/internal/platform/storage"
	attendancehandler "hrconsole/internal/transport/http/handlers/attendance"
	audithandler "hrconsole/internal/transport/http/handlers/audit"
	authhandler "hrconsole/internal/transport/http/handlers/auth"
	directoryhandler "hrconsole/internal/transport/http/handlers/directory"
	galleryhandler "hrconsole/internal/transport/http/handlers/gallery"
	notificationshandler "hrconsole/internal/transport/http/handlers/notifications"
	reportshandler "hrconsole/internal/transport/http/handlers/reports"
	requestshandler "hrconsole/internal/transport/http/handlers/requests"
	salaryhandler "hrconsole/internal/transport/http/handlers/salary"
	"hrconsole/internal/transport/http/middleware"
)

// App bundles everything a running server needs. Tests build one against
// their own database instead of calling Run.
type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// Run loads configuration, prepares the database and serves until the
// process is killed.
func Run() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		slog.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			slog.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			slog.Error("seed failed", "err", err)
			os.Exit(1)
		}
	}

	app, err := New(cfg, pool)
	if err != nil {
		slog.Error("server init failed", "err", err)
		os.Exit(1)
	}

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		slog.Error("server failed", "err", err)
		os.Exit(1)
	}
}

// New wires stores, services and handlers into a ready router.
func New(cfg config.Config, pool *pgxpool.Pool) (*App, error) {
	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, err
	}
	files := storage.New(cfg.StorageDir, crypto)

	authStore := domainauth.NewStore(pool)
	auditSvc := audit.New(pool)
	collector := metrics.New()
	idempotency := middleware.NewIdempotencyStore(pool)

	jobRunner := jobs.New(pool)
	jobRunner.Start(context.Background())

	notifySvc := notifications.New(notifications.NewStore(pool), email.New(cfg), cfg.EmailFrom, jobRunner)

	directorySvc := directory.NewService(directory.NewStore(pool), files)
	requestsSvc := requests.NewService(requests.NewStore(pool), notifySvc)
	salarySvc := salary.NewService(salary.NewStore(pool))
	attendanceSvc := attendance.NewService(attendance.NewStore(pool))
	gallerySvc := gallery.NewService(gallery.NewStore(pool), files, cfg.AssetBaseURL)
	reportsSvc := reports.NewService(pool, attendanceSvc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Total-Count", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	if cfg.MetricsEnabled {
		router.Use(middleware.Metrics(collector))
	}

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

	router.Route("/api/v1", func(r chi.Router) {
		// LoginRateLimit only throttles POSTs, so /auth/me rides along.
		r.Group(func(r chi.Router) {
			r.Use(middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute))
			authhandler.NewHandler(authStore, cfg, auditSvc).RegisterRoutes(r)
		})

		attendanceHandler := attendancehandler.NewHandler(attendanceSvc, authStore, auditSvc, jobRunner, cfg.LogoPath)

		directoryhandler.NewHandler(directorySvc, authStore, auditSvc).RegisterRoutes(r)
		requestshandler.NewHandler(requestsSvc, authStore, auditSvc, idempotency).RegisterRoutes(r)
		salaryhandler.NewHandler(salarySvc, authStore, auditSvc, jobRunner).RegisterRoutes(r)
		attendanceHandler.RegisterRoutes(r)
		galleryhandler.NewHandler(gallerySvc, authStore, auditSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportsSvc, authStore, collector, attendanceHandler.ExportPDF).RegisterRoutes(r)
		notificationshandler.NewHandler(notifySvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc, authStore).RegisterRoutes(r)
	})

	return &App{Config: cfg, DB: pool, Router: router}, nil
}
