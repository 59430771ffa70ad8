package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/loan_dashboard/internal/adapters/upstream"
	portsrepo "github.com/SscSPs/loan_dashboard/internal/core/ports/repositories"
	"github.com/SscSPs/loan_dashboard/internal/core/services"
	"github.com/SscSPs/loan_dashboard/internal/handlers"
	"github.com/SscSPs/loan_dashboard/internal/metrics"
	"github.com/SscSPs/loan_dashboard/internal/middleware"
	"github.com/SscSPs/loan_dashboard/internal/platform/config"
	"github.com/SscSPs/loan_dashboard/internal/repositories/database/memory"
	"github.com/SscSPs/loan_dashboard/internal/repositories/database/pgsql"
	"github.com/SscSPs/loan_dashboard/internal/repositories/database/sqlite"
	"github.com/SscSPs/loan_dashboard/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Loan Dashboard API
// @version 1.0
// @description Backend for the loan pipeline dashboard.

// @host localhost:8080
// @BasePath /api/v1
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewCollector(registry)

	themeRepo, closeThemeStore, err := newThemeStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize theme store", slog.String("store", cfg.ThemeStore), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeThemeStore()

	crm := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout,
		upstream.WithMetrics(recorder), upstream.WithLogger(logger))
	documentsAPI := upstream.NewClient(cfg.DocumentsBaseURL, cfg.UpstreamTimeout,
		upstream.WithMetrics(recorder), upstream.WithLogger(logger))

	repos := portsrepo.RepositoryProvider{
		OpportunityRepo: upstream.NewOpportunityRepository(crm),
		DocumentRepo:    upstream.NewDocumentRepository(documentsAPI),
		ThemeRepo:       themeRepo,
	}
	container := services.NewServiceContainer(cfg, repos, recorder)

	loggedCtx := middleware.WithLogger(ctx, logger)
	if err := container.Theme.Load(loggedCtx); err != nil {
		logger.Error("Failed to load theme preferences", slog.String("error", err.Error()))
		os.Exit(1)
	}
	// The dashboard can start without data; views report the load error.
	if err := container.Records.LoadAll(loggedCtx); err != nil {
		logger.Warn("Initial opportunity load failed", slog.String("error", err.Error()))
	}
	go container.Edit.Run(loggedCtx)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid RATE_LIMIT", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Global middleware (logging, recovery, cors, rate limiting)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.IdentityHeader, "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		middleware.RateLimit(limiter.New(memorystore.NewStore(), rate)),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, registry)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
}

// newThemeStore opens the configured preference store. The returned func
// releases its resources.
func newThemeStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.ThemeRepositoryFacade, func(), error) {
	switch cfg.ThemeStore {
	case config.ThemeStorePostgres:
		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			return nil, nil, err
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return pgsql.NewThemeStore(pool), func() { database.ClosePgxPool(pool) }, nil
	case config.ThemeStoreSQLite:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		repo, err := sqlite.NewThemeRepository(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil
	default:
		logger.Info("Theme preferences are kept in memory and reset on restart")
		return memory.NewThemeRepository(), func() {}, nil
	}
}

func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
