// Package main - entry point for the AfcaLink back-office API.
//
// The service runs the placement pipeline for a study-abroad agency:
// student files move through a status pipeline with a full audit trail,
// payments are recorded and validated by the accounting desk, and the
// office roles are kept informed through in-app notifications.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: use case orchestration (Commands/Queries/Event handlers)
// - Infrastructure: repository implementations, caching, messaging
// - Interface: HTTP REST endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/afcalink/afcalink-backoffice/config"

	// Application layer
	"github.com/afcalink/afcalink-backoffice/internal/application/command"
	"github.com/afcalink/afcalink-backoffice/internal/application/eventhandler"
	"github.com/afcalink/afcalink-backoffice/internal/application/query"

	// Domain layer
	"github.com/afcalink/afcalink-backoffice/internal/domain/status"
	"github.com/afcalink/afcalink-backoffice/internal/domain/user"

	// Infrastructure layer
	"github.com/afcalink/afcalink-backoffice/internal/infrastructure/messaging"
	"github.com/afcalink/afcalink-backoffice/internal/infrastructure/persistence/postgres"
	"github.com/afcalink/afcalink-backoffice/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/afcalink/afcalink-backoffice/internal/interface/http"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting AfcaLink back office",
		"env", cfg.App.Environment,
		"version", cfg.App.Version,
		"debug", cfg.App.Debug,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database...")
	dbConn, err := connectDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection...")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.AutoMigrate {
		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		migStatus, err := migrator.Status(ctx)
		if err != nil {
			log.Warn("failed to get migration status", "error", err)
		} else {
			appliedCount := 0
			for _, m := range migStatus {
				if m.IsApplied {
					appliedCount++
				}
			}
			log.Info("migrations completed", "applied", appliedCount, "total", len(migStatus))
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing repositories...")
	studentRepo := postgres.NewStudentRepository(dbConn)
	paymentRepo := postgres.NewPaymentRepository(dbConn)
	notificationRepo := postgres.NewNotificationRepository(dbConn)
	userRepo := postgres.NewUserRepository(dbConn)

	var statusRepo status.Repository = postgres.NewStatusRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REDIS (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var (
		unreadInvalidator command.UnreadInvalidator
		fanoutInvalidator eventhandler.UnreadInvalidator
		unreadCounter     query.UnreadCounter
	)

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, caching disabled", "error", err)
		} else {
			defer redisCache.Close()

			if cfg.Features.IsEnabled(config.FeatureCacheStatuses, nil) {
				statusRepo = redis.NewCachedStatusRepository(statusRepo, redisCache, log)
			}

			if cfg.Features.IsEnabled(config.FeatureCacheUnreadCounts, nil) {
				unreadCache := redis.NewUnreadCountCache(notificationRepo, redisCache, log)
				unreadInvalidator = unreadCache
				fanoutInvalidator = unreadCache
				unreadCounter = unreadCache
			}

			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. SEEDING
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("seeding default statuses...")
	if err := statusRepo.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed statuses: %w", err)
	}

	createUserCmd := command.NewCreateUserHandler(userRepo, log)
	if err := bootstrapAdmin(ctx, cfg, userRepo, createUserCmd, log); err != nil {
		return fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 8. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBusConfig.Logger = log
	eventBusConfig.AsyncMode = cfg.EventBus.Async
	eventBusConfig.WorkerPoolSize = cfg.EventBus.WorkerCount
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 9. APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	createStudentCmd := command.NewCreateStudentHandler(studentRepo, statusRepo, eventBus, log)
	updateStudentCmd := command.NewUpdateStudentHandler(studentRepo, eventBus, log)
	deleteStudentCmd := command.NewDeleteStudentHandler(studentRepo, log)
	setStatusCmd := command.NewSetStudentStatusHandler(studentRepo, eventBus, log)
	setFinancialCmd := command.NewSetStudentFinancialHandler(studentRepo, log)
	recordPaymentCmd := command.NewRecordPaymentHandler(paymentRepo, studentRepo, eventBus, log)
	confirmPaymentCmd := command.NewConfirmPaymentHandler(paymentRepo, studentRepo, eventBus, log)
	markReadCmd := command.NewMarkNotificationReadHandler(notificationRepo, unreadInvalidator, log)

	getStudentQuery := query.NewGetStudentHandler(studentRepo)
	listStudentsQuery := query.NewListStudentsHandler(studentRepo)
	historyQuery := query.NewStudentHistoryHandler(studentRepo, statusRepo)
	balanceQuery := query.NewComputeBalanceHandler(studentRepo, paymentRepo)
	listPaymentsQuery := query.NewListPaymentsHandler(paymentRepo)
	listStatusesQuery := query.NewListStatusesHandler(statusRepo)
	notificationsQuery := query.NewListNotificationsHandler(notificationRepo, unreadCounter)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. EVENT HANDLERS (notification fan-out)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("registering event handlers...")

	notifier := eventhandler.NewNotifier(userRepo, notificationRepo, fanoutInvalidator, log)

	if cfg.Features.IsEnabled(config.FeatureNotifyStatusChange, nil) ||
		cfg.Features.IsEnabled(config.FeatureNotifyNewStudent, nil) {
		studentChangedHandler := eventhandler.NewOnStudentChangedHandler(notifier, statusRepo, log)
		if err := studentChangedHandler.Register(eventBus); err != nil {
			return fmt.Errorf("failed to register student event handler: %w", err)
		}
	} else {
		log.Warn("student change notifications disabled by feature flag")
	}

	if cfg.Features.PaymentNotificationsEnabled(nil) {
		paymentRecordedHandler := eventhandler.NewOnPaymentRecordedHandler(notifier, userRepo, log)
		if err := paymentRecordedHandler.Register(eventBus); err != nil {
			return fmt.Errorf("failed to register payment recorded handler: %w", err)
		}

		paymentConfirmedHandler := eventhandler.NewOnPaymentConfirmedHandler(notifier, log)
		if err := paymentConfirmedHandler.Register(eventBus); err != nil {
			return fmt.Errorf("failed to register payment confirmed handler: %w", err)
		}
	} else {
		log.Warn("payment notifications disabled by feature flag")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.MaxHeaderBytes = cfg.HTTP.MaxHeaderBytes
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins

	httpDeps := httpserver.Dependencies{
		CreateStudent:        createStudentCmd,
		UpdateStudent:        updateStudentCmd,
		DeleteStudent:        deleteStudentCmd,
		SetStudentStatus:     setStatusCmd,
		SetStudentFinancial:  setFinancialCmd,
		RecordPayment:        recordPaymentCmd,
		ConfirmPayment:       confirmPaymentCmd,
		MarkNotificationRead: markReadCmd,
		CreateUser:           createUserCmd,
		GetStudent:           getStudentQuery,
		ListStudents:         listStudentsQuery,
		StudentHistory:       historyQuery,
		ComputeBalance:       balanceQuery,
		ListPayments:         listPaymentsQuery,
		ListStatuses:         listStatusesQuery,
		ListNotifications:    notificationsQuery,
		HealthChecker:        dbConn,
		Logger:               log,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 12. START
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)

	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 13. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("AfcaLink back office is running", "http_address", httpServer.Address())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	case <-ctx.Done():
		log.Info("context cancelled")
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	log.Info("stopping HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		return err
	}

	// Event bus and database close through defers.
	log.Info("shutdown completed successfully")

	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger configures structured logging per the observability config.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Observability.LogLevel),
	}

	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "text" || cfg.IsDevelopment() {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// connectDatabase opens the PostgreSQL pool from either DATABASE_URL or
// the default local configuration.
func connectDatabase(ctx context.Context, cfg *config.Config) (*postgres.Connection, error) {
	if cfg.Database.URL != "" {
		return postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	}

	pgCfg := postgres.DefaultConfig()
	pgCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	pgCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	pgCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime
	return postgres.NewConnection(ctx, pgCfg)
}

// bootstrapAdmin creates the first admin account when the user table is
// empty. Skipped when no bootstrap credentials are configured.
func bootstrapAdmin(
	ctx context.Context,
	cfg *config.Config,
	userRepo user.Repository,
	createUser *command.CreateUserHandler,
	log *slog.Logger,
) error {
	if cfg.Bootstrap.AdminEmail == "" || cfg.Bootstrap.AdminPassword == "" {
		return nil
	}

	count, err := userRepo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	result, err := createUser.Handle(ctx, command.CreateUserCommand{
		FullName: cfg.Bootstrap.AdminName,
		Email:    cfg.Bootstrap.AdminEmail,
		Password: cfg.Bootstrap.AdminPassword,
		Role:     user.RoleAdmin,
	})
	if err != nil {
		return err
	}

	log.Info("bootstrap admin account created",
		"user_id", result.User.ID,
		"email", result.User.Email,
	)
	return nil
}
