package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"event-checkin/config"
	"event-checkin/internal/cache"
	"event-checkin/internal/clock"
	"event-checkin/internal/database"
	"event-checkin/internal/handler"
	"event-checkin/internal/repository"
	"event-checkin/internal/service"
	"event-checkin/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		logger.L.Error("server exited", zap.Error(err))
		_ = logger.L.Sync()
		os.Exit(1)
	}
}

func run() error {
	var envFile string
	var migrateOnly bool

	flagSet := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "path to a .env file loaded before reading the environment")
	flagSet.BoolVar(&migrateOnly, "migrate-only", false, "apply database migrations and exit")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.Server.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	if err := handler.ValidateAccessKeyHash(cfg.Access.VolunteerKeyHash); err != nil {
		return fmt.Errorf("VOLUNTEER_ACCESS_KEY_HASH: %w", err)
	}
	if err := handler.ValidateAccessKeyHash(cfg.Access.AdminKeyHash); err != nil {
		return fmt.Errorf("ADMIN_ACCESS_KEY_HASH: %w", err)
	}

	log := logger.WithComponent("server")
	ctx := context.Background()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if migrateOnly {
		log.Info("migrations applied", zap.String("driver", cfg.Storage.Driver))
		return nil
	}

	lock := cache.NewNoopRegistrationLock()
	if cfg.Registration.Lock {
		rdb, err := database.InitRedis(&cfg.Redis)
		if err != nil {
			return fmt.Errorf("initialize redis: %w", err)
		}
		defer rdb.Close()
		lock = cache.NewRedisRegistrationLock(rdb, cfg.Registration.LockTTL, cfg.Registration.LockWait)
		log.Info("registration lock enabled")
	}

	clk := clock.NewSystem()
	registrationService := service.NewRegistrationService(repo, lock, clk, service.RegistrationSettings{
		CodeAttempts: cfg.Registration.CodeAttempts,
	})
	checkInService := service.NewCheckInService(repo, clk)
	adminService := service.NewAdminService(repo, clk)

	gin.SetMode(cfg.Server.GinMode)
	router := handler.NewRouter(handler.RouterDeps{
		Registration:     registrationService,
		CheckIn:          checkInService,
		Admin:            adminService,
		Health:           repo,
		CORSOrigins:      cfg.Server.CORSOrigins,
		VolunteerKeyHash: cfg.Access.VolunteerKeyHash,
		AdminKeyHash:     cfg.Access.AdminKeyHash,
	})

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.Server.Addr), zap.String("storage", cfg.Storage.Driver))
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
	case <-stopCtx.Done():
		log.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

// openStore 依 STORAGE_DRIVER 建立票券儲存層並套用 migrations
func openStore(ctx context.Context, cfg *config.Config) (repository.TicketRepository, func(), error) {
	switch cfg.Storage.Driver {
	case "postgres":
		pool, err := database.InitDatabase(&cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize database: %w", err)
		}
		if err := database.ApplyPostgresMigrations(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("apply migrations: %w", err)
		}
		return repository.NewTicketRepository(pool), pool.Close, nil
	case "sqlite":
		db, err := database.InitSQLite(ctx, &cfg.SQLite)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize sqlite: %w", err)
		}
		return repository.NewSQLiteTicketRepository(db), func() { _ = db.Close() }, nil
	default:
		logger.WithComponent("server").Warn("using in-memory storage, tickets are lost on restart")
		return repository.NewMemoryTicketRepository(), func() {}, nil
	}
}
