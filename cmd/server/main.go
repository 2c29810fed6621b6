package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/ofisi/requestflow/internal/application/dispatcher"
	"github.com/ofisi/requestflow/internal/application/lifecycle"
	"github.com/ofisi/requestflow/internal/application/port"
	"github.com/ofisi/requestflow/internal/application/service"
	"github.com/ofisi/requestflow/internal/config"
	"github.com/ofisi/requestflow/internal/infrastructure/identity"
	"github.com/ofisi/requestflow/internal/infrastructure/inventory"
	"github.com/ofisi/requestflow/internal/infrastructure/notify"
	"github.com/ofisi/requestflow/internal/infrastructure/persistence/repository"
	"github.com/ofisi/requestflow/internal/infrastructure/persistence/sqlite"
	"github.com/ofisi/requestflow/internal/infrastructure/worker"
	httpserver "github.com/ofisi/requestflow/internal/interfaces/http"
	"github.com/ofisi/requestflow/pkg/database"
	"github.com/ofisi/requestflow/pkg/utils"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting request lifecycle service",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	sqlDB, err := database.Open(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to open database", zap.Error(err))
	}
	defer sqlDB.Close()

	migrator := database.NewMigrator(sqlDB, logger)
	if err := migrator.Run(cfg.Database.MigrationsDir); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	db := sqlite.NewDB(sqlDB, logger)

	// Repositories
	requests := repository.NewRequestRepository(sqlDB, logger)
	approvals := repository.NewApprovalRepository(sqlDB, logger)
	corrections := repository.NewCorrectionRepository(sqlDB, logger)
	participants := repository.NewParticipantRepository(sqlDB, logger)
	items := repository.NewRequestItemRepository(sqlDB, logger)
	notifications := repository.NewNotificationRepository(sqlDB, logger)

	// External adapters
	identityProvider := identity.NewSQLiteProvider(sqlDB, logger)
	inventoryStore := inventory.NewSQLiteStore(sqlDB, logger)

	var notifier port.Notifier
	if cfg.Lark.Enabled() {
		notifier = notify.NewLarkNotifier(notify.LarkConfig{
			AppID:     cfg.Lark.AppID,
			AppSecret: cfg.Lark.AppSecret,
		}, logger)
		logger.Info("Lark notifier enabled")
	} else {
		notifier = notify.NewLogNotifier(logger)
		logger.Info("Lark credentials not set, logging notifications instead")
	}

	kvLogger := utils.NewKVLogger(logger)

	// Event dispatcher with the audit stream subscribed
	events := dispatcher.New(kvLogger)
	defer events.Close()
	dispatcher.NewAuditLogHandler(kvLogger).SubscribeAll(events)

	// Lifecycle engine shared across the three request domains
	engine := lifecycle.NewEngine(
		requests,
		approvals,
		corrections,
		participants,
		items,
		notifications,
		db,
		identityProvider,
		notifier,
		kvLogger,
		lifecycle.WithDispatcher(events),
		lifecycle.WithInventory(inventoryStore),
	)

	// Background workers
	workers := worker.NewManager(logger)
	workers.Register(worker.NewRetryWorker(worker.DefaultRetryWorkerConfig(), notifications, notifier, logger))

	vehicleService := service.NewVehicleService(engine)
	ictService := service.NewICTService(engine)
	storeService := service.NewStoreService(engine)
	adminService := service.NewAdminService(engine, notifications)

	server := httpserver.NewServer(
		httpserver.ServerConfig{
			Host:         cfg.Server.Host,
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
		vehicleService,
		ictService,
		storeService,
		adminService,
		kvLogger,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := workers.StartAll(ctx); err != nil {
		logger.Fatal("Failed to start workers", zap.Error(err))
	}
	defer workers.StopAll()

	if err := server.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}
