package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	gormlogger "gorm.io/gorm/logger"

	"github.com/celestiaorg/verse/internal/app"
	"github.com/celestiaorg/verse/internal/config"
	"github.com/celestiaorg/verse/internal/db"
	"github.com/celestiaorg/verse/internal/db/repos"
	"github.com/celestiaorg/verse/internal/events"
	"github.com/celestiaorg/verse/internal/logger"
	"github.com/celestiaorg/verse/internal/services"
	"github.com/celestiaorg/verse/internal/storage"
	"github.com/celestiaorg/verse/pkg/api/v1/handlers"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional, the environment may already be populated
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warnf("failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load configuration: %v", err)
	}
	logger.InitializeAndConfigure(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sslEnabled := cfg.Database.SSLEnabled
	database, err := db.New(db.Options{
		Host:       cfg.Database.Host,
		User:       cfg.Database.User,
		Password:   cfg.Database.Password,
		DBName:     cfg.Database.Name,
		Port:       cfg.Database.Port,
		SSLEnabled: &sslEnabled,
		LogLevel:   gormlogger.Warn,
	})
	if err != nil {
		logger.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Errorf("failed to close database: %v", err)
		}
	}()

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		logger.Fatalf("failed to initialize storage: %v", err)
	}

	events.Subscribe(events.EventValidationRequested, events.LogHandler)
	events.Subscribe(events.EventProofAttached, events.LogHandler)
	events.Start(ctx)

	// Initialize repositories
	userRepo := repos.NewUserRepository(database)
	modelRepo := repos.NewModelRepository(database)
	requestRepo := repos.NewValidationRequestRepository(database)

	// Initialize services
	userService := services.NewUserService(userRepo)
	modelService := services.NewModelService(modelRepo, requestRepo)
	validationService := services.NewValidationService(requestRepo, modelRepo, store)

	opts := app.Options{
		BodyLimit:   cfg.BodyLimit(),
		CORSOrigins: cfg.CORSOrigins,
		JWTSecret:   []byte(cfg.JWTSecret),
		Users:       userService,
	}
	if local, ok := store.(*storage.Local); ok {
		opts.FilesDir = local.Root()
	}

	server := app.NewApp(handlers.NewAPIHandler(modelService, validationService), opts)

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.ShutdownWithContext(shutdownCtx); err != nil {
			logger.Errorf("failed to shut down server: %v", err)
		}
	}()

	logger.InfoWithFields("starting server", map[string]interface{}{
		"addr":    cfg.ListenAddr,
		"storage": cfg.Storage.Backend,
	})
	if err := server.Listen(cfg.ListenAddr); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}
