package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/socialite-app/backend/internal/router"
	"github.com/socialite-app/backend/internal/workers"
	"github.com/socialite-app/backend/pkg/config"
	"github.com/socialite-app/backend/pkg/filestore"
	"github.com/socialite-app/backend/pkg/logging"
	"github.com/socialite-app/backend/pkg/mailer"
	"github.com/socialite-app/backend/pkg/pubsub"
	"github.com/socialite-app/backend/pkg/queue"
	"github.com/socialite-app/backend/validators"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := config.InitDB(cfg.PostgresURL)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer config.CloseDB(db)

	rdb, err := config.InitRedis(cfg)
	if err != nil {
		logger.Fatal("failed to initialize redis", zap.Error(err))
	}
	defer rdb.Close()

	queueClient, err := queue.NewClient(queue.Config{
		URL:           cfg.NatsURL,
		ClientID:      "socialite-api",
		MaxReconnects: 10,
		ReconnectWait: 2 * time.Second,
	})
	if err != nil {
		logger.Fatal("failed to connect to NATS", zap.Error(err))
	}
	defer queueClient.Close()

	if err := queueClient.EnsureStream([]string{queue.SubjectNotifyDeliver, queue.SubjectEmailSend}); err != nil {
		logger.Fatal("failed to ensure job stream", zap.Error(err))
	}

	var files filestore.FileStore
	if cfg.S3Bucket != "" {
		files, err = filestore.NewS3FileStore(cfg.S3Bucket, cfg.S3Region, "media")
		if err != nil {
			logger.Fatal("failed to initialize S3 file store", zap.Error(err))
		}
	} else {
		files = filestore.NewLocalFileStore(cfg.MediaDir, cfg.MediaBaseURL, "media")
	}

	bus := pubsub.NewRedisBus(rdb)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	router.SetupMiddleware(e, logger)

	svcs, err := router.SetupRoutes(e, router.Dependencies{
		DB:       db,
		Redis:    rdb,
		Enqueuer: queueClient,
		Bus:      bus,
		Files:    files,
		Config:   cfg,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("failed to set up routes", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	notifyWorker := workers.NewNotificationWorker(queueClient, svcs.Notifications, logger)
	if err := notifyWorker.Start(); err != nil {
		logger.Fatal("failed to start notification worker", zap.Error(err))
	}
	defer notifyWorker.Stop()

	smtp := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.EmailFrom)
	emailWorker := workers.NewEmailWorker(queueClient, smtp, logger)
	if err := emailWorker.Start(); err != nil {
		logger.Fatal("failed to start email worker", zap.Error(err))
	}
	defer emailWorker.Stop()

	sweeper := workers.NewStorySweeper(svcs.Stories, cfg.SweepInterval, logger)
	go sweeper.Run(ctx)

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil {
			logger.Info("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
