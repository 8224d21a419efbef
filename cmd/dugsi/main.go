package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dugsihub/dugsi/internal/backup"
	"github.com/dugsihub/dugsi/internal/config"
	"github.com/dugsihub/dugsi/internal/database"
	"github.com/dugsihub/dugsi/internal/logging"
	"github.com/dugsihub/dugsi/internal/server"
	"github.com/dugsihub/dugsi/internal/stripe"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		logger.Error("open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	stripeCfg := stripe.Config{WebhookSecret: cfg.StripeWebhookSecret}
	if stripeCfg.WebhookSecret == "" {
		logger.Warn("STRIPE_WEBHOOK_SECRET not set, webhook ingestion disabled")
	}

	backupCfg := backup.Config{
		S3: backup.S3Config{
			Endpoint:  cfg.BackupEndpoint,
			Region:    cfg.BackupRegion,
			Bucket:    cfg.BackupBucket,
			AccessKey: cfg.BackupAccessKey,
			SecretKey: cfg.BackupSecretKey,
		},
		DBPath:        cfg.DBPath,
		Passphrase:    cfg.BackupPassphrase,
		ScheduleHour:  cfg.BackupScheduleHour,
		RetentionDays: cfg.BackupRetentionDays,
	}

	srv := server.New(db, stripeCfg, backupCfg, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if srv.BackupManager().Enabled() {
		srv.BackupManager().Start(ctx)
		logger.Info("nightly backups enabled", "hour_utc", cfg.BackupScheduleHour)
	}
	srv.RateLimiter().StartCleanup(ctx, 5*time.Minute)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	cancel()
	srv.BackupManager().Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
