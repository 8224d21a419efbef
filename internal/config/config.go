package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, read from the environment with an
// optional .env file for local development.
type Config struct {
	Port      string
	DBPath    string
	LogLevel  string
	LogFormat string

	StripeWebhookSecret string

	BackupEndpoint      string
	BackupRegion        string
	BackupBucket        string
	BackupAccessKey     string
	BackupSecretKey     string
	BackupPassphrase    string
	BackupScheduleHour  int
	BackupRetentionDays int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if present; real environment variables win.
func Load() (*Config, error) {
	// Ignore a missing .env; it only exists in development.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getenv("DUGSI_PORT", "8080"),
		DBPath:              getenv("DUGSI_DB_PATH", "dugsi.db"),
		LogLevel:            getenv("DUGSI_LOG_LEVEL", "info"),
		LogFormat:           getenv("DUGSI_LOG_FORMAT", "text"),
		StripeWebhookSecret: os.Getenv("STRIPE_WEBHOOK_SECRET"),
		BackupEndpoint:      os.Getenv("DUGSI_BACKUP_S3_ENDPOINT"),
		BackupRegion:        getenv("DUGSI_BACKUP_S3_REGION", "auto"),
		BackupBucket:        os.Getenv("DUGSI_BACKUP_S3_BUCKET"),
		BackupAccessKey:     os.Getenv("DUGSI_BACKUP_S3_ACCESS_KEY"),
		BackupSecretKey:     os.Getenv("DUGSI_BACKUP_S3_SECRET_KEY"),
		BackupPassphrase:    os.Getenv("DUGSI_BACKUP_PASSPHRASE"),
	}

	var err error
	if cfg.BackupScheduleHour, err = getenvInt("DUGSI_BACKUP_HOUR", 3); err != nil {
		return nil, err
	}
	if cfg.BackupScheduleHour < 0 || cfg.BackupScheduleHour > 23 {
		return nil, fmt.Errorf("DUGSI_BACKUP_HOUR must be 0-23, got %d", cfg.BackupScheduleHour)
	}
	if cfg.BackupRetentionDays, err = getenvInt("DUGSI_BACKUP_RETENTION_DAYS", 30); err != nil {
		return nil, err
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
