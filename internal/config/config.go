package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP
	Port string

	// Camera
	CameraDevice       string
	CameraReadTimeout  time.Duration
	DefaultFacingFront bool

	// Object storage
	GCSBucket string

	// Database
	DatabaseURL string

	// Email delivery
	ResendAPIKey string
	FromEmail    string

	// Upload behavior
	UploadAttempts  int
	UploadBaseDelay time.Duration

	// Local download spool
	SpoolDir       string
	SpoolRetention time.Duration

	// Logging
	LogLevel string
}

func Load() Config {
	cfg := Config{
		Port:         getEnv("PORT", "8080"),
		CameraDevice: getEnv("CAMERA_DEVICE", "/dev/video0"),
		GCSBucket:    getEnv("GCS_BUCKET", ""),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		ResendAPIKey: getEnv("RESEND_API_KEY", ""),
		FromEmail:    getEnv("FROM_EMAIL", "photobooth@cusec.net"),
		SpoolDir:     getEnv("SPOOL_DIR", "spool"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	cfg.DefaultFacingFront = getEnv("CAMERA_FACING", "user") != "environment"

	readTimeoutSeconds, err := strconv.Atoi(getEnv("CAMERA_READ_TIMEOUT_SECONDS", "5"))
	if err != nil {
		panic(fmt.Sprintf("invalid CAMERA_READ_TIMEOUT_SECONDS: %v", err))
	}
	cfg.CameraReadTimeout = time.Duration(readTimeoutSeconds) * time.Second

	attempts, err := strconv.Atoi(getEnv("UPLOAD_ATTEMPTS", "3"))
	if err != nil || attempts < 1 {
		panic(fmt.Sprintf("invalid UPLOAD_ATTEMPTS: %v", err))
	}
	cfg.UploadAttempts = attempts

	baseDelayMS, err := strconv.Atoi(getEnv("UPLOAD_BASE_DELAY_MS", "1000"))
	if err != nil {
		panic(fmt.Sprintf("invalid UPLOAD_BASE_DELAY_MS: %v", err))
	}
	cfg.UploadBaseDelay = time.Duration(baseDelayMS) * time.Millisecond

	retentionHours, err := strconv.Atoi(getEnv("SPOOL_RETENTION_HOURS", "72"))
	if err != nil {
		panic(fmt.Sprintf("invalid SPOOL_RETENTION_HOURS: %v", err))
	}
	cfg.SpoolRetention = time.Duration(retentionHours) * time.Hour

	// GCS_BUCKET, DATABASE_URL and RESEND_API_KEY are optional: the booth
	// keeps working without them and the affected adapters report a
	// distinct not-configured outcome instead.
	return cfg
}

// HasObjectStore reports whether remote uploads are configured.
func (c Config) HasObjectStore() bool {
	return c.GCSBucket != ""
}

// HasDatabase reports whether the session record table is configured.
func (c Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}
