package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/carsonSgit/cusec-photobooth/internal/camera"
	"github.com/carsonSgit/cusec-photobooth/internal/config"
	"github.com/carsonSgit/cusec-photobooth/internal/database"
	"github.com/carsonSgit/cusec-photobooth/internal/download"
	"github.com/carsonSgit/cusec-photobooth/internal/email"
	"github.com/carsonSgit/cusec-photobooth/internal/httpserver"
	"github.com/carsonSgit/cusec-photobooth/internal/retry"
	"github.com/carsonSgit/cusec-photobooth/internal/session"
	"github.com/carsonSgit/cusec-photobooth/internal/storage"
	"github.com/carsonSgit/cusec-photobooth/internal/upload"
	"github.com/carsonSgit/cusec-photobooth/shared/logger"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the booth service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	cfg := config.Load()
	logger.Init("photobooth", cfg.LogLevel)
	ctx := context.Background()

	logger.Info(ctx, "starting photobooth service", logger.Fields{
		"port":          cfg.Port,
		"camera_device": cfg.CameraDevice,
		"object_store":  cfg.HasObjectStore(),
		"database":      cfg.HasDatabase(),
		"log_level":     cfg.LogLevel,
	})

	uploadOpts := upload.Options{
		Policy: retry.Policy{Attempts: cfg.UploadAttempts, BaseDelay: cfg.UploadBaseDelay},
	}

	// Remote integrations are optional; the booth keeps serving the
	// local download path when they are absent.
	if cfg.HasObjectStore() {
		objects, err := storage.NewGCSStore(ctx, cfg.GCSBucket)
		if err != nil {
			logger.Error(ctx, "failed to initialize object store", err)
			return err
		}
		defer objects.Close()
		uploadOpts.Objects = objects
	} else {
		logger.Warn(ctx, "GCS_BUCKET not set, remote uploads disabled")
	}

	if cfg.HasDatabase() {
		db, err := database.NewClient(cfg.DatabaseURL)
		if err != nil {
			logger.Error(ctx, "failed to initialize database client", err)
			return err
		}
		defer db.Close()
		uploadOpts.Records = db
	} else {
		logger.Warn(ctx, "DATABASE_URL not set, session records disabled")
	}

	facing := camera.FacingUser
	if !cfg.DefaultFacingFront {
		facing = camera.FacingEnvironment
	}
	cam := camera.NewSession(camera.Options{
		Factory:     camera.OpenV4L2,
		Device:      cfg.CameraDevice,
		ReadTimeout: cfg.CameraReadTimeout,
		Facing:      facing,
	})
	defer cam.Stop()

	store := session.NewStore()
	uploader := upload.NewCoordinator(uploadOpts)
	mailer := email.NewService(cfg.ResendAPIKey, cfg.FromEmail)
	spool := download.NewSpool(cfg.SpoolDir)

	// Nightly retention sweep of locally saved strips.
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("0 3 * * *", func() {
		spool.Sweep(ctx, cfg.SpoolRetention)
	}); err != nil {
		return err
	}
	scheduler.Start()
	defer scheduler.Stop()

	server := httpserver.NewServer(cfg, store, cam, uploader, mailer, spool)
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "photobooth listening", logger.Fields{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info(ctx, "received shutdown signal", logger.Fields{"signal": sig.String()})
	case err := <-serverErr:
		logger.Error(ctx, "server error", err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "shutdown error", err)
		return err
	}

	logger.Info(ctx, "photobooth shutdown complete")
	return nil
}
