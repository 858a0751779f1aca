//	@title			Cloud Relay Uploader API
//	@version		1.0
//	@description	Issues short-lived presigned URLs so browsers can upload to and manage files in S3, MinIO or Google Cloud Storage directly.
//
//	@host		localhost:8080
//	@BasePath	/api/v1

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/cloudrelay/uploader/internal/config"
	"github.com/cloudrelay/uploader/internal/files"
	"github.com/cloudrelay/uploader/internal/logging"
	"github.com/cloudrelay/uploader/internal/presign"
	"github.com/cloudrelay/uploader/internal/server"
	"github.com/cloudrelay/uploader/internal/storage"
	"github.com/cloudrelay/uploader/internal/validator"

	_ "github.com/cloudrelay/uploader/docs/swagger"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Resolve every provider once; unusable ones answer 503 until restart.
	// The GCS client keeps this context for token refreshes, so it must
	// outlive startup.
	registry := storage.Open(context.Background(), config.Lookup, storage.DefaultFactories, logger)

	policy := validator.DefaultUploadPolicy()
	if cfg.MaxUploadBytes > 0 {
		policy.MaxFileSize = cfg.MaxUploadBytes
	}

	// Wire dependencies: registry → service → handler
	presignSvc := presign.NewService(registry, logger, presign.WithUploadPolicy(policy))
	presignHandler := presign.NewHandler(presignSvc)

	filesSvc := files.NewService(registry, policy, logger)
	filesHandler := files.NewHandler(filesSvc, policy.MaxFileSize, logger)

	router := server.NewRouter(server.Deps{
		Registry:       registry,
		Presign:        presignHandler,
		Files:          filesHandler,
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine; wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("env", cfg.AppEnv),
			zap.Strings("allowed_origins", cfg.AllowedOrigins))
		logger.Info("swagger UI available", zap.String("url", "http://localhost:"+cfg.Port+"/swagger/"))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", zap.Error(err))
		return
	}

	logger.Info("server stopped")
}
