// Package main implements the entry point for the filedepot API server,
// a personal file-storage service where uploads, account creation, and
// thumbnail derivation run on an asynchronous task pipeline instead of
// the request path.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/filedepot/filedepot-api/internal/api"
	"github.com/filedepot/filedepot-api/internal/api/middleware"
	"github.com/filedepot/filedepot-api/internal/config"
	"github.com/filedepot/filedepot-api/internal/platform/logger"
	"github.com/filedepot/filedepot-api/internal/platform/mongodb"
	"github.com/filedepot/filedepot-api/internal/platform/ready"
	"github.com/filedepot/filedepot-api/internal/platform/rediscache"
	"github.com/filedepot/filedepot-api/internal/service/auth"
	"github.com/filedepot/filedepot-api/internal/service/files"
	"github.com/filedepot/filedepot-api/internal/service/session"
	"github.com/filedepot/filedepot-api/internal/storage"
	"github.com/filedepot/filedepot-api/internal/task"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"storage_root", cfg.Storage.Root)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Backing services. Both are constructed lazily, so reachability is
	// verified with a bounded readiness wait before serving traffic.
	cache := rediscache.New(cfg.Cache)
	defer func() {
		_ = cache.Close()
	}()

	mongoClient, db, err := mongodb.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()

	dbPinger := mongodb.Pinger{Client: mongoClient}
	if err := ready.Wait(ctx, "cache", cache,
		cfg.Readiness.Attempts, cfg.Readiness.Interval, appLogger); err != nil {
		return err
	}
	if err := ready.Wait(ctx, "db", dbPinger,
		cfg.Readiness.Attempts, cfg.Readiness.Interval, appLogger); err != nil {
		return err
	}

	// Stores and services.
	userStore := mongodb.NewUserStore(db)
	fileStore := mongodb.NewFileStore(db)
	blobs := storage.NewLocal(cfg.Storage.Root)
	sessions := session.New(cache, appLogger)
	hasher := auth.NewSHA1Hasher()
	fileService := files.New(fileStore, blobs, appLogger)

	// Task lanes. Processors are registered before the workers start.
	userLane := task.NewQueue(task.LaneUser, task.QueueConfig{
		WorkerCount: cfg.Queue.UserWorkers,
		BufferSize:  cfg.Queue.BufferSize,
	}, appLogger)
	userLane.Register(task.KindCreateUser, task.NewCreateUserProcessor(userStore, hasher, appLogger))
	userLane.Register(task.KindSignIn, task.NewSignInProcessor(userStore, hasher, appLogger))
	userLane.Register(task.KindSignOut, task.NewSignOutProcessor(sessions, appLogger))

	fileLane := task.NewQueue(task.LaneFile, task.QueueConfig{
		WorkerCount: cfg.Queue.FileWorkers,
		BufferSize:  cfg.Queue.BufferSize,
	}, appLogger)
	fileLane.Register(task.KindUploadFile, task.NewUploadFileProcessor(fileStore, blobs, appLogger))
	fileLane.Register(task.KindGenerateThumbnails, task.NewGenerateThumbnailsProcessor(fileStore, blobs, appLogger))

	userLane.Start()
	fileLane.Start()
	defer userLane.Stop()
	defer fileLane.Stop()

	// HTTP surface.
	handlers := api.Handlers{
		App:   api.NewAppHandler(cache, dbPinger, userStore, fileStore, cfg.Readiness, appLogger),
		Users: api.NewUsersHandler(userLane, userStore),
		Auth:  api.NewAuthHandler(userLane, sessions),
		Files: api.NewFilesHandler(fileLane, fileService, blobs),
	}
	authMw := middleware.NewAuthMiddleware(sessions)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           api.NewRouter(handlers, authMw),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	appLogger.Info("shutdown complete")
	return nil
}
