package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ricirt/taskboard/internal/api"
	"github.com/ricirt/taskboard/internal/config"
	"github.com/ricirt/taskboard/internal/db"
	"github.com/ricirt/taskboard/internal/metrics"
	"github.com/ricirt/taskboard/internal/queue"
	"github.com/ricirt/taskboard/internal/ratelimiter"
	"github.com/ricirt/taskboard/internal/repository"
	"github.com/ricirt/taskboard/internal/service"
	"github.com/ricirt/taskboard/internal/tasks"
	"github.com/ricirt/taskboard/internal/worker"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync() //nolint:errcheck

	// ---- configuration ----
	cfg, err := config.LoadServer()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	// ---- database ----
	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(cfg.MigrationsURL, cfg.DatabaseURL); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}
	logger.Info("database migrations applied")

	// ---- core dependencies ----
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	q := queue.New(cfg.QueueSize)
	registry := tasks.Default()
	repo := repository.NewPgTaskRepository(pool)
	limiter := ratelimiter.New(cfg.TaskRateLimit)
	svc := service.NewTaskService(registry, repo, q, logger, func(task string) {
		m.OnEnqueued(task)
		m.ObserveQueueDepth(q.Depth())
	})

	// ---- workers ----
	// Context for all background goroutines; cancelled on shutdown signal.
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	onSuccess, onFailure := m.WorkerHooks()
	workers := worker.NewPool(cfg, q, repo, registry, limiter, logger, worker.MetricHooks{
		OnSuccess: onSuccess,
		OnFailure: onFailure,
		OnDepth:   m.ObserveQueueDepth,
	})
	workers.Start(workerCtx)
	logger.Info("worker pool started",
		zap.Int("concurrency", workers.Size()),
		zap.Strings("tasks", registry.Names()),
	)

	requeueW := worker.NewRequeueWorker(repo, svc, cfg.RequeueInterval, logger)
	if err := requeueW.Recover(ctx); err != nil {
		logger.Fatal("failed to recover in-flight tasks", zap.Error(err))
	}
	go requeueW.Run(workerCtx)

	// ---- HTTP server ----
	router := api.NewRouter(svc, reg, logger)
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	// Start server in a goroutine so it does not block the shutdown listener.
	go func() {
		logger.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// ---- graceful shutdown ----
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown signal received")

	// 1. Stop accepting new HTTP requests.
	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// 2. Signal all workers to stop taking tasks off the queue.
	cancelWorkers()

	// 3. Wait for workers to return. Interrupted tasks stay started and are
	//    recovered on the next boot.
	workers.Wait()

	logger.Info("server stopped cleanly")
}
