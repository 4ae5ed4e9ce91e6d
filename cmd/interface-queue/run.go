package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/interface-queue/api/v1"
	"github.com/kubev2v/interface-queue/internal/config"
	"github.com/kubev2v/interface-queue/internal/handlers"
	"github.com/kubev2v/interface-queue/internal/invoker"
	"github.com/kubev2v/interface-queue/internal/logger"
	"github.com/kubev2v/interface-queue/internal/server"
	"github.com/kubev2v/interface-queue/internal/services"
	"github.com/kubev2v/interface-queue/internal/store"
	"github.com/kubev2v/interface-queue/internal/store/migrations"
	"github.com/kubev2v/interface-queue/pkg/executor"
	"github.com/kubev2v/interface-queue/pkg/scheduler"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the interface queue service",
		RunE:  run,
	}
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func run(cmd *cobra.Command, _ []string) error {
	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}

	l, level, err := logger.New(cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()
	undo := zap.ReplaceGlobals(l)
	defer undo()

	log := zap.S().Named("main")
	log.Infow("configuration loaded", "config", cfg.DebugMap())

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.Database.Path, cfg.Database.OpenTimeout)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Errorw("failed to close database", "error", err)
		}
	}()
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	if err := migrations.Run(ctx, db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	pool := executor.NewPool(cfg.Queue.Workers())
	defer pool.Close()

	recorder := services.NewFailureRecorder()
	queue := scheduler.New(cfg.Queue.MaxActiveTasks,
		scheduler.WithDispatcher(pool),
		scheduler.WithWaitTimeout(cfg.Queue.WaitTimeout),
		scheduler.WithLimitWarnInterval(cfg.Queue.LimitWarnInterval),
		scheduler.WithErrorHandler(recorder.Record),
	)
	defer queue.Close()

	inv := invoker.New(queue, db)
	recorder.Start(inv)
	defer recorder.Stop()

	queueSrv := services.NewQueueService(inv, pool, cfg.Queue.HistorySize)
	if _, err := queueSrv.RestoreMaxActiveTasks(ctx); err != nil {
		return fmt.Errorf("failed to restore max active tasks: %w", err)
	}

	if v.ConfigFileUsed() != "" {
		config.Watch(v, func(c *config.Configuration) {
			if err := queueSrv.ApplyMaxActiveTasks(c.Queue.MaxActiveTasks); err != nil {
				log.Errorw("failed to apply max active tasks", "error", err)
			}
			if err := logger.SetLevel(level, c.LogLevel); err != nil {
				log.Errorw("failed to apply log level", "error", err)
			}
		})
	}

	if cfg.Queue.ReportSchedule != "" {
		reporter, err := services.NewReporter(queueSrv.Status, cfg.Queue.ReportSchedule)
		if err != nil {
			return err
		}
		reporter.Start()
		defer reporter.Stop()
	}

	h := handlers.New(queueSrv, services.NewMetadataService(inv), services.NewStatementService(inv))
	srv, err := server.NewServer(cfg, func(router *gin.RouterGroup) {
		router.Use(handlers.RequestID)
		v1.RegisterHandlersWithOptions(router, h, v1.GinServerOptions{ErrorHandler: handlers.ErrorHandler})
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start(ctx) }()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		log.Errorw("failed to stop http server", "error", err)
	}
	// let queued work finish, then whatever is left is cancelled by Close
	if err := queue.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Errorw("queue shutdown failed", "error", err)
	}

	log.Infow("interface queue stopped", "finished", queue.Counters().Finished().Get())
	return nil
}
