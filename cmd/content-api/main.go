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

	_ "github.com/noah-isme/edu-content-forge/api/swagger"
	"github.com/noah-isme/edu-content-forge/internal/app"
	"github.com/noah-isme/edu-content-forge/internal/handler"
	"github.com/noah-isme/edu-content-forge/internal/router"
	"github.com/noah-isme/edu-content-forge/pkg/config"
	"github.com/noah-isme/edu-content-forge/pkg/logger"
)

// @title Edu Content Forge API
// @version 1.0.0
// @description Generates worksheets, passages, quizzes and assessments against curriculum standards.
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Sugar().Fatalw("failed to build application", "error", err)
	}

	// The queue is stopped by Close once the HTTP server has drained.
	a.Queue.Start(context.Background())
	if cfg.Generation.RecoverOnStart {
		a.Generation.RecoverPendingJobs(ctx)
	}
	a.Generation.StartRecoverySweep(ctx, cfg.Generation.RecoverInterval)

	engine := router.New(cfg, logr, a.Metrics, router.Handlers{
		Generation: handler.NewGenerationHandler(a.Generation),
		Jobs:       handler.NewJobHandler(a.Query),
		Standards:  handler.NewStandardHandler(a.StandardSvc),
		Products:   handler.NewProductHandler(a.ProductSvc),
		Metrics:    handler.NewMetricsHandler(a.Metrics, a.DB, a.Queue),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("http shutdown incomplete", "error", err)
	}
	a.Close()
}
