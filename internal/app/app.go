// Package app wires configuration into the pipeline components shared by the API server
// and the admin CLI.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-content-forge/internal/agent"
	"github.com/noah-isme/edu-content-forge/internal/llm"
	"github.com/noah-isme/edu-content-forge/internal/repository"
	"github.com/noah-isme/edu-content-forge/internal/service"
	"github.com/noah-isme/edu-content-forge/pkg/cache"
	"github.com/noah-isme/edu-content-forge/pkg/config"
	"github.com/noah-isme/edu-content-forge/pkg/database"
	"github.com/noah-isme/edu-content-forge/pkg/jobs"
	"github.com/noah-isme/edu-content-forge/pkg/storage"
)

// App holds the constructed components. Close releases the connections it opened.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	DB      *sqlx.DB
	Redis   *redis.Client
	Metrics *service.MetricsService

	Jobs      *repository.GenerationJobRepository
	Products  *repository.ProductRepository
	Standards *repository.StandardRepository
	Artifacts *storage.ArtifactStore

	Progress    *service.ProgressService
	Pipeline    *service.PipelineService
	Generation  *service.GenerationService
	Query       *service.JobQueryService
	StandardSvc *service.StandardService
	ProductSvc  *service.ProductService
	Worker      *service.GenerationWorker
	Queue       *jobs.Queue
}

// New connects to Postgres (and Redis when enabled) and builds every component.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logger.Sugar().Warnw("redis unavailable, progress cache disabled", "error", err)
		redisClient = nil
	}

	artifacts, err := storage.NewArtifactStore(cfg.Storage.Dir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	metrics := service.NewMetricsService()
	if err := metrics.RegisterDBStats(db.DB, cfg.Database.Name); err != nil {
		logger.Sugar().Warnw("failed to register db stats collector", "error", err)
	}

	a := &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Redis:     redisClient,
		Metrics:   metrics,
		Jobs:      repository.NewGenerationJobRepository(db),
		Products:  repository.NewProductRepository(db),
		Standards: repository.NewStandardRepository(db),
		Artifacts: artifacts,
	}

	cacheEnabled := cfg.Progress.CacheEnabled && redisClient != nil
	cacheSvc := service.NewCacheService(repository.NewCacheRepository(redisClient), metrics, cfg.Progress.CacheTTL, logger, cacheEnabled)
	a.Progress = service.NewProgressService(a.Jobs, a.Products, cacheSvc, metrics, cfg.Progress.CacheTTL, logger)

	gateway := llm.NewGateway(cfg.Model, logger, metrics)
	validate := agent.NewValidator()
	a.Pipeline = service.NewPipelineService(
		a.Products,
		a.Standards,
		agent.NewGenerator(gateway, artifacts, logger),
		agent.NewQCEvaluator(gateway, artifacts, validate, logger),
		agent.NewMetadataSynthesizer(gateway, artifacts, validate, logger),
		a.Progress,
		metrics,
		cfg.Generation.ClaimTTL,
		logger,
	)

	a.Worker = service.NewGenerationWorker(a.Products, a.Pipeline, a.Progress, cfg.Generation.ProductConcurrency, logger)
	a.Queue = jobs.NewQueue(service.JobTypeGeneration, a.Worker.Handle, jobs.QueueConfig{
		Workers:    cfg.Generation.Workers,
		BufferSize: cfg.Generation.QueueBuffer,
		MaxRetries: 1,
		Logger:     logger,
	})
	a.Generation = service.NewGenerationService(a.Jobs, a.Products, a.Standards, a.Progress, a.Queue, nil, logger)
	a.Query = service.NewJobQueryService(a.Jobs, a.Products, artifacts, a.Progress, logger)
	a.StandardSvc = service.NewStandardService(a.Standards, nil, logger)
	a.ProductSvc = service.NewProductService(a.Products, a.Progress, nil, logger)

	if cfg.Model.APIKey == "" {
		logger.Sugar().Warnw("CLAUDE_API_KEY not set, every generation will fail")
	}
	return a, nil
}

// Close stops the queue and closes connections.
func (a *App) Close() {
	if a == nil {
		return
	}
	a.Queue.Stop()
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
