package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-content-forge/internal/models"
	appErrors "github.com/noah-isme/edu-content-forge/pkg/errors"
)

const progressCachePrefix = "job-progress:"

type jobProgressStore interface {
	GetByID(ctx context.Context, id string) (*models.GenerationJob, error)
	UpdateProgress(ctx context.Context, id string, progress models.JobProgress) error
}

type jobProductLister interface {
	ListByJob(ctx context.Context, jobID string) ([]models.Product, error)
}

// ProgressService derives job counters and status from the job's products. It is the only
// writer of job status.
type ProgressService struct {
	jobs     jobProgressStore
	products jobProductLister
	cache    *CacheService
	metrics  *MetricsService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewProgressService constructs the aggregator. cache and metrics may be nil.
func NewProgressService(jobs jobProgressStore, products jobProductLister, cache *CacheService, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{
		jobs:     jobs,
		products: products,
		cache:    cache,
		metrics:  metrics,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// ProgressCacheKey is the Redis key of a job's progress snapshot.
func ProgressCacheKey(jobID string) string {
	return progressCachePrefix + jobID
}

// TallyProgress counts succeeded (GENERATED, REVIEWED, PUBLISHED) and FAILED products and
// derives the job status.
func TallyProgress(products []models.Product) models.JobProgress {
	progress := models.JobProgress{Total: len(products)}
	for _, p := range products {
		switch {
		case p.Status.Succeeded():
			progress.Completed++
		case p.Status == models.ProductStatusFailed:
			progress.Failed++
		}
	}
	progress.Status = models.DeriveJobStatus(progress.Total, progress.Completed, progress.Failed)
	return progress
}

// Recompute rereads every product of the job and overwrites the job's counters and status.
func (s *ProgressService) Recompute(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "generation job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load generation job")
	}

	products, err := s.products.ListByJob(ctx, jobID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list job products")
	}

	progress := TallyProgress(products)
	if err := s.jobs.UpdateProgress(ctx, jobID, progress); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update job progress")
	}

	if job.Status != progress.Status {
		s.logger.Sugar().Infow("job status changed", "job_id", jobID, "from", job.Status, "to", progress.Status)
	}
	s.logger.Sugar().Debugw("job progress recomputed", "job_id", jobID,
		"total", progress.Total, "completed", progress.Completed, "failed", progress.Failed)

	job.TotalProducts = progress.Total
	job.CompletedProducts = progress.Completed
	job.FailedProducts = progress.Failed
	job.Status = progress.Status
	job.UpdatedAt = time.Now().UTC()

	s.cache.Set(ctx, ProgressCacheKey(jobID), job, s.cacheTTL)
	s.metrics.ObserveRecompute(progress.Status)
	return job, nil
}

// Get returns the job, preferring the cached progress snapshot.
func (s *ProgressService) Get(ctx context.Context, jobID string) (*models.GenerationJob, error) {
	var cached models.GenerationJob
	if s.cache.Get(ctx, ProgressCacheKey(jobID), &cached) {
		return &cached, nil
	}

	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "generation job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load generation job")
	}
	return job, nil
}
