package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-content-forge/internal/dto"
	"github.com/noah-isme/edu-content-forge/internal/models"
	appErrors "github.com/noah-isme/edu-content-forge/pkg/errors"
	"github.com/noah-isme/edu-content-forge/pkg/storage"
)

type jobLister interface {
	GetByID(ctx context.Context, id string) (*models.GenerationJob, error)
	List(ctx context.Context, filter models.GenerationJobFilter) ([]models.GenerationJob, int, error)
}

type productReader interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Product, error)
}

type artifactLoader interface {
	Load(ctx context.Context, productID string, kind models.ArtifactKind, dest interface{}) error
}

type jobProgressReader interface {
	Get(ctx context.Context, jobID string) (*models.GenerationJob, error)
}

// JobQueryService serves read-only views of jobs, products and stage artifacts.
type JobQueryService struct {
	jobs      jobLister
	products  productReader
	artifacts artifactLoader
	progress  jobProgressReader
	logger    *zap.Logger
}

// NewJobQueryService constructs the read side.
func NewJobQueryService(jobs jobLister, products productReader, artifacts artifactLoader, progress jobProgressReader, logger *zap.Logger) *JobQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JobQueryService{jobs: jobs, products: products, artifacts: artifacts, progress: progress, logger: logger}
}

// GetJob returns a job with its current progress counters.
func (s *JobQueryService) GetJob(ctx context.Context, id string) (*models.GenerationJob, error) {
	return s.progress.Get(ctx, id)
}

// ListJobs returns a page of jobs, newest first.
func (s *JobQueryService) ListJobs(ctx context.Context, query dto.GenerationJobQuery) ([]models.GenerationJob, *models.Pagination, error) {
	filter := models.GenerationJobFilter{
		Status:   models.JobStatus(strings.ToUpper(strings.TrimSpace(query.Status))),
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	switch filter.Status {
	case "", models.JobStatusPending, models.JobStatusRunning, models.JobStatusCompleted, models.JobStatusFailed:
	default:
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown job status filter")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	jobs, total, err := s.jobs.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list generation jobs")
	}
	if jobs == nil {
		jobs = []models.GenerationJob{}
	}
	return jobs, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// ListProducts returns the products of a job.
func (s *JobQueryService) ListProducts(ctx context.Context, jobID string) ([]models.Product, error) {
	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "generation job not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load generation job")
	}
	products, err := s.products.ListByJob(ctx, jobID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list job products")
	}
	return products, nil
}

// GetProduct returns a single product.
func (s *JobQueryService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "product not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
	}
	return product, nil
}

// GetArtifact returns the raw JSON document a stage wrote for the product.
func (s *JobQueryService) GetArtifact(ctx context.Context, productID string, kind models.ArtifactKind) (json.RawMessage, error) {
	if !kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "artifact kind must be one of raw, qc, metadata")
	}
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}

	var doc json.RawMessage
	if err := s.artifacts.Load(ctx, productID, kind, &doc); err != nil {
		if errors.Is(err, storage.ErrArtifactNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "artifact not written yet")
		}
		s.logger.Sugar().Warnw("failed to read artifact", "product_id", productID, "kind", kind, "error", err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read artifact")
	}
	return doc, nil
}
