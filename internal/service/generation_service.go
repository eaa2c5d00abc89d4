package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/edu-content-forge/internal/dto"
	"github.com/noah-isme/edu-content-forge/internal/models"
	appErrors "github.com/noah-isme/edu-content-forge/pkg/errors"
	"github.com/noah-isme/edu-content-forge/pkg/jobs"
	"github.com/noah-isme/edu-content-forge/pkg/middleware/requestid"
)

// Queue message types. A generation message carries a job id and runs the job's DRAFT
// products; a product message carries one product id and runs only that product.
const (
	JobTypeGeneration = "generation"
	JobTypeProduct    = "generation.product"
)

const recoveryPageSize = 100

type generationJobStore interface {
	CreateWithProducts(ctx context.Context, job *models.GenerationJob, products []*models.Product) error
	ListUnfinished(ctx context.Context, after models.JobCursor, limit int) ([]models.GenerationJob, error)
}

type retryProductStore interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	TransitionStatus(ctx context.Context, id string, from, to models.ProductStatus) (bool, error)
}

type jobDispatcher interface {
	Enqueue(ctx context.Context, job jobs.Job) error
}

// GenerationService accepts generation requests and hands them to the background queue.
type GenerationService struct {
	jobs      generationJobStore
	products  retryProductStore
	standards standardReader
	progress  progressRecomputer
	queue     jobDispatcher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGenerationService constructs the service.
func NewGenerationService(jobsStore generationJobStore, products retryProductStore, standards standardReader, progress progressRecomputer, queue jobDispatcher, validate *validator.Validate, logger *zap.Logger) *GenerationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationService{
		jobs:      jobsStore,
		products:  products,
		standards: standards,
		progress:  progress,
		queue:     queue,
		validator: validate,
		logger:    logger,
	}
}

// GenerateProduct creates a single-product job and queues it.
func (s *GenerationService) GenerateProduct(ctx context.Context, req dto.GenerateProductRequest) (*dto.GenerationAcceptedResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	job := &models.GenerationJob{
		StandardID:      req.StandardID,
		Locale:          req.Locale,
		CurriculumBoard: req.CurriculumBoard,
		GradeLevel:      req.GradeLevel,
		JobType:         models.JobTypeSingleProduct,
	}
	return s.submit(ctx, job, []models.ProductType{req.ProductType})
}

// GenerateBundle creates a job with one product of every type and queues it.
func (s *GenerationService) GenerateBundle(ctx context.Context, req dto.GenerateBundleRequest) (*dto.GenerationAcceptedResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	job := &models.GenerationJob{
		StandardID:      req.StandardID,
		Locale:          req.Locale,
		CurriculumBoard: req.CurriculumBoard,
		GradeLevel:      req.GradeLevel,
		JobType:         models.JobTypeFullBundle,
	}
	return s.submit(ctx, job, models.AllProductTypes)
}

func (s *GenerationService) submit(ctx context.Context, job *models.GenerationJob, types []models.ProductType) (*dto.GenerationAcceptedResponse, error) {
	if _, err := s.standards.GetByID(ctx, job.StandardID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "standard not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load standard")
	}

	products := make([]*models.Product, 0, len(types))
	for _, t := range types {
		products = append(products, &models.Product{
			StandardID:      job.StandardID,
			ProductType:     t,
			Locale:          job.Locale,
			CurriculumBoard: job.CurriculumBoard,
			GradeLevel:      job.GradeLevel,
			Status:          models.ProductStatusDraft,
		})
	}

	job.Status = models.JobStatusPending
	if err := s.jobs.CreateWithProducts(ctx, job, products); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create generation job")
	}

	resp := &dto.GenerationAcceptedResponse{JobID: job.ID, Status: job.Status, ProductIDs: make([]string, 0, len(products))}
	for _, p := range products {
		resp.ProductIDs = append(resp.ProductIDs, p.ID)
	}

	if err := s.dispatch(ctx, job.ID); err != nil {
		return nil, err
	}
	s.logger.Sugar().Infow("generation job queued", "job_id", job.ID, "job_type", job.JobType, "products", len(products))
	return resp, nil
}

// RetryProduct moves a FAILED product back to DRAFT and queues that product alone.
func (s *GenerationService) RetryProduct(ctx context.Context, productID string) (*dto.GenerationAcceptedResponse, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "product not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
	}
	if !models.CanTransitionProduct(product.Status, models.ProductStatusDraft) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only FAILED products can be retried")
	}

	ok, err := s.products.TransitionStatus(ctx, productID, models.ProductStatusFailed, models.ProductStatusDraft)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset product")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "product is no longer FAILED")
	}

	job, err := s.progress.Recompute(ctx, product.GenerationJobID)
	if err != nil {
		return nil, err
	}
	if err := s.dispatchProduct(ctx, productID, product.GenerationJobID); err != nil {
		return nil, err
	}
	s.logger.Sugar().Infow("product retry queued", "product_id", productID, "job_id", product.GenerationJobID)
	return &dto.GenerationAcceptedResponse{JobID: job.ID, Status: job.Status, ProductIDs: []string{productID}}, nil
}

// RecoverPendingJobs re-queues every job that still has unfinished products, e.g. after a
// restart. It pages through the backlog and returns the number of jobs queued.
func (s *GenerationService) RecoverPendingJobs(ctx context.Context) int {
	var (
		cursor models.JobCursor
		queued int
	)
	for {
		page, err := s.jobs.ListUnfinished(ctx, cursor, recoveryPageSize)
		if err != nil {
			s.logger.Sugar().Warnw("failed to recover unfinished generation jobs", "error", err)
			break
		}
		for _, job := range page {
			if err := s.queue.Enqueue(ctx, jobs.Job{ID: job.ID, Type: JobTypeGeneration}); err != nil {
				s.logger.Sugar().Warnw("failed to requeue generation job", "job_id", job.ID, "error", err)
				continue
			}
			queued++
		}
		if len(page) < recoveryPageSize {
			break
		}
		last := page[len(page)-1]
		cursor = models.JobCursor{CreatedAt: last.CreatedAt, ID: last.ID}
	}
	if queued > 0 {
		s.logger.Sugar().Infow("recovered unfinished generation jobs", "count", queued)
	}
	return queued
}

// StartRecoverySweep re-runs RecoverPendingJobs every interval until ctx is done, picking up
// products whose run lease expired after a crash.
func (s *GenerationService) StartRecoverySweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RecoverPendingJobs(ctx)
			}
		}
	}()
}

func (s *GenerationService) dispatch(ctx context.Context, jobID string) error {
	err := s.queue.Enqueue(ctx, jobs.Job{ID: jobID, Type: JobTypeGeneration, RequestID: requestid.FromContext(ctx)})
	if err != nil {
		s.logger.Sugar().Errorw("failed to enqueue generation job", "job_id", jobID, "error", err)
		return appErrors.Wrap(err, appErrors.ErrQueueUnavailable.Code, appErrors.ErrQueueUnavailable.Status, "failed to enqueue generation job")
	}
	return nil
}

func (s *GenerationService) dispatchProduct(ctx context.Context, productID, jobID string) error {
	err := s.queue.Enqueue(ctx, jobs.Job{ID: productID, Type: JobTypeProduct, Payload: jobID, RequestID: requestid.FromContext(ctx)})
	if err != nil {
		s.logger.Sugar().Errorw("failed to enqueue product retry", "product_id", productID, "job_id", jobID, "error", err)
		return appErrors.Wrap(err, appErrors.ErrQueueUnavailable.Code, appErrors.ErrQueueUnavailable.Status, "failed to enqueue product retry")
	}
	return nil
}

type productRunner interface {
	RunProduct(ctx context.Context, productID string) (models.ProductStatus, error)
}

// GenerationWorker consumes generation queue messages.
type GenerationWorker struct {
	products    jobProductLister
	pipeline    productRunner
	progress    progressRecomputer
	concurrency int
	logger      *zap.Logger

	// product ids currently running in this process
	inflight sync.Map
}

// NewGenerationWorker constructs a worker that runs at most concurrency products of a job at once.
func NewGenerationWorker(products jobProductLister, pipeline productRunner, progress progressRecomputer, concurrency int, logger *zap.Logger) *GenerationWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = 1
	}
	return &GenerationWorker{
		products:    products,
		pipeline:    pipeline,
		progress:    progress,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Handle runs every DRAFT product of the job, or the single product of a product message.
// A failing product never cancels its siblings, and a product already running in this
// process is not started again.
func (w *GenerationWorker) Handle(ctx context.Context, job jobs.Job) error {
	if job.Type == JobTypeProduct {
		w.handleProduct(ctx, job)
		return nil
	}

	products, err := w.products.ListByJob(ctx, job.ID)
	if err != nil {
		return err
	}

	logger := w.logger.Sugar().With("job_id", job.ID, "request_id", job.RequestID)

	var g errgroup.Group
	g.SetLimit(w.concurrency)
	started, busy := 0, 0
	for _, p := range products {
		if p.Status != models.ProductStatusDraft {
			continue
		}
		// Products not started before shutdown stay DRAFT for startup recovery.
		if ctx.Err() != nil {
			break
		}
		productID := p.ID
		if !w.acquire(productID) {
			busy++
			continue
		}
		started++
		g.Go(func() error {
			defer w.release(productID)
			w.run(ctx, logger, productID)
			return nil
		})
	}
	_ = g.Wait()

	final, err := w.progress.Recompute(context.WithoutCancel(ctx), job.ID)
	if err != nil {
		logger.Errorw("final progress recompute failed", "error", err)
		return nil
	}
	logger.Infow("generation job processed", "products_run", started, "already_running", busy, "status", final.Status,
		"completed", final.CompletedProducts, "failed", final.FailedProducts)
	return nil
}

func (w *GenerationWorker) handleProduct(ctx context.Context, job jobs.Job) {
	logger := w.logger.Sugar().With("product_id", job.ID, "job_id", job.Payload, "request_id", job.RequestID)
	if ctx.Err() != nil {
		return
	}
	if !w.acquire(job.ID) {
		logger.Infow("product already running, dropping duplicate message")
		return
	}
	defer w.release(job.ID)
	w.run(ctx, logger, job.ID)
}

func (w *GenerationWorker) run(ctx context.Context, logger *zap.SugaredLogger, productID string) {
	status, err := w.pipeline.RunProduct(ctx, productID)
	if err != nil {
		logger.Warnw("product pipeline returned error", "product_id", productID, "error", err)
		return
	}
	logger.Debugw("product settled", "product_id", productID, "status", status)
}

func (w *GenerationWorker) acquire(productID string) bool {
	_, running := w.inflight.LoadOrStore(productID, struct{}{})
	return !running
}

func (w *GenerationWorker) release(productID string) {
	w.inflight.Delete(productID)
}
