package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-content-forge/internal/agent"
	"github.com/noah-isme/edu-content-forge/internal/models"
	appErrors "github.com/noah-isme/edu-content-forge/pkg/errors"
)

// Pipeline stage labels.
const (
	StageGenerate = "generate"
	StageQC       = "qc"
	StageMetadata = "metadata"
)

const (
	finalizeTimeout = 15 * time.Second
	defaultClaimTTL = 20 * time.Minute
)

type pipelineProductStore interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Claim(ctx context.Context, id, owner string, ttl time.Duration) (bool, error)
	TransitionStatus(ctx context.Context, id string, from, to models.ProductStatus) (bool, error)
}

type standardReader interface {
	GetByID(ctx context.Context, id string) (*models.Standard, error)
}

type contentGenerator interface {
	Generate(ctx context.Context, req agent.Request) (agent.Content, error)
}

type qualityEvaluator interface {
	Evaluate(ctx context.Context, req agent.Request, content agent.Content) (models.QCResult, error)
}

type metadataSynthesizer interface {
	Synthesize(ctx context.Context, req agent.Request, content agent.Content) models.ProductMetadata
}

type progressRecomputer interface {
	Recompute(ctx context.Context, jobID string) (*models.GenerationJob, error)
}

// PipelineService drives one product through generation, QC and metadata and settles its status.
type PipelineService struct {
	products  pipelineProductStore
	standards standardReader
	generator contentGenerator
	qc        qualityEvaluator
	metadata  metadataSynthesizer
	progress  progressRecomputer
	metrics   *MetricsService
	owner     string
	claimTTL  time.Duration
	logger    *zap.Logger
}

// NewPipelineService constructs the orchestrator. claimTTL bounds how long a run may hold a
// product before another run can take it over; it must outlast the slowest pipeline run.
func NewPipelineService(
	products pipelineProductStore,
	standards standardReader,
	generator contentGenerator,
	qc qualityEvaluator,
	metadata metadataSynthesizer,
	progress progressRecomputer,
	metrics *MetricsService,
	claimTTL time.Duration,
	logger *zap.Logger,
) *PipelineService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if claimTTL <= 0 {
		claimTTL = defaultClaimTTL
	}
	return &PipelineService{
		products:  products,
		standards: standards,
		generator: generator,
		qc:        qc,
		metadata:  metadata,
		progress:  progress,
		metrics:   metrics,
		owner:     uuid.NewString(),
		claimTTL:  claimTTL,
		logger:    logger,
	}
}

// RunProduct runs the pipeline for a DRAFT product and returns its terminal status. Products
// that are no longer DRAFT, or that another run has claimed, are left untouched and reported
// with their current status. Once the product is claimed, the job's progress is recomputed
// exactly once whatever happens inside the stages.
func (s *PipelineService) RunProduct(ctx context.Context, productID string) (models.ProductStatus, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", appErrors.Clone(appErrors.ErrNotFound, "product not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
	}
	if product.Status != models.ProductStatusDraft {
		s.logger.Sugar().Infow("product already processed, skipping", "product_id", productID, "status", product.Status)
		s.metrics.ObservePipelineRun(OutcomeSkipped)
		return product.Status, nil
	}

	claimed, err := s.products.Claim(ctx, productID, s.owner, s.claimTTL)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to claim product")
	}
	if !claimed {
		s.logger.Sugar().Infow("product claimed by another run, skipping", "product_id", productID)
		s.metrics.ObservePipelineRun(OutcomeSkipped)
		return product.Status, nil
	}

	status, outcome := s.execute(ctx, product)
	s.metrics.ObservePipelineRun(outcome)

	// Settle even when ctx was cancelled mid-run so the product never stays DRAFT.
	finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalizeTimeout)
	defer cancel()

	persistErr := s.persist(finalCtx, product, status)
	if _, err := s.progress.Recompute(finalCtx, product.GenerationJobID); err != nil {
		s.logger.Sugar().Errorw("job progress recompute failed", "job_id", product.GenerationJobID, "product_id", productID, "error", err)
	}
	if persistErr != nil {
		return status, persistErr
	}

	s.logger.Sugar().Infow("product pipeline finished", "product_id", productID, "job_id", product.GenerationJobID, "status", status)
	return status, nil
}

// execute runs the three stages and maps the outcome to a terminal status. Panics are
// converted to FAILED.
func (s *PipelineService) execute(ctx context.Context, product *models.Product) (status models.ProductStatus, outcome string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Sugar().Errorw("product pipeline panicked", "product_id", product.ID, "panic", r, "stack", string(debug.Stack()))
			status, outcome = models.ProductStatusFailed, OutcomePanicked
		}
	}()

	standard, err := s.standards.GetByID(ctx, product.StandardID)
	if err != nil {
		s.logger.Sugar().Errorw("failed to load standard", "product_id", product.ID, "standard_id", product.StandardID, "error", err)
		return models.ProductStatusFailed, OutcomeFailed
	}

	req := agent.Request{
		ProductID:   product.ID,
		ProductType: product.ProductType,
		Standard:    *standard,
		GradeLevel:  product.GradeLevel,
		Curriculum:  product.CurriculumBoard,
	}

	var content agent.Content
	err = s.timed(StageGenerate, func() (stageErr error) {
		content, stageErr = s.generator.Generate(ctx, req)
		return stageErr
	})
	if err != nil {
		s.logger.Sugar().Errorw("content generation failed", "product_id", product.ID, "error", err)
		return models.ProductStatusFailed, OutcomeFailed
	}

	var qc models.QCResult
	err = s.timed(StageQC, func() (stageErr error) {
		qc, stageErr = s.qc.Evaluate(ctx, req, content)
		return stageErr
	})
	if err != nil {
		s.logger.Sugar().Errorw("qc stage failed", "product_id", product.ID, "error", err)
		return models.ProductStatusFailed, OutcomeFailed
	}

	_ = s.timed(StageMetadata, func() error {
		s.metadata.Synthesize(ctx, req, content)
		return nil
	})

	if qc.Verdict == models.VerdictPass {
		return models.ProductStatusGenerated, OutcomeGenerated
	}
	s.logger.Sugar().Infow("product did not pass qc", "product_id", product.ID, "verdict", qc.Verdict, "score", qc.Score)
	return models.ProductStatusFailed, OutcomeFailed
}

func (s *PipelineService) persist(ctx context.Context, product *models.Product, status models.ProductStatus) error {
	ok, err := s.products.TransitionStatus(ctx, product.ID, models.ProductStatusDraft, status)
	if err != nil {
		s.logger.Sugar().Errorw("failed to persist product status", "product_id", product.ID, "status", status, "error", err)
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist product status")
	}
	if !ok {
		s.logger.Sugar().Warnw("product left DRAFT during pipeline run", "product_id", product.ID, "status", status)
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("product %s is no longer DRAFT", product.ID))
	}
	return nil
}

func (s *PipelineService) timed(stage string, fn func() error) error {
	start := time.Now()
	err := fn()
	s.metrics.ObserveStage(stage, time.Since(start))
	return err
}
