package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-content-forge/internal/models"
	"github.com/noah-isme/edu-content-forge/pkg/database"
)

const generationJobColumns = `id, standard_id, locale, curriculum_board, grade_level, job_type, status,
total_products, completed_products, failed_products, created_at, updated_at`

// GenerationJobRepository persists generation jobs.
type GenerationJobRepository struct {
	db *sqlx.DB
}

// NewGenerationJobRepository constructs the repository.
func NewGenerationJobRepository(db *sqlx.DB) *GenerationJobRepository {
	return &GenerationJobRepository{db: db}
}

// CreateWithProducts inserts a job and its DRAFT products in one transaction.
func (r *GenerationJobRepository) CreateWithProducts(ctx context.Context, job *models.GenerationJob, products []*models.Product) error {
	now := time.Now().UTC()
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = models.JobStatusPending
	}
	job.TotalProducts = len(products)
	job.CreatedAt = now
	job.UpdatedAt = now

	for _, p := range products {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		p.GenerationJobID = job.ID
		if p.Status == "" {
			p.Status = models.ProductStatusDraft
		}
		p.CreatedAt = now
		p.UpdatedAt = now
	}

	const jobQuery = `INSERT INTO generation_jobs (id, standard_id, locale, curriculum_board, grade_level, job_type, status,
total_products, completed_products, failed_products, created_at, updated_at)
VALUES (:id, :standard_id, :locale, :curriculum_board, :grade_level, :job_type, :status,
:total_products, :completed_products, :failed_products, :created_at, :updated_at)`
	const productQuery = `INSERT INTO products (id, generation_job_id, standard_id, product_type, locale, curriculum_board, grade_level, status, created_at, updated_at)
VALUES (:id, :generation_job_id, :standard_id, :product_type, :locale, :curriculum_board, :grade_level, :status, :created_at, :updated_at)`

	return database.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, jobQuery, job); err != nil {
			return fmt.Errorf("create generation job: %w", err)
		}
		for _, p := range products {
			if _, err := tx.NamedExecContext(ctx, productQuery, p); err != nil {
				return fmt.Errorf("create product: %w", err)
			}
		}
		return nil
	})
}

// GetByID returns a job by its identifier.
func (r *GenerationJobRepository) GetByID(ctx context.Context, id string) (*models.GenerationJob, error) {
	query := fmt.Sprintf("SELECT %s FROM generation_jobs WHERE id = $1", generationJobColumns)
	var job models.GenerationJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, fmt.Errorf("get generation job: %w", err)
	}
	return &job, nil
}

// List returns jobs newest first with the total matching count.
func (r *GenerationJobRepository) List(ctx context.Context, filter models.GenerationJobFilter) ([]models.GenerationJob, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}

	query := fmt.Sprintf("SELECT %s FROM generation_jobs WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d",
		generationJobColumns, where, size, (page-1)*size)
	var jobs []models.GenerationJob
	if err := r.db.SelectContext(ctx, &jobs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list generation jobs: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM generation_jobs WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count generation jobs: %w", err)
	}
	return jobs, total, nil
}

// UpdateProgress writes the aggregated counters and derived status.
func (r *GenerationJobRepository) UpdateProgress(ctx context.Context, id string, progress models.JobProgress) error {
	const query = `UPDATE generation_jobs SET total_products = $1, completed_products = $2, failed_products = $3, status = $4, updated_at = $5 WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, progress.Total, progress.Completed, progress.Failed, progress.Status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update generation job progress: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("update generation job progress: %w", ErrNoRowsAffected)
	}
	return nil
}

// ListUnfinished returns up to limit PENDING and RUNNING jobs created after the cursor, oldest
// first. Pass the last job of a page as the next cursor; a zero cursor starts from the beginning.
func (r *GenerationJobRepository) ListUnfinished(ctx context.Context, after models.JobCursor, limit int) ([]models.GenerationJob, error) {
	if limit <= 0 {
		limit = 50
	}
	query := fmt.Sprintf(`SELECT %s FROM generation_jobs WHERE status IN ('PENDING', 'RUNNING')
AND (created_at, id) > ($1, $2) ORDER BY created_at ASC, id ASC LIMIT $3`, generationJobColumns)
	var jobs []models.GenerationJob
	if err := r.db.SelectContext(ctx, &jobs, query, after.CreatedAt, after.ID, limit); err != nil {
		return nil, fmt.Errorf("list unfinished generation jobs: %w", err)
	}
	return jobs, nil
}
