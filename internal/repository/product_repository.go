package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-content-forge/internal/models"
)

// ErrNoRowsAffected signals an update whose WHERE clause matched nothing.
var ErrNoRowsAffected = errors.New("no rows affected")

const productColumns = `id, generation_job_id, standard_id, product_type, locale, curriculum_board, grade_level, status, created_at, updated_at`

// ProductRepository persists generated products.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository constructs the repository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// GetByID returns a product by its identifier.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE id = $1", productColumns)
	var product models.Product
	if err := r.db.GetContext(ctx, &product, query, id); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

// ListByJob returns every product owned by a job.
func (r *ProductRepository) ListByJob(ctx context.Context, jobID string) ([]models.Product, error) {
	query := fmt.Sprintf("SELECT %s FROM products WHERE generation_job_id = $1 ORDER BY created_at ASC, id ASC", productColumns)
	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, query, jobID); err != nil {
		return nil, fmt.Errorf("list products by job: %w", err)
	}
	return products, nil
}

// List returns products matching the filter, newest first, with the total matching count.
func (r *ProductRepository) List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if filter.Status != "" {
		add("status", filter.Status)
	}
	if filter.ProductType != "" {
		add("product_type", filter.ProductType)
	}
	if filter.GenerationJobID != "" {
		add("generation_job_id", filter.GenerationJobID)
	}
	if filter.StandardID != "" {
		add("standard_id", filter.StandardID)
	}
	if filter.CurriculumBoard != "" {
		add("curriculum_board", filter.CurriculumBoard)
	}
	if filter.Locale != "" {
		add("locale", filter.Locale)
	}
	if filter.GradeLevel > 0 {
		add("grade_level", filter.GradeLevel)
	}
	where := strings.Join(conditions, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}

	query := fmt.Sprintf("SELECT %s FROM products WHERE %s ORDER BY created_at DESC, id ASC LIMIT %d OFFSET %d",
		productColumns, where, size, (page-1)*size)
	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, fmt.Sprintf("SELECT COUNT(*) FROM products WHERE %s", where), args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}
	return products, total, nil
}

// Claim takes a run lease on a DRAFT product for owner. It reports false when the product is
// no longer DRAFT or another owner holds an unexpired lease.
func (r *ProductRepository) Claim(ctx context.Context, id, owner string, ttl time.Duration) (bool, error) {
	const query = `UPDATE products SET claimed_by = $1, claim_expires_at = $2
WHERE id = $3 AND status = 'DRAFT' AND (claim_expires_at IS NULL OR claim_expires_at < $4)`
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, query, owner, now.Add(ttl), id, now)
	if err != nil {
		return false, fmt.Errorf("claim product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim product: %w", err)
	}
	return affected > 0, nil
}

// TransitionStatus moves a product from one status to another and drops any run lease. It
// reports false when the product was not in the expected status.
func (r *ProductRepository) TransitionStatus(ctx context.Context, id string, from, to models.ProductStatus) (bool, error) {
	const query = `UPDATE products SET status = $1, updated_at = $2, claimed_by = NULL, claim_expires_at = NULL WHERE id = $3 AND status = $4`
	res, err := r.db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return false, fmt.Errorf("update product status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update product status: %w", err)
	}
	return affected > 0, nil
}
