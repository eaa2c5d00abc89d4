package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/edu-content-forge/internal/models"
)

// StandardRepository persists curriculum standards.
type StandardRepository struct {
	db *sqlx.DB
}

// NewStandardRepository constructs the repository.
func NewStandardRepository(db *sqlx.DB) *StandardRepository {
	return &StandardRepository{db: db}
}

const standardColumns = `id, code, description, created_at`

// GetByID returns a standard by its identifier.
func (r *StandardRepository) GetByID(ctx context.Context, id string) (*models.Standard, error) {
	query := fmt.Sprintf("SELECT %s FROM standards WHERE id = $1", standardColumns)
	var standard models.Standard
	if err := r.db.GetContext(ctx, &standard, query, id); err != nil {
		return nil, fmt.Errorf("get standard: %w", err)
	}
	return &standard, nil
}

// List returns standards ordered by code, optionally narrowed to codes starting with prefix.
func (r *StandardRepository) List(ctx context.Context, prefix string) ([]models.Standard, error) {
	standards := []models.Standard{}
	if prefix == "" {
		query := fmt.Sprintf("SELECT %s FROM standards ORDER BY code ASC", standardColumns)
		if err := r.db.SelectContext(ctx, &standards, query); err != nil {
			return nil, fmt.Errorf("list standards: %w", err)
		}
		return standards, nil
	}
	query := fmt.Sprintf("SELECT %s FROM standards WHERE code LIKE $1 ORDER BY code ASC", standardColumns)
	if err := r.db.SelectContext(ctx, &standards, query, prefix+"%"); err != nil {
		return nil, fmt.Errorf("list standards: %w", err)
	}
	return standards, nil
}

// Create inserts a standard, assigning its id and creation time.
func (r *StandardRepository) Create(ctx context.Context, standard *models.Standard) error {
	if standard.ID == "" {
		standard.ID = uuid.NewString()
	}
	standard.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO standards (id, code, description, created_at) VALUES (:id, :code, :description, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, standard); err != nil {
		return fmt.Errorf("create standard: %w", err)
	}
	return nil
}

// ExistsByCode reports whether a standard already uses code, ignoring case.
func (r *StandardRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM standards WHERE LOWER(code) = LOWER($1) LIMIT 1", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check standard code: %w", err)
	}
	return true, nil
}
