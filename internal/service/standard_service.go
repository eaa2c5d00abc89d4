package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-content-forge/internal/dto"
	"github.com/noah-isme/edu-content-forge/internal/models"
	appErrors "github.com/noah-isme/edu-content-forge/pkg/errors"
)

type standardStore interface {
	GetByID(ctx context.Context, id string) (*models.Standard, error)
	List(ctx context.Context, prefix string) ([]models.Standard, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Create(ctx context.Context, standard *models.Standard) error
}

// StandardService manages the curriculum standards generation requests refer to.
type StandardService struct {
	repo      standardStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStandardService constructs the service.
func NewStandardService(repo standardStore, validate *validator.Validate, logger *zap.Logger) *StandardService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StandardService{repo: repo, validator: validate, logger: logger}
}

// List returns standards ordered by code.
func (s *StandardService) List(ctx context.Context, query dto.StandardQuery) ([]models.Standard, error) {
	standards, err := s.repo.List(ctx, strings.TrimSpace(query.Code))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list standards")
	}
	return standards, nil
}

// Get returns a standard by id.
func (s *StandardService) Get(ctx context.Context, id string) (*models.Standard, error) {
	standard, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "standard not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load standard")
	}
	return standard, nil
}

// Create adds a standard. Codes are unique regardless of case.
func (s *StandardService) Create(ctx context.Context, req dto.CreateStandardRequest) (*models.Standard, error) {
	req.Code = strings.TrimSpace(req.Code)
	req.Description = strings.TrimSpace(req.Description)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid standard payload")
	}

	exists, err := s.repo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check standard code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "standard code already exists")
	}

	standard := &models.Standard{Code: req.Code, Description: req.Description}
	if err := s.repo.Create(ctx, standard); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create standard")
	}
	s.logger.Sugar().Infow("standard created", "standard_id", standard.ID, "code", standard.Code)
	return standard, nil
}
