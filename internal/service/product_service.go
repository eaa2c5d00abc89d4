package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-content-forge/internal/dto"
	"github.com/noah-isme/edu-content-forge/internal/models"
	appErrors "github.com/noah-isme/edu-content-forge/pkg/errors"
)

type productCatalogStore interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	List(ctx context.Context, filter models.ProductFilter) ([]models.Product, int, error)
	TransitionStatus(ctx context.Context, id string, from, to models.ProductStatus) (bool, error)
}

// ProductService lists products across jobs and applies review transitions.
type ProductService struct {
	products  productCatalogStore
	progress  progressRecomputer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProductService constructs the service.
func NewProductService(products productCatalogStore, progress progressRecomputer, validate *validator.Validate, logger *zap.Logger) *ProductService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{products: products, progress: progress, validator: validate, logger: logger}
}

// List returns a page of products, newest first.
func (s *ProductService) List(ctx context.Context, query dto.ProductQuery) ([]models.Product, *models.Pagination, error) {
	query.Status = strings.ToUpper(strings.TrimSpace(query.Status))
	query.ProductType = strings.ToUpper(strings.TrimSpace(query.ProductType))
	query.CurriculumBoard = strings.ToUpper(strings.TrimSpace(query.CurriculumBoard))
	query.Locale = strings.ToUpper(strings.TrimSpace(query.Locale))
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid product filters")
	}

	filter := models.ProductFilter{
		Status:          models.ProductStatus(query.Status),
		ProductType:     models.ProductType(query.ProductType),
		GenerationJobID: strings.TrimSpace(query.GenerationJobID),
		StandardID:      strings.TrimSpace(query.StandardID),
		CurriculumBoard: models.CurriculumBoard(query.CurriculumBoard),
		Locale:          models.Locale(query.Locale),
		GradeLevel:      query.GradeLevel,
		Page:            query.Page,
		PageSize:        query.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 50
	}

	products, total, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list products")
	}
	return products, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

// UpdateStatus moves a product along a review edge of the status graph
// (GENERATED to REVIEWED, REVIEWED to PUBLISHED) and refreshes its job's progress.
func (s *ProductService) UpdateStatus(ctx context.Context, id string, req dto.UpdateProductStatusRequest) (*models.Product, error) {
	req.Status = models.ProductStatus(strings.ToUpper(strings.TrimSpace(string(req.Status))))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "status must be REVIEWED or PUBLISHED")
	}

	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "product not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load product")
	}
	if !models.CanTransitionProduct(product.Status, req.Status) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("cannot move product from %s to %s", product.Status, req.Status))
	}

	ok, err := s.products.TransitionStatus(ctx, id, product.Status, req.Status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update product status")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "product status changed concurrently")
	}

	if _, err := s.progress.Recompute(ctx, product.GenerationJobID); err != nil {
		s.logger.Sugar().Warnw("progress recompute after review failed", "product_id", id, "job_id", product.GenerationJobID, "error", err)
	}
	s.logger.Sugar().Infow("product status updated", "product_id", id, "from", product.Status, "to", req.Status)

	product.Status = req.Status
	return product, nil
}
