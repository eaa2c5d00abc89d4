package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-content-forge/internal/dto"
	"github.com/noah-isme/edu-content-forge/internal/models"
	appErrors "github.com/noah-isme/edu-content-forge/pkg/errors"
	"github.com/noah-isme/edu-content-forge/pkg/response"
)

type jobQueryService interface {
	GetJob(ctx context.Context, id string) (*models.GenerationJob, error)
	ListJobs(ctx context.Context, query dto.GenerationJobQuery) ([]models.GenerationJob, *models.Pagination, error)
	ListProducts(ctx context.Context, jobID string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetArtifact(ctx context.Context, productID string, kind models.ArtifactKind) (json.RawMessage, error)
}

// JobHandler exposes read-only job and product views.
type JobHandler struct {
	service jobQueryService
}

// NewJobHandler builds the handler.
func NewJobHandler(service jobQueryService) *JobHandler {
	return &JobHandler{service: service}
}

// List godoc
// @Summary List generation jobs
// @Tags Jobs
// @Produce json
// @Param status query string false "PENDING, RUNNING, COMPLETED or FAILED"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /generation-jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	var query dto.GenerationJobQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.ListJobs(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get a generation job with progress
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /generation-jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.service.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, job, nil)
}

// Products godoc
// @Summary List the products of a job
// @Tags Jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /generation-jobs/{id}/products [get]
func (h *JobHandler) Products(c *gin.Context) {
	products, err := h.service.ListProducts(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, products, nil)
}

// Product godoc
// @Summary Get a product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} response.Envelope
// @Router /products/{id} [get]
func (h *JobHandler) Product(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, product, nil)
}

// Artifact godoc
// @Summary Get a stage artifact of a product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Param kind path string true "raw, qc or metadata"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /products/{id}/artifacts/{kind} [get]
func (h *JobHandler) Artifact(c *gin.Context) {
	doc, err := h.service.GetArtifact(c.Request.Context(), c.Param("id"), models.ArtifactKind(c.Param("kind")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, doc, nil)
}
