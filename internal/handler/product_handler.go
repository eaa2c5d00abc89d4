package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-content-forge/internal/dto"
	"github.com/noah-isme/edu-content-forge/internal/models"
	appErrors "github.com/noah-isme/edu-content-forge/pkg/errors"
	"github.com/noah-isme/edu-content-forge/pkg/response"
)

type productService interface {
	List(ctx context.Context, query dto.ProductQuery) ([]models.Product, *models.Pagination, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateProductStatusRequest) (*models.Product, error)
}

// ProductHandler lists products across jobs and records review decisions.
type ProductHandler struct {
	service productService
}

// NewProductHandler builds the handler.
func NewProductHandler(service productService) *ProductHandler {
	return &ProductHandler{service: service}
}

// List godoc
// @Summary List products
// @Tags Products
// @Produce json
// @Param status query string false "DRAFT, GENERATED, FAILED, REVIEWED or PUBLISHED"
// @Param product_type query string false "WORKSHEET, PASSAGE, QUIZ or ASSESSMENT"
// @Param generation_job_id query string false "Job ID"
// @Param standard_id query string false "Standard ID"
// @Param curriculum_board query string false "CBSE or COMMON_CORE"
// @Param locale query string false "IN or US"
// @Param grade_level query int false "Grade 1-12"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var query dto.ProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	items, pagination, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// UpdateStatus godoc
// @Summary Mark a product reviewed or published
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param payload body dto.UpdateProductStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /products/{id}/status [patch]
func (h *ProductHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateProductStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	product, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, product, nil)
}
