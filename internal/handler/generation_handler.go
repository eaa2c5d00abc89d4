package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-content-forge/internal/dto"
	appErrors "github.com/noah-isme/edu-content-forge/pkg/errors"
	"github.com/noah-isme/edu-content-forge/pkg/response"
)

type generationService interface {
	GenerateProduct(ctx context.Context, req dto.GenerateProductRequest) (*dto.GenerationAcceptedResponse, error)
	GenerateBundle(ctx context.Context, req dto.GenerateBundleRequest) (*dto.GenerationAcceptedResponse, error)
	RetryProduct(ctx context.Context, productID string) (*dto.GenerationAcceptedResponse, error)
}

// GenerationHandler accepts content generation requests.
type GenerationHandler struct {
	service generationService
}

// NewGenerationHandler builds the handler.
func NewGenerationHandler(service generationService) *GenerationHandler {
	return &GenerationHandler{service: service}
}

// GenerateProduct godoc
// @Summary Generate a single product
// @Tags Generation
// @Accept json
// @Produce json
// @Param payload body dto.GenerateProductRequest true "Product request"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /generate-product [post]
func (h *GenerationHandler) GenerateProduct(c *gin.Context) {
	var req dto.GenerateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	result, err := h.service.GenerateProduct(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}

// GenerateBundle godoc
// @Summary Generate one product of every type
// @Tags Generation
// @Accept json
// @Produce json
// @Param payload body dto.GenerateBundleRequest true "Bundle request"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /generate-bundle [post]
func (h *GenerationHandler) GenerateBundle(c *gin.Context) {
	var req dto.GenerateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	result, err := h.service.GenerateBundle(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}

// RetryProduct godoc
// @Summary Retry a failed product
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 202 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /products/{id}/retry [post]
func (h *GenerationHandler) RetryProduct(c *gin.Context) {
	result, err := h.service.RetryProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Accepted(c, result)
}
