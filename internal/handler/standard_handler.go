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

type standardService interface {
	List(ctx context.Context, query dto.StandardQuery) ([]models.Standard, error)
	Get(ctx context.Context, id string) (*models.Standard, error)
	Create(ctx context.Context, req dto.CreateStandardRequest) (*models.Standard, error)
}

// StandardHandler manages curriculum standards.
type StandardHandler struct {
	service standardService
}

// NewStandardHandler builds the handler.
func NewStandardHandler(service standardService) *StandardHandler {
	return &StandardHandler{service: service}
}

// List godoc
// @Summary List curriculum standards
// @Tags Standards
// @Produce json
// @Param code query string false "Code prefix"
// @Success 200 {object} response.Envelope
// @Router /standards [get]
func (h *StandardHandler) List(c *gin.Context) {
	var query dto.StandardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters"))
		return
	}
	items, err := h.service.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get a curriculum standard
// @Tags Standards
// @Produce json
// @Param id path string true "Standard ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /standards/{id} [get]
func (h *StandardHandler) Get(c *gin.Context) {
	standard, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, standard, nil)
}

// Create godoc
// @Summary Create a curriculum standard
// @Tags Standards
// @Accept json
// @Produce json
// @Param payload body dto.CreateStandardRequest true "Standard"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /standards [post]
func (h *StandardHandler) Create(c *gin.Context) {
	var req dto.CreateStandardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	standard, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, standard, nil)
}
