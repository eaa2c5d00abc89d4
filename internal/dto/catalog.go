package dto

import "github.com/noah-isme/edu-content-forge/internal/models"

// CreateStandardRequest captures POST /standards payload.
type CreateStandardRequest struct {
	Code        string `json:"code" validate:"required,max=64"`
	Description string `json:"description" validate:"max=500"`
}

// StandardQuery holds GET /standards filters. Code matches as a prefix.
type StandardQuery struct {
	Code string `form:"code"`
}

// ProductQuery holds GET /products filters.
type ProductQuery struct {
	Status          string `form:"status" validate:"omitempty,oneof=DRAFT GENERATED FAILED REVIEWED PUBLISHED"`
	ProductType     string `form:"product_type" validate:"omitempty,oneof=WORKSHEET PASSAGE QUIZ ASSESSMENT"`
	GenerationJobID string `form:"generation_job_id"`
	StandardID      string `form:"standard_id"`
	CurriculumBoard string `form:"curriculum_board" validate:"omitempty,oneof=CBSE COMMON_CORE"`
	Locale          string `form:"locale" validate:"omitempty,oneof=IN US"`
	GradeLevel      int    `form:"grade_level" validate:"omitempty,min=1,max=12"`
	Page            int    `form:"page"`
	PageSize        int    `form:"page_size"`
}

// UpdateProductStatusRequest captures PATCH /products/:id/status payload. Only review
// transitions are accepted; generation outcomes are set by the pipeline and retries go
// through POST /products/:id/retry.
type UpdateProductStatusRequest struct {
	Status models.ProductStatus `json:"status" validate:"required,oneof=REVIEWED PUBLISHED"`
}
