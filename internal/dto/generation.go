package dto

import "github.com/noah-isme/edu-content-forge/internal/models"

// GenerateProductRequest captures POST /generate-product payload.
type GenerateProductRequest struct {
	StandardID      string                 `json:"standard_id" validate:"required"`
	ProductType     models.ProductType     `json:"product_type" validate:"required,oneof=WORKSHEET PASSAGE QUIZ ASSESSMENT"`
	Locale          models.Locale          `json:"locale" validate:"required,oneof=IN US"`
	CurriculumBoard models.CurriculumBoard `json:"curriculum_board" validate:"required,oneof=CBSE COMMON_CORE"`
	GradeLevel      int                    `json:"grade_level" validate:"min=1,max=12"`
}

// GenerateBundleRequest captures POST /generate-bundle payload; one product per type is created.
type GenerateBundleRequest struct {
	StandardID      string                 `json:"standard_id" validate:"required"`
	Locale          models.Locale          `json:"locale" validate:"required,oneof=IN US"`
	CurriculumBoard models.CurriculumBoard `json:"curriculum_board" validate:"required,oneof=CBSE COMMON_CORE"`
	GradeLevel      int                    `json:"grade_level" validate:"min=1,max=12"`
}

// GenerationAcceptedResponse is returned once a job has been queued.
type GenerationAcceptedResponse struct {
	JobID      string           `json:"job_id"`
	ProductIDs []string         `json:"product_ids"`
	Status     models.JobStatus `json:"status"`
}

// GenerationJobQuery holds GET /generation-jobs filters.
type GenerationJobQuery struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}
