package models

import "time"

// Locale selects the regional conventions of generated content.
type Locale string

const (
	LocaleIN Locale = "IN"
	LocaleUS Locale = "US"
)

// CurriculumBoard names the curriculum a job is aligned to.
type CurriculumBoard string

const (
	CurriculumCBSE       CurriculumBoard = "CBSE"
	CurriculumCommonCore CurriculumBoard = "COMMON_CORE"
)

// JobType distinguishes single-product requests from bundles.
type JobType string

const (
	JobTypeSingleProduct JobType = "SINGLE_PRODUCT"
	JobTypeFullBundle    JobType = "FULL_BUNDLE"
)

// JobStatus captures the derived lifecycle state of a generation job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "PENDING"
	JobStatusRunning   JobStatus = "RUNNING"
	JobStatusCompleted JobStatus = "COMPLETED"
	JobStatusFailed    JobStatus = "FAILED"
)

// GenerationJob is one request to produce products for a standard/locale/curriculum/grade.
type GenerationJob struct {
	ID                string          `db:"id" json:"id"`
	StandardID        string          `db:"standard_id" json:"standard_id"`
	Locale            Locale          `db:"locale" json:"locale"`
	CurriculumBoard   CurriculumBoard `db:"curriculum_board" json:"curriculum_board"`
	GradeLevel        int             `db:"grade_level" json:"grade_level"`
	JobType           JobType         `db:"job_type" json:"job_type"`
	Status            JobStatus       `db:"status" json:"status"`
	TotalProducts     int             `db:"total_products" json:"total_products"`
	CompletedProducts int             `db:"completed_products" json:"completed_products"`
	FailedProducts    int             `db:"failed_products" json:"failed_products"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`
}

// JobProgress is the counter snapshot written by progress aggregation.
type JobProgress struct {
	Total     int
	Completed int
	Failed    int
	Status    JobStatus
}

// DeriveJobStatus maps progress counters to a job status. Rules are evaluated in order.
func DeriveJobStatus(total, completed, failed int) JobStatus {
	switch {
	case total == 0:
		return JobStatusPending
	case completed+failed == total:
		return JobStatusCompleted
	case completed > 0 || failed > 0:
		return JobStatusRunning
	default:
		return JobStatusPending
	}
}

// GenerationJobFilter narrows job listings.
type GenerationJobFilter struct {
	Status   JobStatus
	Page     int
	PageSize int
}

// JobCursor marks the last job of a keyset page ordered by (created_at, id).
type JobCursor struct {
	CreatedAt time.Time
	ID        string
}

// Pagination describes a paged listing.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// PipelineStats summarises pipeline activity since process start.
type PipelineStats struct {
	ModelAttempts     uint64    `json:"model_attempts"`
	ModelFailures     uint64    `json:"model_failures"`
	ProductsGenerated uint64    `json:"products_generated"`
	ProductsFailed    uint64    `json:"products_failed"`
	Recomputes        uint64    `json:"recomputes"`
	CacheHitRatio     float64   `json:"cache_hit_ratio"`
	Goroutines        int       `json:"goroutines"`
	GeneratedAt       time.Time `json:"generated_at"`
}
