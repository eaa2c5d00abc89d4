package models

import "time"

// ProductType enumerates the content kinds the pipeline can generate.
type ProductType string

const (
	ProductTypeWorksheet  ProductType = "WORKSHEET"
	ProductTypePassage    ProductType = "PASSAGE"
	ProductTypeQuiz       ProductType = "QUIZ"
	ProductTypeAssessment ProductType = "ASSESSMENT"
)

// AllProductTypes lists product types in bundle order.
var AllProductTypes = []ProductType{
	ProductTypeWorksheet,
	ProductTypePassage,
	ProductTypeQuiz,
	ProductTypeAssessment,
}

// ProductStatus captures a product's lifecycle state.
type ProductStatus string

const (
	ProductStatusDraft     ProductStatus = "DRAFT"
	ProductStatusGenerated ProductStatus = "GENERATED"
	ProductStatusFailed    ProductStatus = "FAILED"
	ProductStatusReviewed  ProductStatus = "REVIEWED"
	ProductStatusPublished ProductStatus = "PUBLISHED"
)

var productTransitions = map[ProductStatus][]ProductStatus{
	ProductStatusDraft:     {ProductStatusGenerated, ProductStatusFailed},
	ProductStatusGenerated: {ProductStatusReviewed},
	ProductStatusReviewed:  {ProductStatusPublished},
	ProductStatusFailed:    {ProductStatusDraft},
}

// CanTransitionProduct reports whether from -> to is an edge of the product status graph.
func CanTransitionProduct(from, to ProductStatus) bool {
	for _, next := range productTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Succeeded reports whether the product passed generation, including later review states.
func (s ProductStatus) Succeeded() bool {
	switch s {
	case ProductStatusGenerated, ProductStatusReviewed, ProductStatusPublished:
		return true
	}
	return false
}

// Valid reports whether s is a known product status.
func (s ProductStatus) Valid() bool {
	_, ok := productTransitions[s]
	return ok || s == ProductStatusPublished
}

// IsTerminal reports whether an orchestration attempt has finished with this status.
func (s ProductStatus) IsTerminal() bool {
	return s != ProductStatusDraft
}

// Product is one content item owned by a generation job.
type Product struct {
	ID              string          `db:"id" json:"id"`
	GenerationJobID string          `db:"generation_job_id" json:"generation_job_id"`
	StandardID      string          `db:"standard_id" json:"standard_id"`
	ProductType     ProductType     `db:"product_type" json:"product_type"`
	Locale          Locale          `db:"locale" json:"locale"`
	CurriculumBoard CurriculumBoard `db:"curriculum_board" json:"curriculum_board"`
	GradeLevel      int             `db:"grade_level" json:"grade_level"`
	Status          ProductStatus   `db:"status" json:"status"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// ProductFilter narrows product listings. Zero values are ignored.
type ProductFilter struct {
	Status          ProductStatus
	ProductType     ProductType
	GenerationJobID string
	StandardID      string
	CurriculumBoard CurriculumBoard
	Locale          Locale
	GradeLevel      int
	Page            int
	PageSize        int
}
