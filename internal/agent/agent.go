// Package agent holds the three model-backed pipeline stages: content generation,
// quality evaluation and metadata synthesis.
package agent

import (
	"context"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/edu-content-forge/internal/models"
)

// ArtifactStore persists one stage artifact per product and kind, overwriting earlier writes.
type ArtifactStore interface {
	Save(ctx context.Context, productID string, kind models.ArtifactKind, value interface{}) error
}

// Request is the educational context a stage prompt is built from.
type Request struct {
	ProductID   string
	ProductType models.ProductType
	Standard    models.Standard
	GradeLevel  int
	Curriculum  models.CurriculumBoard
}

// Content is a decoded generator artifact.
type Content map[string]interface{}

var tagPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// NewValidator returns a validator with the artifact rules registered.
func NewValidator() *validator.Validate {
	return registerRules(validator.New())
}

func registerRules(v *validator.Validate) *validator.Validate {
	_ = v.RegisterValidation("tagchars", func(fl validator.FieldLevel) bool {
		return tagPattern.MatchString(fl.Field().String())
	})
	return v
}

func kindLower(t models.ProductType) string {
	if t == "" {
		return "content"
	}
	return strings.ToLower(string(t))
}

func kindTitle(t models.ProductType) string {
	lower := kindLower(t)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
