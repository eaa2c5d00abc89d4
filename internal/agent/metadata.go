package agent

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-content-forge/internal/llm"
	"github.com/noah-isme/edu-content-forge/internal/models"
)

// MetadataSynthesizer writes market-facing metadata for generated content.
type MetadataSynthesizer struct {
	client   llm.Client
	store    ArtifactStore
	validate *validator.Validate
	logger   *zap.Logger
}

// NewMetadataSynthesizer constructs a MetadataSynthesizer.
func NewMetadataSynthesizer(client llm.Client, store ArtifactStore, validate *validator.Validate, logger *zap.Logger) *MetadataSynthesizer {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetadataSynthesizer{client: client, store: store, validate: registerRules(validate), logger: logger}
}

// Synthesize always returns metadata. Model, validation and storage failures degrade to
// FallbackMetadata, which is persisted in place of the model output.
func (m *MetadataSynthesizer) Synthesize(ctx context.Context, req Request, content Content) models.ProductMetadata {
	metadata, err := m.synthesize(ctx, req, content)
	if err != nil {
		m.logger.Sugar().Warnw("metadata generation fell back", "product_id", req.ProductID, "error", err)
		return m.persistFallback(ctx, req)
	}

	if err := m.store.Save(ctx, req.ProductID, models.ArtifactMetadata, metadata); err != nil {
		m.logger.Sugar().Warnw("metadata write failed, storing fallback", "product_id", req.ProductID, "error", err)
		return m.persistFallback(ctx, req)
	}

	m.logger.Sugar().Infow("metadata generation completed", "product_id", req.ProductID)
	return metadata
}

func (m *MetadataSynthesizer) synthesize(ctx context.Context, req Request, content Content) (models.ProductMetadata, error) {
	summary := contentSummary(content, string(req.ProductType))
	raw, err := m.client.Generate(ctx, metadataSystemPrompt, metadataUserPrompt(req, summary))
	if err != nil {
		return models.ProductMetadata{}, err
	}

	var metadata models.ProductMetadata
	if err := llm.NormalizeInto(raw, &metadata); err != nil {
		return models.ProductMetadata{}, err
	}
	if err := m.validate.Struct(metadata); err != nil {
		return models.ProductMetadata{}, err
	}
	return metadata, nil
}

func (m *MetadataSynthesizer) persistFallback(ctx context.Context, req Request) models.ProductMetadata {
	fallback := FallbackMetadata(req.ProductType, req.GradeLevel, req.Standard.Code)
	if err := m.store.Save(ctx, req.ProductID, models.ArtifactMetadata, fallback); err != nil {
		m.logger.Sugar().Errorw("failed to store fallback metadata", "product_id", req.ProductID, "error", err)
	}
	return fallback
}
