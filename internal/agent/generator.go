package agent

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-content-forge/internal/llm"
	"github.com/noah-isme/edu-content-forge/internal/models"
)

// Generator produces the primary content artifact of a product.
type Generator struct {
	client llm.Client
	store  ArtifactStore
	logger *zap.Logger
}

// NewGenerator constructs a Generator.
func NewGenerator(client llm.Client, store ArtifactStore, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{client: client, store: store, logger: logger}
}

// Generate asks the model for content and stores it as the raw artifact.
// Every failure is returned to the caller; there is no fallback content.
func (g *Generator) Generate(ctx context.Context, req Request) (Content, error) {
	g.logger.Sugar().Infow("content generation started", "product_id", req.ProductID, "product_type", req.ProductType)

	raw, err := g.client.Generate(ctx, generationSystemPrompt(req), generationUserPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("generate %s content: %w", kindLower(req.ProductType), err)
	}

	var content Content
	if err := llm.NormalizeInto(raw, &content); err != nil {
		g.logger.Sugar().Errorw("generated content is not valid JSON", "product_id", req.ProductID, "error", err)
		return nil, err
	}
	if content == nil {
		return nil, &llm.MalformedOutputError{Text: llm.StripFences(raw), Err: errors.New("expected a JSON object")}
	}

	// Structure is judged by QC; shape drift is only reported here.
	if issues, err := ShapeIssues(req.ProductType, content); err != nil {
		g.logger.Sugar().Warnw("content shape check unavailable", "product_id", req.ProductID, "error", err)
	} else if len(issues) > 0 {
		g.logger.Sugar().Warnw("content departs from requested structure", "product_id", req.ProductID,
			"product_type", req.ProductType, "issues", issues)
	}

	if err := g.store.Save(ctx, req.ProductID, models.ArtifactRaw, content); err != nil {
		return nil, fmt.Errorf("store raw artifact: %w", err)
	}

	g.logger.Sugar().Infow("content generation completed", "product_id", req.ProductID)
	return content, nil
}
