package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/edu-content-forge/internal/llm"
	"github.com/noah-isme/edu-content-forge/internal/models"
)

const (
	passMinScore      = 75
	failMaxScore      = 50
	subScoreTolerance = 5.0
)

// QCEvaluator scores generated content against its standard and grade.
type QCEvaluator struct {
	client   llm.Client
	store    ArtifactStore
	validate *validator.Validate
	logger   *zap.Logger
}

// NewQCEvaluator constructs a QCEvaluator.
func NewQCEvaluator(client llm.Client, store ArtifactStore, validate *validator.Validate, logger *zap.Logger) *QCEvaluator {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QCEvaluator{client: client, store: store, validate: registerRules(validate), logger: logger}
}

// Evaluate stores and returns the model's evaluation, or FallbackQC when the model fails or
// returns something unusable. The only error returned is an artifact store failure.
func (q *QCEvaluator) Evaluate(ctx context.Context, req Request, content Content) (models.QCResult, error) {
	result, err := q.evaluate(ctx, req, content)
	if err != nil {
		q.logger.Sugar().Warnw("qc evaluation fell back", "product_id", req.ProductID, "error", err)
		result = FallbackQC(fallbackReason(err))
	}

	if err := q.store.Save(ctx, req.ProductID, models.ArtifactQC, result); err != nil {
		return result, fmt.Errorf("store qc artifact: %w", err)
	}

	q.logger.Sugar().Infow("qc evaluation completed", "product_id", req.ProductID, "verdict", result.Verdict, "score", result.Score)
	return result, nil
}

func (q *QCEvaluator) evaluate(ctx context.Context, req Request, content Content) (models.QCResult, error) {
	encoded, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return models.QCResult{}, fmt.Errorf("encode content for qc: %w", err)
	}

	raw, err := q.client.Generate(ctx, qcSystemPrompt, qcUserPrompt(req, string(encoded)))
	if err != nil {
		return models.QCResult{}, err
	}

	var result models.QCResult
	if err := llm.NormalizeInto(raw, &result); err != nil {
		return models.QCResult{}, err
	}
	if err := validateQC(q.validate, result); err != nil {
		return models.QCResult{}, err
	}

	if mean := result.SubScoreMean(); math.Abs(mean-float64(result.Score)) > subScoreTolerance {
		q.logger.Sugar().Warnw("qc score drifts from category mean",
			"product_id", req.ProductID, "score", result.Score, "mean", mean)
	}
	return result, nil
}

type qcValidationError struct {
	err error
}

func (e *qcValidationError) Error() string { return "qc result invalid: " + e.err.Error() }
func (e *qcValidationError) Unwrap() error { return e.err }

func validateQC(v *validator.Validate, result models.QCResult) error {
	if err := v.Struct(result); err != nil {
		return &qcValidationError{err: err}
	}
	switch {
	case result.Verdict == models.VerdictPass && result.Score < passMinScore:
		return &qcValidationError{err: fmt.Errorf("PASS requires score >= %d, got %d", passMinScore, result.Score)}
	case result.Verdict == models.VerdictFail && result.Score > failMaxScore:
		return &qcValidationError{err: fmt.Errorf("FAIL requires score <= %d, got %d", failMaxScore, result.Score)}
	}
	return nil
}

func fallbackReason(err error) string {
	var malformed *llm.MalformedOutputError
	var invalid *qcValidationError
	switch {
	case errors.As(err, &malformed):
		return qcParseFailure
	case errors.As(err, &invalid):
		return "QC evaluation failed validation: " + invalid.err.Error()
	default:
		return "QC process failed: " + err.Error()
	}
}
