package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/edu-content-forge/pkg/config"
)

const anthropicVersion = "2023-06-01"

// Outcome labels recorded per gateway attempt.
const (
	OutcomeSuccess        = "success"
	OutcomeHTTPError      = "http_error"
	OutcomeTimeout        = "timeout"
	OutcomeTransportError = "transport_error"
)

// Client generates text from a system and user prompt.
type Client interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// RequestObserver records per-attempt gateway metrics.
type RequestObserver interface {
	ObserveLLMRequest(outcome string, duration time.Duration)
}

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Gateway calls the Anthropic Messages API with a per-attempt timeout and exponential backoff.
type Gateway struct {
	cfg        config.ModelConfig
	httpClient *http.Client
	logger     *zap.Logger
	metrics    RequestObserver
	sleep      SleepFunc
}

// GatewayOption customises a Gateway.
type GatewayOption func(*Gateway)

// WithHTTPClient overrides the HTTP client used for model calls.
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(g *Gateway) {
		if client != nil {
			g.httpClient = client
		}
	}
}

// WithSleep overrides how the gateway waits between attempts.
func WithSleep(fn SleepFunc) GatewayOption {
	return func(g *Gateway) {
		if fn != nil {
			g.sleep = fn
		}
	}
}

// NewGateway constructs a Gateway. A nil logger or observer is allowed.
func NewGateway(cfg config.ModelConfig, logger *zap.Logger, metrics RequestObserver, opts ...GatewayOption) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 4000
	}
	if cfg.BackoffUnit <= 0 {
		cfg.BackoffUnit = time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	g := &Gateway{
		cfg:        cfg,
		httpClient: &http.Client{},
		logger:     logger,
		metrics:    metrics,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type messageRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	System    string           `json:"system"`
	Messages  []messageContent `json:"messages"`
}

type messageContent struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type attemptError struct {
	statusCode int
	timeout    bool
	body       string
	err        error
}

func (e *attemptError) Error() string {
	switch {
	case e.timeout:
		return "request timed out"
	case e.statusCode != 0:
		return fmt.Sprintf("status %d: %s", e.statusCode, truncate(e.body, 200))
	default:
		return e.err.Error()
	}
}

func (e *attemptError) outcome() string {
	switch {
	case e.timeout:
		return OutcomeTimeout
	case e.statusCode != 0:
		return OutcomeHTTPError
	default:
		return OutcomeTransportError
	}
}

// Generate sends one prompt pair and returns the first content block's text.
func (g *Gateway) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if strings.TrimSpace(g.cfg.APIKey) == "" {
		return "", ErrConfiguration
	}

	body, err := json.Marshal(messageRequest{
		Model:     g.cfg.Model,
		MaxTokens: g.cfg.MaxTokens,
		System:    systemPrompt,
		Messages:  []messageContent{{Role: "user", Content: userPrompt}},
	})
	if err != nil {
		return "", fmt.Errorf("encode model request: %w", err)
	}

	var last *attemptError
	attempts := 0
	for attempt := 0; attempt < g.cfg.MaxRetries; attempt++ {
		attempts++
		start := time.Now()
		text, aErr := g.doOnce(ctx, body)
		if aErr == nil {
			g.observe(OutcomeSuccess, time.Since(start))
			return text, nil
		}
		g.observe(aErr.outcome(), time.Since(start))

		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		last = aErr

		if attempt == g.cfg.MaxRetries-1 {
			break
		}

		wait := g.cfg.BackoffUnit * time.Duration(1<<uint(attempt))
		g.logger.Sugar().Warnw("model request failed, retrying",
			"attempt", attempt+1,
			"max_attempts", g.cfg.MaxRetries,
			"wait", wait.String(),
			"error", aErr.Error(),
		)
		if err := g.sleep(ctx, wait); err != nil {
			return "", err
		}
	}

	g.logger.Sugar().Errorw("model request exhausted retries", "attempts", attempts, "error", last.Error())
	return "", &UpstreamError{
		StatusCode: last.statusCode,
		Timeout:    last.timeout,
		Attempts:   attempts,
		Body:       last.body,
		Err:        last.err,
	}
}

func (g *Gateway) doOnce(ctx context.Context, body []byte) (string, *attemptError) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(attemptCtx, http.MethodPost, g.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", &attemptError{err: err}
	}
	req.Header.Set("x-api-key", g.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", &attemptError{err: err, timeout: isTimeout(attemptCtx, err)}
	}
	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return "", &attemptError{err: readErr, timeout: isTimeout(attemptCtx, readErr)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &attemptError{statusCode: resp.StatusCode, body: string(raw)}
	}

	var decoded messageResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", &attemptError{err: fmt.Errorf("decode model response: %w", err)}
	}
	if len(decoded.Content) == 0 {
		return "", &attemptError{err: errors.New("model response has no content blocks")}
	}
	return decoded.Content[0].Text, nil
}

func (g *Gateway) observe(outcome string, d time.Duration) {
	if g.metrics == nil {
		return
	}
	g.metrics.ObserveLLMRequest(outcome, d)
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
