package llm

import (
	"errors"
	"fmt"
)

// ConfigurationError reports a gateway that cannot issue requests at all.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "model gateway misconfigured: " + e.Reason
}

// ErrConfiguration is returned by Generate when no API key is set.
var ErrConfiguration = &ConfigurationError{Reason: "api key not configured"}

// UpstreamError is returned once every attempt against the model endpoint has failed.
type UpstreamError struct {
	StatusCode int
	Timeout    bool
	Attempts   int
	Body       string
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("model endpoint timed out after %d attempts", e.Attempts)
	case e.StatusCode != 0:
		return fmt.Sprintf("model endpoint returned %d after %d attempts: %s", e.StatusCode, e.Attempts, truncate(e.Body, 200))
	case e.Err != nil:
		return fmt.Sprintf("model endpoint unreachable after %d attempts: %v", e.Attempts, e.Err)
	default:
		return fmt.Sprintf("model endpoint failed after %d attempts", e.Attempts)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// MalformedOutputError reports model output that could not be decoded as JSON.
type MalformedOutputError struct {
	Text string
	Err  error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// IsUpstream reports whether err came from an exhausted gateway call.
func IsUpstream(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream)
}

// IsMalformed reports whether err came from the normalizer.
func IsMalformed(err error) bool {
	var malformed *MalformedOutputError
	return errors.As(err, &malformed)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
