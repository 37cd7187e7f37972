package ai

import (
	"context"
	"errors"
	"net"
)

// ErrTimeout indicates the model request timed out or the upstream gateway
// reported a timeout (HTTP 504/408). Infra clients wrap such failures with
// this sentinel so classification never depends on error message text.
var ErrTimeout = errors.New("model request timed out")

// ErrEmptyResponse indicates the model returned no choices, blocked
// content, or less than the minimum amount of extractable text.
var ErrEmptyResponse = errors.New("empty or truncated model response")

// ErrMissingAPIKey indicates the client was constructed without
// credentials. This is a precondition failure reported once at startup.
var ErrMissingAPIKey = errors.New("vision model api key is required")

// FailureKind classifies a model failure for the retry loop.
type FailureKind int

const (
	// Retryable failures are timeout-like and worth another attempt.
	Retryable FailureKind = iota
	// Terminal failures will not improve with retries.
	Terminal
)

// Classify maps a failure to Retryable or Terminal. Timeouts and
// gateway-timeout signals are retryable; everything else (blocked content,
// empty responses, auth failures) is terminal.
func Classify(err error) FailureKind {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return Retryable
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return Retryable
	}
	return Terminal
}
