package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/sashabaranov/go-openai"
)

// StatusError is a non-200 answer from a provider's HTTP API.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// RetryProvider retries failed completions that may succeed on another try.
type RetryProvider struct {
	provider Provider
	attempts uint
	delay    time.Duration
}

// NewRetryProvider wraps provider so each completion is attempted up to
// attempts times with exponential backoff.
func NewRetryProvider(provider Provider, attempts uint) *RetryProvider {
	if attempts == 0 {
		attempts = 1
	}
	return &RetryProvider{provider: provider, attempts: attempts, delay: time.Second}
}

func (r *RetryProvider) Name() string {
	return r.provider.Name()
}

func (r *RetryProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	var resp *CompletionResponse
	err := retry.Do(
		func() error {
			var err error
			resp, err = r.provider.Complete(ctx, req)
			return err
		},
		retry.Context(ctx),
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(Retryable),
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Retryable reports whether err is worth another attempt: network errors,
// rate limiting and server errors are; bad requests, auth failures and
// cancellation are not.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return retryableStatus(statusErr.StatusCode)
	}
	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError || code == 0
}
