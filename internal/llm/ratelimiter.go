package llm

import (
	"context"
	"sync"
	"time"
)

// RateLimitedProvider spaces completions so that at most rpm start in any
// minute, allowing a burst of rpm after an idle period.
type RateLimitedProvider struct {
	provider Provider
	interval time.Duration // time to earn one request
	burst    float64

	mu     sync.Mutex
	tokens float64
	last   time.Time
}

// NewRateLimitedProvider wraps provider with a limit of rpm requests per
// minute.
func NewRateLimitedProvider(provider Provider, rpm int) Provider {
	if rpm <= 0 {
		return provider
	}
	return &RateLimitedProvider{
		provider: provider,
		interval: time.Minute / time.Duration(rpm),
		burst:    float64(rpm),
		tokens:   float64(rpm),
		last:     time.Now(),
	}
}

func (r *RateLimitedProvider) Name() string { return r.provider.Name() }

func (r *RateLimitedProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if err := r.wait(ctx); err != nil {
		return nil, err
	}
	return r.provider.Complete(ctx, req)
}

// wait blocks until a request may start or ctx is done.
func (r *RateLimitedProvider) wait(ctx context.Context) error {
	for {
		delay := r.reserve(time.Now())
		if delay == 0 {
			return nil
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
}

// reserve takes a token if one is available and returns 0, or returns how
// long until the next token is earned.
func (r *RateLimitedProvider) reserve(now time.Time) time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tokens += float64(now.Sub(r.last)) / float64(r.interval)
	if r.tokens > r.burst {
		r.tokens = r.burst
	}
	r.last = now

	if r.tokens >= 1 {
		r.tokens--
		return 0
	}
	return time.Duration((1 - r.tokens) * float64(r.interval))
}
