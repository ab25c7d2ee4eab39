package tagger

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/ppiankov/wordbias/internal/model"
)

// Throttled limits the call rate to another tagger
type Throttled struct {
	next    Tagger
	limiter *rate.Limiter
}

// NewThrottled allows requestsPerSecond calls with the given burst
func NewThrottled(next Tagger, requestsPerSecond float64, burst int) *Throttled {
	if burst <= 0 {
		burst = 1
	}
	return &Throttled{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Name returns the wrapped tagger's name
func (t *Throttled) Name() string {
	return t.next.Name()
}

// Tag waits for rate clearance and then delegates
func (t *Throttled) Tag(ctx context.Context, text string) ([]model.Token, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return t.next.Tag(ctx, text)
}
