package tagger

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/wordbias/internal/cache"
	"github.com/ppiankov/wordbias/internal/model"
)

// Cached memoizes successful analyses of another tagger. Failures are not
// cached so a transient backend error is retried on the next run.
type Cached struct {
	next   Tagger
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// NewCached wraps next with a result cache
func NewCached(next Tagger, c cache.Cache, ttl time.Duration, logger *zap.Logger) *Cached {
	return &Cached{next: next, cache: c, ttl: ttl, logger: logger}
}

// Name returns the wrapped tagger's name
func (t *Cached) Name() string {
	return t.next.Name()
}

// Tag returns a cached analysis or delegates and stores the result
func (t *Cached) Tag(ctx context.Context, text string) ([]model.Token, error) {
	key := cache.Key(t.next.Name(), text)

	if data, ok := t.cache.Get(key); ok {
		var tokens []model.Token
		if err := json.Unmarshal(data, &tokens); err == nil {
			t.hits.Add(1)
			return tokens, nil
		}
		_ = t.cache.Delete(key)
	}
	t.misses.Add(1)

	tokens, err := t.next.Tag(ctx, text)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(tokens)
	if err == nil {
		err = t.cache.Set(key, data, t.ttl)
	}
	if err != nil {
		t.logger.Warn("tagger cache write failed", zap.Error(err))
	}
	return tokens, nil
}

// HitRate reports how many calls were answered from the cache
func (t *Cached) HitRate() (hits, misses int64) {
	return t.hits.Load(), t.misses.Load()
}
