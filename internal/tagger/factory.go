package tagger

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/wordbias/internal/cache"
	"github.com/ppiankov/wordbias/internal/model"
)

// New builds the configured tagger with throttling and caching applied
func New(cfg model.TaggerConfig, logger *zap.Logger) (Tagger, error) {
	var (
		base Tagger
		err  error
	)

	httpClient := NewHTTPClient(cfg.Timeout, cfg.HTTPProxy, cfg.HTTPSProxy)

	switch strings.ToLower(cfg.Provider) {
	case "remote", "kkma":
		base, err = NewRemoteTagger(cfg.BaseURL, httpClient)
	case "openai":
		base, err = NewOpenAITagger(cfg.APIKey, cfg.BaseURL, cfg.Model, httpClient)
	case "anthropic", "claude":
		base, err = NewAnthropicTagger(cfg.APIKey, cfg.BaseURL, cfg.Model, httpClient)
	case "prose":
		base = NewProseTagger()
	default:
		return nil, fmt.Errorf("unknown tagger provider: %s (supported: remote, openai, anthropic, prose)", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}

	var t Tagger = base
	if cfg.Rate > 0 {
		t = NewThrottled(t, cfg.Rate, cfg.Burst)
	}
	if cfg.CacheEnabled {
		c := cache.NewLayeredCache(time.Hour, cfg.CacheDir, cfg.CacheTTL)
		t = NewCached(t, c, cfg.CacheTTL, logger)
	}
	return t, nil
}
