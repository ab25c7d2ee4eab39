package tagger

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/wordbias/internal/cache"
	"github.com/ppiankov/wordbias/internal/model"
)

type countingTagger struct {
	calls int
	err   error
}

func (c *countingTagger) Name() string { return "counting" }

func (c *countingTagger) Tag(ctx context.Context, text string) ([]model.Token, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []model.Token{{Word: text, Tag: model.TagCommonNoun}}, nil
}

func TestCached_HitsSkipBackend(t *testing.T) {
	inner := &countingTagger{}
	tg := NewCached(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, zap.NewNop())

	for i := 0; i < 3; i++ {
		tokens, err := tg.Tag(context.Background(), "국민")
		if err != nil {
			t.Fatalf("Tag failed: %v", err)
		}
		if len(tokens) != 1 || tokens[0].Word != "국민" {
			t.Fatalf("Unexpected tokens: %v", tokens)
		}
	}
	if inner.calls != 1 {
		t.Errorf("Expected 1 backend call, got %d", inner.calls)
	}

	if _, err := tg.Tag(context.Background(), "예산"); err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("Expected a miss for different text, got %d calls", inner.calls)
	}
	if hits, misses := tg.HitRate(); hits != 2 || misses != 2 {
		t.Errorf("HitRate = %d/%d, want 2/2", hits, misses)
	}
}

func TestCached_DoesNotCacheErrors(t *testing.T) {
	inner := &countingTagger{err: errors.New("backend down")}
	tg := NewCached(inner, cache.NewMemoryCache(time.Minute, time.Minute), time.Minute, zap.NewNop())

	for i := 0; i < 2; i++ {
		if _, err := tg.Tag(context.Background(), "text"); err == nil {
			t.Fatal("Expected error")
		}
	}
	if inner.calls != 2 {
		t.Errorf("Expected errors to be retried, got %d calls", inner.calls)
	}
}

func TestThrottled_RespectsContext(t *testing.T) {
	inner := &countingTagger{}
	tg := NewThrottled(inner, 0.001, 1)

	// first call consumes the burst
	if _, err := tg.Tag(context.Background(), "a"); err != nil {
		t.Fatalf("Tag failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := tg.Tag(ctx, "b"); err == nil {
		t.Fatal("Expected rate limit wait to fail on deadline")
	}
	if inner.calls != 1 {
		t.Errorf("Expected 1 backend call, got %d", inner.calls)
	}
}

func TestNew_Providers(t *testing.T) {
	tests := []struct {
		name     string
		cfg      model.TaggerConfig
		wantName string
		wantErr  bool
	}{
		{"remote", model.TaggerConfig{Provider: "remote", BaseURL: "http://localhost:8700"}, "remote", false},
		{"kkma alias", model.TaggerConfig{Provider: "kkma", BaseURL: "http://localhost:8700"}, "remote", false},
		{"prose cached", model.TaggerConfig{Provider: "prose", CacheEnabled: true, Rate: 5}, "prose", false},
		{"openai", model.TaggerConfig{Provider: "openai", APIKey: "k", Model: "gpt-4o-mini"}, "openai/gpt-4o-mini", false},
		{"anthropic", model.TaggerConfig{Provider: "anthropic", APIKey: "k"}, "anthropic/claude-3-5-haiku-20241022", false},
		{"openai without key", model.TaggerConfig{Provider: "openai"}, "", true},
		{"unknown", model.TaggerConfig{Provider: "mecab"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tg, err := New(tt.cfg, zap.NewNop())
			if tt.wantErr {
				if err == nil {
					t.Fatal("Expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if tg.Name() != tt.wantName {
				t.Errorf("Expected name %s, got %s", tt.wantName, tg.Name())
			}
		})
	}
}

// unwrap strips the cache and throttle decorators
func unwrap(t Tagger) Tagger {
	for {
		switch d := t.(type) {
		case *Cached:
			t = d.next
		case *Throttled:
			t = d.next
		default:
			return t
		}
	}
}

func TestNew_DefaultConfigEndpoints(t *testing.T) {
	defaults := model.DefaultConfig().Tagger
	if defaults.BaseURL != "" {
		t.Fatalf("Default base URL should be empty so each provider picks its own, got %s", defaults.BaseURL)
	}

	cfg := defaults
	cfg.Provider = "anthropic"
	cfg.APIKey = "k"
	cfg.CacheDir = t.TempDir()
	tg, err := New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	a, ok := unwrap(tg).(*AnthropicTagger)
	if !ok {
		t.Fatalf("Expected *AnthropicTagger, got %T", unwrap(tg))
	}
	if a.baseURL != anthropicDefaultURL {
		t.Errorf("Expected %s, got %s", anthropicDefaultURL, a.baseURL)
	}

	cfg = defaults
	cfg.CacheDir = t.TempDir()
	tg, err = New(cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	r, ok := unwrap(tg).(*RemoteTagger)
	if !ok {
		t.Fatalf("Expected *RemoteTagger, got %T", unwrap(tg))
	}
	if r.baseURL != remoteDefaultURL {
		t.Errorf("Expected %s, got %s", remoteDefaultURL, r.baseURL)
	}
}
