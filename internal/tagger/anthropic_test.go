package tagger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestAnthropicTagger_Tag_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("Expected path /v1/messages, got %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header test-key, got %s", r.Header.Get("x-api-key"))
		}
		if r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("Expected anthropic-version header 2023-06-01, got %s", r.Header.Get("anthropic-version"))
		}

		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Messages[0].Content != "예산 심사" || req.System == "" {
			t.Errorf("Unexpected request: %+v", req)
		}

		resp := anthropicResponse{
			ID:         "msg_123",
			Model:      req.Model,
			StopReason: "end_turn",
			Content: []anthropicContent{
				{Type: "text", Text: `Here are the morphemes: [["예산","NNG"],["심사","NNG"]]`},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	tg, err := NewAnthropicTagger("test-key", server.URL, "", NewHTTPClient(5*time.Second, "", ""))
	if err != nil {
		t.Fatalf("Failed to create tagger: %v", err)
	}

	tokens, err := tg.Tag(context.Background(), "예산 심사")
	if err != nil {
		t.Fatalf("Tag failed: %v", err)
	}
	if len(tokens) != 2 || tokens[1].Word != "심사" {
		t.Errorf("Unexpected tokens: %v", tokens)
	}
}

func TestAnthropicTagger_Tag_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer server.Close()

	tg, _ := NewAnthropicTagger("bad-key", server.URL, "", nil)
	_, err := tg.Tag(context.Background(), "text")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "authentication_error") {
		t.Errorf("Expected error type in message, got: %v", err)
	}
}

func TestNewProxyFunc(t *testing.T) {
	proxy := newProxyFunc("http://proxy:3128", "http://secure-proxy:3128")

	req, _ := http.NewRequest(http.MethodGet, "https://api.anthropic.com/v1/messages", nil)
	u, err := proxy(req)
	if err != nil || u.Host != "secure-proxy:3128" {
		t.Errorf("https request proxied via %v (%v)", u, err)
	}

	req, _ = http.NewRequest(http.MethodGet, "http://localhost:8700/pos", nil)
	u, err = proxy(req)
	if err != nil || u.Host != "proxy:3128" {
		t.Errorf("http request proxied via %v (%v)", u, err)
	}
}
