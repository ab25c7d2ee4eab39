package tagger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ppiankov/wordbias/internal/model"
)

const (
	anthropicDefaultURL   = "https://api.anthropic.com"
	anthropicDefaultModel = "claude-3-5-haiku-20241022"
	anthropicVersion      = "2023-06-01"
	anthropicMaxTokens    = 8192
)

// AnthropicTagger asks a Claude model, through the Messages API, to tag text
type AnthropicTagger struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Anthropic API structures
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicResponse struct {
	ID         string             `json:"id"`
	Content    []anthropicContent `json:"content"`
	Model      string             `json:"model"`
	StopReason string             `json:"stop_reason"`
}

type anthropicError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewAnthropicTagger creates a Claude-backed tagger
func NewAnthropicTagger(apiKey, baseURL, model string, httpClient *http.Client) (*AnthropicTagger, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	if baseURL == "" {
		baseURL = anthropicDefaultURL
	}
	if model == "" {
		model = anthropicDefaultModel
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(0, "", "")
	}

	return &AnthropicTagger{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		model:      model,
		httpClient: httpClient,
	}, nil
}

// Name returns the backend name including the model
func (t *AnthropicTagger) Name() string {
	return "anthropic/" + t.model
}

// Tag requests a tagged morpheme list from the Messages API
func (t *AnthropicTagger) Tag(ctx context.Context, text string) ([]model.Token, error) {
	resp, err := t.makeRequest(ctx, anthropicRequest{
		Model:     t.model,
		MaxTokens: anthropicMaxTokens,
		System:    llmSystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("Anthropic API error: %w", err)
	}
	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no content in Anthropic response")
	}
	if resp.StopReason == "max_tokens" {
		return nil, fmt.Errorf("%w: reply truncated at %d tokens", ErrMalformedResponse, anthropicMaxTokens)
	}

	array, ok := extractJSONArray(resp.Content[0].Text)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON array in reply", ErrMalformedResponse)
	}
	return decodePairs([]byte(array))
}

// makeRequest makes an HTTP request to the Anthropic API
func (t *AnthropicTagger) makeRequest(ctx context.Context, apiReq anthropicRequest) (*anthropicResponse, error) {
	body, err := json.Marshal(apiReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", t.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	httpResp, err := t.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		var apiErr anthropicError
		if err := json.Unmarshal(respBody, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s - %s", httpResp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", httpResp.StatusCode, string(respBody))
	}

	var resp anthropicResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &resp, nil
}
