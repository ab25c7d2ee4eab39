package tagger

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/wordbias/internal/model"
)

// OpenAITagger asks an OpenAI-compatible chat model to tag text
type OpenAITagger struct {
	client *openai.Client
	model  string
}

// NewOpenAITagger creates an LLM-backed tagger
func NewOpenAITagger(apiKey, baseURL, model string, httpClient *http.Client) (*OpenAITagger, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}

	return &OpenAITagger{
		client: openai.NewClientWithConfig(clientConfig),
		model:  model,
	}, nil
}

// Name returns the backend name including the model, so cache entries are
// kept per model
func (t *OpenAITagger) Name() string {
	return "openai/" + t.model
}

// Tag requests a tagged morpheme list from the chat model
func (t *OpenAITagger) Tag(ctx context.Context, text string) ([]model.Token, error) {
	resp, err := t.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: llmSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		Temperature: math.SmallestNonzeroFloat32, // 0 is dropped by omitempty
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	array, ok := extractJSONArray(reply)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON array in reply", ErrMalformedResponse)
	}
	return decodePairs([]byte(array))
}
