// Package tagger provides the morphological analysis capability used by the
// tokenizer. A Tagger turns normalized text into ordered (surface, tag)
// pairs covering the whole input; it may fail on any call.
package tagger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ppiankov/wordbias/internal/model"
)

// llmSystemPrompt instructs chat models to act as a Sejong-style tagger
const llmSystemPrompt = `You are a Korean morphological analyzer that follows the Sejong / Kkma tag set.
Split the user's text into morphemes and return ONLY a JSON array of [surface, tag] pairs, in input order, covering the whole text.
Use these tags where they apply: NNG (common noun), NNP (proper noun), VV (verb stem), VA (adjective stem), VXV (auxiliary verb), VXA (auxiliary adjective).
Use the standard Sejong tags (JKS, JX, EFN, ETD, ...) for all other morphemes.
Example: "전쟁은 나쁘다" -> [["전쟁","NNG"],["은","JX"],["나쁘","VA"],["다","EFN"]]`

// ErrMalformedResponse is returned when a backend reply cannot be decoded
var ErrMalformedResponse = errors.New("malformed tagger response")

// Tagger defines the interface for morphological analyzers
type Tagger interface {
	// Name identifies the backend (used in cache keys and logs)
	Name() string

	// Tag analyzes text and returns every morpheme with its tag
	Tag(ctx context.Context, text string) ([]model.Token, error)
}

// decodePairs parses a JSON array of [surface, tag] pairs
func decodePairs(data []byte) ([]model.Token, error) {
	var tokens []model.Token
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return tokens, nil
}

// extractJSONArray returns the outermost [...] span of an LLM reply,
// which may be wrapped in prose or a Markdown code fence
func extractJSONArray(reply string) (string, bool) {
	start := strings.Index(reply, "[")
	end := strings.LastIndex(reply, "]")
	if start < 0 || end < start {
		return "", false
	}
	return reply[start : end+1], true
}
