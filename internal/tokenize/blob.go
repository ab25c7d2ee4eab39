package tokenize

import (
	"encoding/json"
	"fmt"

	"github.com/ppiankov/wordbias/internal/model"
)

// EncodeTokens serializes tokens as a JSON array of [word, tag] pairs.
// An empty sequence encodes as "[]".
func EncodeTokens(tokens []model.Token) (string, error) {
	if tokens == nil {
		tokens = []model.Token{}
	}
	data, err := json.Marshal(tokens)
	if err != nil {
		return "", fmt.Errorf("encode tokens: %w", err)
	}
	return string(data), nil
}

// DecodeTokens parses a stored token blob
func DecodeTokens(blob string) ([]model.Token, error) {
	var tokens []model.Token
	if err := json.Unmarshal([]byte(blob), &tokens); err != nil {
		return nil, fmt.Errorf("decode tokens: %w", err)
	}
	return tokens, nil
}
