package tagger

import (
	"context"
	"fmt"
	"strings"

	"github.com/jdkato/prose/v2"

	"github.com/ppiankov/wordbias/internal/model"
)

// ProseTagger tags English text with prose's perceptron tagger.
// Penn Treebank tags are mapped onto the meaningful tag set; tags with no
// counterpart are passed through unchanged and later dropped by the filter.
type ProseTagger struct{}

// NewProseTagger creates an English tagger
func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

// Name returns the backend name
func (t *ProseTagger) Name() string {
	return "prose"
}

// Tag tokenizes and tags text
func (t *ProseTagger) Tag(ctx context.Context, text string) ([]model.Token, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text,
		prose.WithSegmentation(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, fmt.Errorf("prose: %w", err)
	}

	tokens := doc.Tokens()
	out := make([]model.Token, 0, len(tokens))
	for _, tok := range tokens {
		out = append(out, model.Token{
			Word: strings.ToLower(tok.Text),
			Tag:  mapPennTag(tok.Tag),
		})
	}
	return out, nil
}

// mapPennTag maps a Penn Treebank tag to the Sejong-style tag set
func mapPennTag(tag string) model.Tag {
	switch {
	case tag == "NNP" || tag == "NNPS":
		return model.TagProperNoun
	case tag == "NN" || tag == "NNS":
		return model.TagCommonNoun
	case strings.HasPrefix(tag, "VB"):
		return model.TagVerb
	case strings.HasPrefix(tag, "JJ"):
		return model.TagAdjective
	case tag == "MD":
		return model.TagAuxVerb
	default:
		return model.Tag(tag)
	}
}
