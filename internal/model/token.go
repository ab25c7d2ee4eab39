package model

import (
	"encoding/json"
	"fmt"
)

// Tag is a morphological (part-of-speech) tag assigned by the tagger
type Tag string

// Meaningful tags, using the Sejong/Kkma tag names
const (
	TagCommonNoun   Tag = "NNG" // 일반명사
	TagProperNoun   Tag = "NNP" // 고유명사
	TagVerb         Tag = "VV"  // 동사
	TagAdjective    Tag = "VA"  // 형용사
	TagAuxVerb      Tag = "VXV" // 보조동사
	TagAuxAdjective Tag = "VXA" // 보조형용사
)

// MeaningfulTags is the closed set of tags kept by the tokenizer
var MeaningfulTags = map[Tag]struct{}{
	TagCommonNoun:   {},
	TagProperNoun:   {},
	TagVerb:         {},
	TagAdjective:    {},
	TagAuxVerb:      {},
	TagAuxAdjective: {},
}

// IsMeaningful reports whether the tag belongs to MeaningfulTags
func (t Tag) IsMeaningful() bool {
	_, ok := MeaningfulTags[t]
	return ok
}

// Token is a (surface form, tag) pair.
// It serializes as a two-element JSON array: ["전쟁","NNG"].
type Token struct {
	Word string
	Tag  Tag
}

// MarshalJSON encodes the token as [word, tag]
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{t.Word, string(t.Tag)})
}

// UnmarshalJSON decodes a [word, tag] pair
func (t *Token) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("token: expected [word, tag], got %d elements", len(pair))
	}
	t.Word = pair[0]
	t.Tag = Tag(pair[1])
	return nil
}
