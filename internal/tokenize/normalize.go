package tokenize

import (
	"regexp"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/ppiankov/wordbias/internal/model"
)

var (
	// symbolPattern matches any single char that is not a letter, digit,
	// underscore or whitespace
	symbolPattern = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)
	digitPattern  = regexp.MustCompile(`\p{Nd}+`)
)

// Normalize prepares raw speech text for tagging: NFC composition, then every
// punctuation or symbol char and every digit run becomes a single space
func Normalize(text string) string {
	text = norm.NFC.String(text)
	text = symbolPattern.ReplaceAllString(text, " ")
	return digitPattern.ReplaceAllString(text, " ")
}

// Filter keeps tokens with a meaningful tag, at least two characters and
// not in the stopword set. Order is preserved.
func Filter(tokens []model.Token, stopwords Stopwords) []model.Token {
	out := make([]model.Token, 0, len(tokens))
	for _, tok := range tokens {
		if !tok.Tag.IsMeaningful() {
			continue
		}
		if utf8.RuneCountInString(tok.Word) <= 1 {
			continue
		}
		if stopwords.Contains(tok.Word) {
			continue
		}
		out = append(out, tok)
	}
	return out
}
