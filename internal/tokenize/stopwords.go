package tokenize

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrStopwordsMissing is returned when the stopword file cannot be found
var ErrStopwordsMissing = errors.New("stopword file not found")

// Stopwords is an exact-match word set
type Stopwords map[string]struct{}

// Contains reports whether word is a stopword
func (s Stopwords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// LoadStopwords reads a newline-delimited UTF-8 stopword file
func LoadStopwords(path string) (Stopwords, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrStopwordsMissing, path)
		}
		return nil, fmt.Errorf("open stopwords: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadStopwords(f)
}

// ReadStopwords builds a set from newline-delimited entries.
// Surrounding whitespace is trimmed and blank lines are ignored.
func ReadStopwords(r io.Reader) (Stopwords, error) {
	set := make(Stopwords)
	scan := bufio.NewScanner(r)
	for scan.Scan() {
		w := strings.TrimSpace(scan.Text())
		w = strings.TrimPrefix(w, "\ufeff")
		if w != "" {
			set[w] = struct{}{}
		}
	}
	if err := scan.Err(); err != nil {
		return nil, fmt.Errorf("read stopwords: %w", err)
	}
	return set, nil
}
