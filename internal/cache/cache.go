// Package cache stores morphological analysis results so that re-running the
// tokenizer over an unchanged corpus does not call the tagger again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

const keyPrefix = "wordbias:v1:"

// Key derives a cache key from a tagger identity and the analyzed text
func Key(tagger, text string) string {
	h := sha256.New()
	h.Write([]byte(tagger))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}
