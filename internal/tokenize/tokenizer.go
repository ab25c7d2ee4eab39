// Package tokenize turns raw speech text into filtered (word, tag) sequences
// and persists them on each speech row.
package tokenize

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/wordbias/internal/model"
	"github.com/ppiankov/wordbias/internal/store"
	"github.com/ppiankov/wordbias/internal/tagger"
)

// SpeechStore is the part of the store the tokenizer needs
type SpeechStore interface {
	EnsureTokensColumn(ctx context.Context) error
	NextSpeeches(ctx context.Context, afterID int64, limit int, pendingOnly bool) ([]model.SpeechRecord, error)
	UpdateTokens(ctx context.Context, updates []store.TokenUpdate) error
}

// Options tunes a tokenizer run
type Options struct {
	ChunkSize   int  // Speeches per read/write batch
	RecordLimit int  // 0 = no limit
	Retokenize  bool // Process every speech, not only untokenized ones
}

// Stats summarizes a tokenizer run
type Stats struct {
	Records     int
	Blank       int
	TagFailures int
	Tokens      int
	Duration    time.Duration
}

// Tokenizer is the first pipeline stage
type Tokenizer struct {
	store     SpeechStore
	tagger    tagger.Tagger
	stopwords Stopwords
	opts      Options
	logger    *zap.Logger
}

// NewTokenizer creates a tokenizer stage
func NewTokenizer(s SpeechStore, t tagger.Tagger, stopwords Stopwords, opts Options, logger *zap.Logger) *Tokenizer {
	if opts.ChunkSize <= 0 {
		opts.ChunkSize = 1000
	}
	return &Tokenizer{
		store:     s,
		tagger:    t,
		stopwords: stopwords,
		opts:      opts,
		logger:    logger,
	}
}

// Run streams speeches in chunks, tags and filters each and writes the
// token blobs back one transaction per chunk
func (t *Tokenizer) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	if err := t.store.EnsureTokensColumn(ctx); err != nil {
		if !errors.Is(err, store.ErrDuplicateColumn) {
			return nil, fmt.Errorf("prepare tokens column: %w", err)
		}
		t.logger.Debug("tokens column already present")
	}

	pendingOnly := !t.opts.Retokenize
	var lastID int64
	for {
		size := t.opts.ChunkSize
		if t.opts.RecordLimit > 0 {
			remaining := t.opts.RecordLimit - stats.Records
			if remaining <= 0 {
				break
			}
			if remaining < size {
				size = remaining
			}
		}

		chunk, err := t.store.NextSpeeches(ctx, lastID, size, pendingOnly)
		if err != nil {
			return nil, fmt.Errorf("read speeches: %w", err)
		}
		if len(chunk) == 0 {
			break
		}

		t.logger.Info("processing speeches",
			zap.Int("from", stats.Records),
			zap.Int("to", stats.Records+len(chunk)))

		updates := make([]store.TokenUpdate, 0, len(chunk))
		for _, rec := range chunk {
			tokens, err := t.tokenize(ctx, rec, stats)
			if err != nil {
				return nil, err
			}
			blob, err := EncodeTokens(tokens)
			if err != nil {
				return nil, err
			}
			updates = append(updates, store.TokenUpdate{ID: rec.ID, Tokens: blob})
			stats.Tokens += len(tokens)
		}

		if err := t.store.UpdateTokens(ctx, updates); err != nil {
			return nil, fmt.Errorf("write tokens: %w", err)
		}

		stats.Records += len(chunk)
		lastID = chunk[len(chunk)-1].ID
	}

	stats.Duration = time.Since(start)
	t.logger.Info("tokenization complete",
		zap.Int("records", stats.Records),
		zap.Int("blank", stats.Blank),
		zap.Int("tag_failures", stats.TagFailures),
		zap.Int("tokens", stats.Tokens),
		zap.Duration("duration", stats.Duration))

	return stats, nil
}

// tokenize produces the filtered tokens of one speech. A tagger failure
// yields an empty sequence; only context cancellation is returned.
func (t *Tokenizer) tokenize(ctx context.Context, rec model.SpeechRecord, stats *Stats) ([]model.Token, error) {
	if rec.IsBlank() {
		stats.Blank++
		return nil, nil
	}

	tagged, err := t.tagger.Tag(ctx, Normalize(rec.Text()))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		stats.TagFailures++
		t.logger.Warn("tagging failed, storing empty token list",
			zap.Int64("speech_id", rec.ID),
			zap.String("tagger", t.tagger.Name()),
			zap.Error(err))
		return nil, nil
	}

	return Filter(tagged, t.stopwords), nil
}
