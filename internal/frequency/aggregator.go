// Package frequency builds each speaker's (word, tag) usage profile from the
// tokenized speeches.
package frequency

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/wordbias/internal/model"
	"github.com/ppiankov/wordbias/internal/tokenize"
)

// FactStore is the part of the store the aggregator needs
type FactStore interface {
	Speakers(ctx context.Context) ([]model.Speaker, error)
	SpeakerTokenBlobs(ctx context.Context, speaker string, limit int) ([]string, error)
	ReplaceFrequencies(ctx context.Context, speaker string, facts []model.FrequencyFact) error
	TopWords(ctx context.Context, speaker string, n int) ([]model.WordCount, error)
}

// Stats summarizes an aggregation run
type Stats struct {
	Speakers     int
	Skipped      int // Speakers with no recoverable tokens
	CorruptBlobs int
	Facts        int
	Duration     time.Duration
}

// Aggregator is the second pipeline stage
type Aggregator struct {
	store  FactStore
	limit  int // Speeches per speaker, 0 = all
	logger *zap.Logger
}

// NewAggregator creates an aggregator stage
func NewAggregator(s FactStore, speechLimit int, logger *zap.Logger) *Aggregator {
	return &Aggregator{store: s, limit: speechLimit, logger: logger}
}

// Run recomputes the frequency profile of every speaker that has tokenized
// speeches and a known political position
func (a *Aggregator) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{}

	speakers, err := a.store.Speakers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list speakers: %w", err)
	}
	a.logger.Info("aggregating word frequencies", zap.Int("speakers", len(speakers)))

	for i, sp := range speakers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		blobs, err := a.store.SpeakerTokenBlobs(ctx, sp.Name, a.limit)
		if err != nil {
			return nil, err
		}

		counts, corrupt := Count(blobs)
		stats.CorruptBlobs += corrupt
		if corrupt > 0 {
			a.logger.Warn("skipped undecodable token blobs",
				zap.String("speaker", sp.Name),
				zap.Int("blobs", corrupt))
		}

		if len(counts) == 0 {
			stats.Skipped++
			a.logger.Info("no tokens for speaker, nothing to write",
				zap.String("speaker", sp.Name))
			continue
		}

		facts := Facts(sp, counts)
		if err := a.store.ReplaceFrequencies(ctx, sp.Name, facts); err != nil {
			return nil, fmt.Errorf("replace frequencies for %q: %w", sp.Name, err)
		}

		stats.Speakers++
		stats.Facts += len(facts)
		a.logger.Info("speaker aggregated",
			zap.Int("n", i+1),
			zap.Int("of", len(speakers)),
			zap.String("speaker", sp.Name),
			zap.String("party", sp.Party),
			zap.Int("words", len(facts)))
	}

	stats.Duration = time.Since(start)
	a.logger.Info("aggregation complete",
		zap.Int("speakers", stats.Speakers),
		zap.Int("skipped", stats.Skipped),
		zap.Int("facts", stats.Facts),
		zap.Duration("duration", stats.Duration))

	return stats, nil
}

// TopWords returns a speaker's n most frequent (word, tag) rows
func (a *Aggregator) TopWords(ctx context.Context, speaker string, n int) ([]model.WordCount, error) {
	if n <= 0 {
		n = 50
	}
	return a.store.TopWords(ctx, speaker, n)
}

// Count tallies (word, tag) occurrences over token blobs. Blobs that cannot
// be decoded are skipped and counted in corrupt.
func Count(blobs []string) (counts map[model.Token]int, corrupt int) {
	counts = make(map[model.Token]int)
	for _, blob := range blobs {
		tokens, err := tokenize.DecodeTokens(blob)
		if err != nil {
			corrupt++
			continue
		}
		for _, tok := range tokens {
			counts[tok]++
		}
	}
	return counts, corrupt
}

// Facts converts counts into fact rows ordered by word, then tag
func Facts(sp model.Speaker, counts map[model.Token]int) []model.FrequencyFact {
	facts := make([]model.FrequencyFact, 0, len(counts))
	for tok, n := range counts {
		facts = append(facts, model.FrequencyFact{
			MemberID: sp.MemberID,
			Speaker:  sp.Name,
			Party:    sp.Party,
			Word:     tok.Word,
			Tag:      tok.Tag,
			Count:    n,
		})
	}
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].Word != facts[j].Word {
			return facts[i].Word < facts[j].Word
		}
		return facts[i].Tag < facts[j].Tag
	})
	return facts
}
