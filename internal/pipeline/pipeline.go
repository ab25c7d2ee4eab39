package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/wordbias/internal/bias"
	"github.com/ppiankov/wordbias/internal/frequency"
	"github.com/ppiankov/wordbias/internal/model"
	"github.com/ppiankov/wordbias/internal/position"
	"github.com/ppiankov/wordbias/internal/store"
	"github.com/ppiankov/wordbias/internal/tagger"
	"github.com/ppiankov/wordbias/internal/tokenize"
)

// Pipeline runs the analysis stages against one store
type Pipeline struct {
	store  *store.Store
	config *model.Config
	logger *zap.Logger

	// newTagger is replaced in tests
	newTagger func(model.TaggerConfig, *zap.Logger) (tagger.Tagger, error)
}

// NewPipeline opens the store named in cfg
func NewPipeline(ctx context.Context, cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	s, err := store.Open(ctx, cfg.StorePath)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		store:     s,
		config:    cfg,
		logger:    logger,
		newTagger: tagger.New,
	}, nil
}

// Close releases the store
func (p *Pipeline) Close() error {
	return p.store.Close()
}

// Result collects the outcome of a full run
type Result struct {
	Tokenize  *tokenize.Stats
	Aggregate *frequency.Stats
	Model     *model.BiasModel
	Duration  time.Duration
}

// Tokenize runs the tokenizer stage
func (p *Pipeline) Tokenize(ctx context.Context, retokenize bool) (*tokenize.Stats, error) {
	// Resources first: nothing is written if they are missing
	stopwords, err := tokenize.LoadStopwords(p.config.StopwordPath)
	if err != nil {
		return nil, err
	}
	p.logger.Info("stopwords loaded", zap.Int("count", len(stopwords)))

	t, err := p.newTagger(p.config.Tagger, p.logger)
	if err != nil {
		return nil, fmt.Errorf("create tagger: %w", err)
	}

	tk := tokenize.NewTokenizer(p.store, t, stopwords, tokenize.Options{
		ChunkSize:   p.config.ChunkSize,
		RecordLimit: p.config.RecordLimit,
		Retokenize:  retokenize,
	}, p.logger.With(zap.String("stage", "tokenize"), zap.String("tagger", t.Name())))

	stats, err := tk.Run(ctx)
	if c, ok := t.(interface{ HitRate() (int64, int64) }); ok {
		hits, misses := c.HitRate()
		p.logger.Info("tagger cache", zap.Int64("hits", hits), zap.Int64("misses", misses))
	}
	return stats, err
}

// Aggregate runs the frequency aggregation stage
func (p *Pipeline) Aggregate(ctx context.Context) (*frequency.Stats, error) {
	agg := frequency.NewAggregator(p.store, p.config.RecordLimit, p.logger.With(zap.String("stage", "aggregate")))
	return agg.Run(ctx)
}

// Estimate fits the bias model and writes the ranked scores to the output
// path. The file is only created when the whole computation succeeds.
func (p *Pipeline) Estimate(ctx context.Context) (*model.BiasModel, error) {
	logger := p.logger.With(zap.String("stage", "estimate"))

	// 1. Reference data
	positions, err := position.Load(p.config.PositionsPath, logger)
	if err != nil {
		return nil, err
	}
	logger.Info("positions loaded", zap.Int("members", len(positions)))

	// 2. Frequency facts
	facts, err := p.store.Frequencies(ctx)
	if err != nil {
		return nil, err
	}

	// 3. Model
	m, err := bias.NewEstimator(p.config.MinWordCount, logger).Estimate(facts, positions)
	if err != nil {
		return nil, err
	}

	// 4. Export
	if err := bias.WriteCSV(p.config.OutputPath, m.Scores); err != nil {
		return nil, err
	}
	logger.Info("bias scores written",
		zap.String("path", p.config.OutputPath),
		zap.Int("words", len(m.Scores)))

	return m, nil
}

// Run executes tokenize, aggregate and estimate in order
func (p *Pipeline) Run(ctx context.Context, retokenize bool) (*Result, error) {
	start := time.Now()
	res := &Result{}
	var err error

	if res.Tokenize, err = p.Tokenize(ctx, retokenize); err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	if res.Aggregate, err = p.Aggregate(ctx); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}
	if res.Model, err = p.Estimate(ctx); err != nil {
		return nil, fmt.Errorf("estimate: %w", err)
	}

	res.Duration = time.Since(start)
	return res, nil
}

// TopWords returns a speaker's most frequent (word, tag) rows
func (p *Pipeline) TopWords(ctx context.Context, speaker string, n int) ([]model.WordCount, error) {
	agg := frequency.NewAggregator(p.store, 0, p.logger)
	return agg.TopWords(ctx, speaker, n)
}

// ImportPositions replaces the store's position table with the CSV at path
func (p *Pipeline) ImportPositions(ctx context.Context, path string) (int, error) {
	positions, err := position.Load(path, p.logger)
	if err != nil {
		return 0, err
	}
	if err := p.store.ReplacePositions(ctx, positions); err != nil {
		return 0, err
	}
	p.logger.Info("positions imported", zap.String("path", path), zap.Int("members", len(positions)))
	return len(positions), nil
}

// Positions lists the imported position table
func (p *Pipeline) Positions(ctx context.Context) ([]model.PoliticalPosition, error) {
	return p.store.Positions(ctx)
}
