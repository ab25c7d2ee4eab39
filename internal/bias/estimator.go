// Package bias estimates a political bias score per word by regressing
// speakers' political coordinates on their TF-IDF weighted word usage.
package bias

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/ppiankov/wordbias/internal/model"
)

var (
	// ErrNoOverlap is returned when no speaker in the frequency data has a
	// political position
	ErrNoOverlap = errors.New("no speaker overlap between frequency data and positions")

	// ErrNoVocabulary is returned when no word meets the count threshold
	ErrNoVocabulary = errors.New("no word meets the minimum count threshold")
)

// Estimator is the third pipeline stage
type Estimator struct {
	minCount int
	logger   *zap.Logger
}

// NewEstimator creates an estimator keeping words with a global count of at
// least minWordCount
func NewEstimator(minWordCount int, logger *zap.Logger) *Estimator {
	return &Estimator{minCount: minWordCount, logger: logger}
}

// Estimate fits the word-bias model
func (e *Estimator) Estimate(facts []model.FrequencyFact, positions []model.PoliticalPosition) (*model.BiasModel, error) {
	// 1. Ratios, vocabulary and matrix
	m, err := BuildMatrix(facts, e.minCount)
	if err != nil {
		return nil, err
	}
	e.logger.Info("speaker-word matrix built",
		zap.Int("facts", len(facts)),
		zap.Int("speakers", len(m.Speakers)),
		zap.Int("words", len(m.Words)),
		zap.Int("min_word_count", e.minCount))

	// 2. Term weighting over every speaker in the frequency data
	TFIDF(m.Data)

	// 3. Inner join with positions
	x, y, err := e.join(m, positions)
	if err != nil {
		return nil, err
	}
	observations := len(y)
	e.logger.Info("joined positions", zap.Int("observations", observations))

	// 4. Regression
	fit, err := FitOLS(x, y)
	if err != nil {
		return nil, fmt.Errorf("fit regression: %w", err)
	}

	// 5. Ranking
	scores := make([]model.BiasScore, len(m.Words))
	for j, w := range m.Words {
		scores[j] = model.BiasScore{Word: w, Score: fit.Coef[j]}
	}
	Rank(scores)

	e.logger.Info("regression fitted",
		zap.Int("observations", observations),
		zap.Int("vocabulary", len(scores)),
		zap.Float64("intercept", fit.Intercept),
		zap.Float64("r_squared", fit.RSquared))

	return &model.BiasModel{
		Observations: observations,
		Vocabulary:   len(scores),
		Intercept:    fit.Intercept,
		RSquared:     fit.RSquared,
		Scores:       scores,
	}, nil
}

// join keeps the matrix rows whose speaker has a finite position. When a
// name appears more than once in positions the first entry wins.
func (e *Estimator) join(m *Matrix, positions []model.PoliticalPosition) (*mat.Dense, []float64, error) {
	coord := make(map[string]float64, len(positions))
	for _, p := range positions {
		if _, dup := coord[p.Name]; dup {
			e.logger.Warn("duplicate position entry ignored", zap.String("name", p.Name))
			continue
		}
		coord[p.Name] = p.Coord1D
	}

	var (
		rows []int
		y    []float64
	)
	for i, sp := range m.Speakers {
		if c, ok := coord[sp]; ok && !math.IsNaN(c) && !math.IsInf(c, 0) {
			rows = append(rows, i)
			y = append(y, c)
		}
	}
	if len(rows) == 0 {
		return nil, nil, ErrNoOverlap
	}
	if dropped := len(m.Speakers) - len(rows); dropped > 0 {
		e.logger.Warn("speakers without a position dropped", zap.Int("speakers", dropped))
	}

	x := mat.NewDense(len(rows), len(m.Words), nil)
	for k, i := range rows {
		x.SetRow(k, m.Data.RawRowView(i))
	}
	return x, y, nil
}

// Rank orders scores by descending absolute value, ties by word
func Rank(scores []model.BiasScore) {
	sort.SliceStable(scores, func(i, j int) bool {
		ai, aj := math.Abs(scores[i].Score), math.Abs(scores[j].Score)
		if ai != aj {
			return ai > aj
		}
		return scores[i].Word < scores[j].Word
	})
}
