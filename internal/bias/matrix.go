package bias

import (
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/ppiankov/wordbias/internal/model"
)

// Matrix is a dense speaker×word matrix. Rows follow Speakers, columns
// follow Words; both are sorted.
type Matrix struct {
	Speakers []string
	Words    []string
	Data     *mat.Dense
}

// Ratios computes count / speaker_total for every fact, keyed by speaker
// and word. Totals include all of the speaker's words, before any vocabulary
// filtering. Facts for the same word under different tags are summed.
func Ratios(facts []model.FrequencyFact) map[string]map[string]float64 {
	totals := make(map[string]int)
	for _, f := range facts {
		totals[f.Speaker] += f.Count
	}

	ratios := make(map[string]map[string]float64, len(totals))
	for _, f := range facts {
		total := totals[f.Speaker]
		if total == 0 {
			continue
		}
		row, ok := ratios[f.Speaker]
		if !ok {
			row = make(map[string]float64)
			ratios[f.Speaker] = row
		}
		row[f.Word] += float64(f.Count) / float64(total)
	}
	return ratios
}

// Vocabulary returns, in sorted order, the words whose global count summed
// over all speakers and tags is at least minCount
func Vocabulary(facts []model.FrequencyFact, minCount int) []string {
	global := make(map[string]int)
	for _, f := range facts {
		global[f.Word] += f.Count
	}

	var words []string
	for w, n := range global {
		if n >= minCount {
			words = append(words, w)
		}
	}
	sort.Strings(words)
	return words
}

// BuildMatrix lays the ratios of the retained words out as a dense matrix.
// Speakers that use none of the retained words get no row. Returns
// ErrNoVocabulary when no word meets the threshold.
func BuildMatrix(facts []model.FrequencyFact, minCount int) (*Matrix, error) {
	words := Vocabulary(facts, minCount)
	if len(words) == 0 {
		return nil, ErrNoVocabulary
	}
	column := make(map[string]int, len(words))
	for j, w := range words {
		column[w] = j
	}

	ratios := Ratios(facts)
	var speakers []string
	for sp, row := range ratios {
		for w := range row {
			if _, ok := column[w]; ok {
				speakers = append(speakers, sp)
				break
			}
		}
	}
	sort.Strings(speakers)

	data := mat.NewDense(len(speakers), len(words), nil)
	for i, sp := range speakers {
		for w, r := range ratios[sp] {
			if j, ok := column[w]; ok {
				data.Set(i, j, r)
			}
		}
	}

	return &Matrix{Speakers: speakers, Words: words, Data: data}, nil
}
