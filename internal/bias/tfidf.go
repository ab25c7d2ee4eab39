package bias

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// IDF returns smoothed inverse document frequencies, one per column:
// ln((1+n)/(1+df)) + 1, where n is the number of rows and df the number of
// rows with a non-zero entry in the column
func IDF(m mat.Matrix) []float64 {
	rows, cols := m.Dims()
	idf := make([]float64, cols)
	for j := 0; j < cols; j++ {
		df := 0
		for i := 0; i < rows; i++ {
			if m.At(i, j) != 0 {
				df++
			}
		}
		idf[j] = math.Log(float64(1+rows)/float64(1+df)) + 1
	}
	return idf
}

// TFIDF scales every column by its IDF and then L2-normalizes every row,
// treating rows as documents and columns as terms. All-zero rows stay zero.
func TFIDF(m *mat.Dense) {
	rows, _ := m.Dims()
	idf := IDF(m)
	for i := 0; i < rows; i++ {
		row := m.RawRowView(i)
		floats.Mul(row, idf)
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}
}
