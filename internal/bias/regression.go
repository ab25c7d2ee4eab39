package bias

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Fit is an ordinary least squares solution with intercept
type Fit struct {
	Coef      []float64
	Intercept float64
	RSquared  float64
}

// FitOLS regresses y on the columns of x with an intercept. X and y are
// centered and the minimum-norm least squares solution is taken from a thin
// SVD, so collinear or underdetermined systems (more words than speakers)
// still yield a unique answer.
func FitOLS(x mat.Matrix, y []float64) (*Fit, error) {
	n, p := x.Dims()
	if n != len(y) {
		return nil, errors.New("design matrix and target length differ")
	}
	if n == 0 || p == 0 {
		return nil, errors.New("empty design matrix")
	}

	means := make([]float64, p)
	xc := mat.NewDense(n, p, nil)
	for j := 0; j < p; j++ {
		col := mat.Col(nil, j, x)
		means[j] = stat.Mean(col, nil)
		floats.AddConst(-means[j], col)
		xc.SetCol(j, col)
	}

	yMean := stat.Mean(y, nil)
	yc := make([]float64, n)
	copy(yc, y)
	floats.AddConst(-yMean, yc)

	var svd mat.SVD
	if !svd.Factorize(xc, mat.SVDThin) {
		return nil, errors.New("SVD factorization failed")
	}

	coef := make([]float64, p)
	rcond := float64(max(n, p)) * eps
	if rank := svd.Rank(rcond); rank > 0 {
		var beta mat.VecDense
		svd.SolveVecTo(&beta, mat.NewVecDense(n, yc), rank)
		for j := range coef {
			coef[j] = beta.AtVec(j)
		}
	}

	fit := &Fit{
		Coef:      coef,
		Intercept: yMean - floats.Dot(means, coef),
	}
	fit.RSquared = rSquared(xc, yc, coef)
	return fit, nil
}

// eps is the float64 machine epsilon
var eps = math.Nextafter(1, 2) - 1

// rSquared computes 1 - SSres/SStot on centered data
func rSquared(xc *mat.Dense, yc, coef []float64) float64 {
	n, _ := xc.Dims()
	pred := mat.NewVecDense(n, nil)
	pred.MulVec(xc, mat.NewVecDense(len(coef), coef))

	var ssRes, ssTot float64
	for i, v := range yc {
		d := v - pred.AtVec(i)
		ssRes += d * d
		ssTot += v * v
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}
