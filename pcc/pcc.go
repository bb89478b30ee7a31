// Package pcc estimates the Pearson Correlation Coefficient between
// hypothetical leakage and observed side-channel samples, in the four
// shapes the ranker and re-scorer need: scalar-scalar, scalar-batch,
// vector-scalar and vector-batch. The first three call
// gonum/stat.Correlation; the vector-batch form is built on gonum/mat so
// that a windowed power trace (N x L) can be scored against many key
// hypotheses (K x N) in one matrix multiply, the same building
// block the teacher's differential-power attack uses for its windowed
// difference-of-means.
package pcc

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/PierreFrn/hwsec/internal/hwsecerr"
)

// Scalar computes PCC(X, Y) for two samples of equal length N >= 2.
func Scalar(x, y []float64) (float64, error) {
	if err := checkSampleSize(len(x)); err != nil {
		return 0, err
	}
	if len(y) != len(x) {
		return 0, hwsecerr.New(hwsecerr.ShapeMismatch, "len(Y)=%d, want %d", len(y), len(x))
	}
	if err := checkVariance(x); err != nil {
		return 0, err
	}
	if err := checkVariance(y); err != nil {
		return 0, err
	}
	return stat.Correlation(x, y, nil), nil
}

// Batch computes PCC(X, Yk) for every row of Y, X shape N, Y shape K x N.
func Batch(x []float64, y [][]float64) ([]float64, error) {
	if err := checkSampleSize(len(x)); err != nil {
		return nil, err
	}
	if err := checkVariance(x); err != nil {
		return nil, err
	}
	out := make([]float64, len(y))
	for k, row := range y {
		if len(row) != len(x) {
			return nil, hwsecerr.New(hwsecerr.ShapeMismatch, "Y[%d] has length %d, want %d", k, len(row), len(x))
		}
		if err := checkVariance(row); err != nil {
			return nil, err
		}
		out[k] = stat.Correlation(x, row, nil)
	}
	return out, nil
}

// VectorReduce computes, for X shape N x L and Y shape N, the L
// component-wise PCC values PCC(X[:,l], Y).
func VectorReduce(x [][]float64, y []float64) ([]float64, error) {
	n := len(x)
	if err := checkSampleSize(n); err != nil {
		return nil, err
	}
	if len(y) != n {
		return nil, hwsecerr.New(hwsecerr.ShapeMismatch, "len(Y)=%d, want %d", len(y), n)
	}
	l, err := uniformRowLength(x)
	if err != nil {
		return nil, err
	}
	if err := checkVariance(y); err != nil {
		return nil, err
	}
	out := make([]float64, l)
	col := make([]float64, n)
	for j := 0; j < l; j++ {
		for i := 0; i < n; i++ {
			col[i] = x[i][j]
		}
		if err := checkVariance(col); err != nil {
			return nil, err
		}
		out[j] = stat.Correlation(col, y, nil)
	}
	return out, nil
}

// Matrix computes, for X shape N x L and Y shape K x N, the K x L matrix
// of PCC(X[:,l], Yk): L candidate time samples (the focus window) scored
// against K key hypotheses at once. The PA ranker and re-scorer do not
// call it; they call VectorReduce once per hypothesis.
func Matrix(x [][]float64, y [][]float64) ([][]float64, error) {
	n := len(x)
	if err := checkSampleSize(n); err != nil {
		return nil, err
	}
	l, err := uniformRowLength(x)
	if err != nil {
		return nil, err
	}
	k := len(y)
	for i, row := range y {
		if len(row) != n {
			return nil, hwsecerr.New(hwsecerr.ShapeMismatch, "Y[%d] has length %d, want %d", i, len(row), n)
		}
	}

	xd := mat.NewDense(n, l, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < l; j++ {
			xd.Set(i, j, x[i][j])
		}
	}
	yd := mat.NewDense(k, n, nil)
	for i := 0; i < k; i++ {
		for j := 0; j < n; j++ {
			yd.Set(i, j, y[i][j])
		}
	}

	sumX := make([]float64, l)
	sumX2 := make([]float64, l)
	for j := 0; j < l; j++ {
		col := mat.Col(nil, j, xd)
		for _, v := range col {
			sumX[j] += v
			sumX2[j] += v * v
		}
	}
	stdX := make([]float64, l)
	for j := 0; j < l; j++ {
		v := float64(n)*sumX2[j] - sumX[j]*sumX[j]
		if v <= 0 {
			return nil, hwsecerr.New(hwsecerr.InvalidSample, "variance(X[:,%d])=0", j)
		}
		stdX[j] = math.Sqrt(v)
	}

	sumY := make([]float64, k)
	sumY2 := make([]float64, k)
	for i := 0; i < k; i++ {
		row := mat.Row(nil, i, yd)
		for _, v := range row {
			sumY[i] += v
			sumY2[i] += v * v
		}
	}
	stdY := make([]float64, k)
	for i := 0; i < k; i++ {
		v := float64(n)*sumY2[i] - sumY[i]*sumY[i]
		if v <= 0 {
			return nil, hwsecerr.New(hwsecerr.InvalidSample, "variance(Y[%d])=0", i)
		}
		stdY[i] = math.Sqrt(v)
	}

	// sumXY is the K x L matrix of raw cross-sums: sumXY[k][l] =
	// sum_i X[i][l]*Y[k][i]. This is a single Y * X matrix product.
	var sumXY mat.Dense
	sumXY.Mul(yd, xd)

	out := make([][]float64, k)
	for i := 0; i < k; i++ {
		out[i] = make([]float64, l)
		for j := 0; j < l; j++ {
			num := float64(n)*sumXY.At(i, j) - sumX[j]*sumY[i]
			out[i][j] = num / (stdX[j] * stdY[i])
		}
	}
	return out, nil
}

func checkSampleSize(n int) error {
	if n < 2 {
		return hwsecerr.New(hwsecerr.BadInput, "sample size %d is below the minimum of 2", n)
	}
	return nil
}

func uniformRowLength(x [][]float64) (int, error) {
	if len(x) == 0 {
		return 0, hwsecerr.New(hwsecerr.BadInput, "empty sample")
	}
	l := len(x[0])
	for i, row := range x {
		if len(row) != l {
			return 0, hwsecerr.New(hwsecerr.ShapeMismatch, "X[%d] has length %d, want %d", i, len(row), l)
		}
	}
	return l, nil
}

func checkVariance(s []float64) error {
	n := len(s)
	var sum, sum2 float64
	for _, v := range s {
		sum += v
		sum2 += v * v
	}
	if float64(n)*sum2-sum*sum <= 0 {
		return hwsecerr.New(hwsecerr.InvalidSample, "variance=0 over %d samples", n)
	}
	return nil
}
