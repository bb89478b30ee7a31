package pcc

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PierreFrn/hwsec/internal/hwsecerr"
)

func randSample(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = rng.Float64()*10 - 5
	}
	return xs
}

func TestScalarRange(t *testing.T) {
	x := randSample(200, 1)
	y := randSample(200, 2)
	got, err := Scalar(x, y)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got, -1.0)
	assert.LessOrEqual(t, got, 1.0)
}

func TestScalarSymmetry(t *testing.T) {
	x := randSample(100, 3)
	y := randSample(100, 4)
	xy, err := Scalar(x, y)
	require.NoError(t, err)
	yx, err := Scalar(y, x)
	require.NoError(t, err)
	assert.InDelta(t, xy, yx, 1e-12)
}

func TestAffineInvariance(t *testing.T) {
	x := randSample(150, 5)
	y := randSample(150, 6)
	base, err := Scalar(x, y)
	require.NoError(t, err)

	ax := make([]float64, len(x))
	for i, v := range x {
		ax[i] = 2.5*v + 3
	}
	cy := make([]float64, len(y))
	for i, v := range y {
		cy[i] = 4*v - 1
	}
	scaled, err := Scalar(ax, cy)
	require.NoError(t, err)
	assert.InDelta(t, base, scaled, 1e-9)

	negX := make([]float64, len(x))
	for i, v := range x {
		negX[i] = -1.5*v + 3
	}
	flipped, err := Scalar(negX, y)
	require.NoError(t, err)
	assert.InDelta(t, -base, flipped, 1e-9)
}

func TestInvalidSampleZeroVariance(t *testing.T) {
	x := make([]float64, 50)
	for i := range x {
		x[i] = 1.0
	}
	y := randSample(50, 7)
	_, err := Scalar(x, y)
	require.Error(t, err)
	assert.True(t, hwsecerr.Is(err, hwsecerr.InvalidSample))
}

func TestShapeMismatch(t *testing.T) {
	x := randSample(10, 8)
	y := randSample(11, 9)
	_, err := Scalar(x, y)
	require.Error(t, err)
	assert.True(t, hwsecerr.Is(err, hwsecerr.ShapeMismatch))
}

func TestBadInputTooFewSamples(t *testing.T) {
	_, err := Scalar([]float64{1}, []float64{2})
	require.Error(t, err)
	assert.True(t, hwsecerr.Is(err, hwsecerr.BadInput))
}

func TestVectorReduceMatchesScalar(t *testing.T) {
	const n, l = 100, 5
	x := make([][]float64, n)
	for i := 0; i < n; i++ {
		x[i] = randSample(l, uint64(1000+i))
	}
	y := randSample(n, 42)

	got, err := VectorReduce(x, y)
	require.NoError(t, err)
	require.Len(t, got, l)

	for col := 0; col < l; col++ {
		colX := make([]float64, n)
		for i := 0; i < n; i++ {
			colX[i] = x[i][col]
		}
		want, err := Scalar(colX, y)
		require.NoError(t, err)
		assert.InDelta(t, want, got[col], 1e-9)
	}
}

func TestBatchMatchesScalar(t *testing.T) {
	const n, k = 1000, 32
	x := randSample(n, 55)
	y := make([][]float64, k)
	for i := 0; i < k; i++ {
		y[i] = randSample(n, uint64(2000+i))
	}

	got, err := Batch(x, y)
	require.NoError(t, err)
	require.Len(t, got, k)

	for i := 0; i < k; i++ {
		want, err := Scalar(x, y[i])
		require.NoError(t, err)
		assert.InDelta(t, want, got[i], 1e-12)
	}
}

func TestMatrixMatchesScalar(t *testing.T) {
	const n, l, k = 80, 6, 10
	x := make([][]float64, n)
	for i := 0; i < n; i++ {
		x[i] = randSample(l, uint64(3000+i))
	}
	y := make([][]float64, k)
	for i := 0; i < k; i++ {
		y[i] = randSample(n, uint64(4000+i))
	}

	got, err := Matrix(x, y)
	require.NoError(t, err)
	require.Len(t, got, k)
	require.Len(t, got[0], l)

	for ki := 0; ki < k; ki++ {
		for li := 0; li < l; li++ {
			colX := make([]float64, n)
			for i := 0; i < n; i++ {
				colX[i] = x[i][li]
			}
			want, err := Scalar(colX, y[ki])
			require.NoError(t, err)
			assert.InDelta(t, want, got[ki][li], 1e-9)
		}
	}
}

func TestMatrixShapeMismatch(t *testing.T) {
	x := [][]float64{{1, 2}, {3, 4}}
	y := [][]float64{{1, 2, 3}}
	_, err := Matrix(x, y)
	require.Error(t, err)
	assert.True(t, hwsecerr.Is(err, hwsecerr.ShapeMismatch))
}

func TestScalarNotNaN(t *testing.T) {
	x := randSample(10, 99)
	y := randSample(10, 100)
	got, err := Scalar(x, y)
	require.NoError(t, err)
	assert.False(t, math.IsNaN(got))
}
