package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

func TestEvaluate(t *testing.T) {
	yTrue := mat.NewVecDense(4, []float64{1.0, 2.0, 3.0, 4.0})
	yPred := mat.NewVecDense(4, []float64{1.5, 2.5, 2.5, 3.5})

	report, err := Evaluate(yTrue, yPred)
	require.NoError(t, err)

	assert.InDelta(t, 0.25, report.MSE, 1e-12)
	assert.InDelta(t, 0.5, report.RMSE, 1e-12)
	assert.InDelta(t, 0.5, report.MAE, 1e-12)
	assert.InDelta(t, 1-1.0/5.0, report.R2, 1e-12)
	assert.Equal(t, 4, report.N)
	// (1/2 + 1/4 + 1/6 + 1/8) / 4 * 100
	assert.InDelta(t, (0.5+0.25+1.0/6+0.125)/4*100, report.MAPE, 1e-9)
}

func TestEvaluateR2Bounds(t *testing.T) {
	yTrue := mat.NewVecDense(6, []float64{3, 1, 4, 1, 5, 9})
	for _, yPred := range []*mat.VecDense{
		mat.NewVecDense(6, []float64{3, 1, 4, 1, 5, 9}),
		mat.NewVecDense(6, []float64{2, 2, 4, 2, 5, 8}),
		mat.NewVecDense(6, []float64{9, 5, 1, 4, 1, 3}),
	} {
		report, err := Evaluate(yTrue, yPred)
		require.NoError(t, err)
		assert.LessOrEqual(t, report.R2, 1.0)
		assert.GreaterOrEqual(t, report.MSE, 0.0)
	}
}

func TestEvaluateErrors(t *testing.T) {
	t.Run("constant target", func(t *testing.T) {
		_, err := Evaluate(mat.NewVecDense(3, []float64{5, 5, 5}), mat.NewVecDense(3, []float64{5, 5, 5}))
		var undefined *errors.UndefinedMetricError
		require.True(t, errors.As(err, &undefined))
		assert.Equal(t, "r2", undefined.Metric)
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := Evaluate(mat.NewVecDense(3, []float64{1, 2, 3}), mat.NewVecDense(2, []float64{1, 2}))
		var dimErr *errors.DimensionError
		assert.True(t, errors.As(err, &dimErr))
	})
}
