package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// checkPair は2つのベクトルが空でなく同じ長さであることを検証する
func checkPair(op string, yTrue, yPred mat.Vector) (int, error) {
	n := yTrue.Len()
	if n == 0 {
		return 0, errors.NewValueError(op, "empty vector")
	}
	if yPred.Len() != n {
		return 0, errors.NewDimensionError(op, n, yPred.Len(), 0)
	}
	return n, nil
}

// MSE は平均二乗誤差（Mean Squared Error）を計算する
func MSE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MSE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MSE = (1/n) * Σ(yTrue - yPred)²
	var sum float64
	for i := 0; i < n; i++ {
		diff := yTrue.AtVec(i) - yPred.AtVec(i)
		sum += diff * diff
	}

	return sum / float64(n), nil
}

// RMSE は平方根平均二乗誤差（Root Mean Squared Error）を計算する
func RMSE(yTrue, yPred mat.Vector) (float64, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(mse), nil
}

// MAE は平均絶対誤差（Mean Absolute Error）を計算する
func MAE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MAE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MAE = (1/n) * Σ|yTrue - yPred|
	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(yTrue.AtVec(i) - yPred.AtVec(i))
	}

	return sum / float64(n), nil
}

// R2Score は決定係数（R²）を計算する
//
// yTrue の分散が0の場合、R²は定義されないため UndefinedMetricError を返す
func R2Score(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("R2Score", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	values := make([]float64, n)
	for i := range values {
		values[i] = yTrue.AtVec(i)
	}
	yMean := floats.Sum(values) / float64(n)

	// 全変動（TSS）と残差変動（RSS）を計算
	var tss, rss float64
	for i := 0; i < n; i++ {
		yTrueVal := values[i]
		yPredVal := yPred.AtVec(i)

		tss += (yTrueVal - yMean) * (yTrueVal - yMean)
		rss += (yTrueVal - yPredVal) * (yTrueVal - yPredVal)
	}

	if tss == 0 {
		return 0, errors.NewUndefinedMetricError("r2", "total sum of squares is zero (no variance in yTrue)")
	}

	// R² = 1 - RSS/TSS
	return 1 - rss/tss, nil
}

// MAPE は平均絶対パーセンテージ誤差を計算する
// yTrue が0の要素は計算から除外する
func MAPE(yTrue, yPred mat.Vector) (float64, error) {
	n, err := checkPair("MAPE", yTrue, yPred)
	if err != nil {
		return 0, err
	}

	// MAPE = (100/n) * Σ|yTrue - yPred|/|yTrue|
	var sum float64
	validCount := 0

	for i := 0; i < n; i++ {
		yTrueVal := yTrue.AtVec(i)
		if yTrueVal != 0 { // ゼロ除算を避ける
			sum += math.Abs(yTrueVal-yPred.AtVec(i)) / math.Abs(yTrueVal)
			validCount++
		}
	}

	if validCount == 0 {
		return 0, errors.NewUndefinedMetricError("mape", "all yTrue values are zero")
	}

	return (sum / float64(validCount)) * 100, nil
}
