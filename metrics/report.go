package metrics

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Report は訓練データ上の評価結果をまとめたもの
type Report struct {
	MSE  float64 `json:"mse"`
	RMSE float64 `json:"rmse"`
	MAE  float64 `json:"mae"`
	R2   float64 `json:"r2"`
	MAPE float64 `json:"mape"`
	N    int     `json:"n"`
}

// Evaluate は訓練データ上の各評価指標をまとめて計算する
//
// R² が定義できない場合（yTrue の分散が0）は UndefinedMetricError を返す
func Evaluate(yTrue, yPred mat.Vector) (Report, error) {
	mse, err := MSE(yTrue, yPred)
	if err != nil {
		return Report{}, err
	}
	mae, err := MAE(yTrue, yPred)
	if err != nil {
		return Report{}, err
	}
	r2, err := R2Score(yTrue, yPred)
	if err != nil {
		return Report{}, err
	}

	// R²が定義できれば yTrue に非0要素があるので MAPE も定義できる
	mape, err := MAPE(yTrue, yPred)
	if err != nil {
		return Report{}, err
	}

	return Report{
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		MAE:  mae,
		R2:   r2,
		MAPE: mape,
		N:    yTrue.Len(),
	}, nil
}
