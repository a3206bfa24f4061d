package linear

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/core/model"
	"github.com/YuminosukeSato/housereg/core/parallel"
	"github.com/YuminosukeSato/housereg/metrics"
	"github.com/YuminosukeSato/housereg/pkg/errors"
	"github.com/YuminosukeSato/housereg/pkg/log"
	"github.com/YuminosukeSato/housereg/preprocessing"
)

// LinearRegression は正規方程式による線形回帰モデル
//
// 特徴量を標準化（母標準偏差）し、先頭にバイアス列を追加した設計行列に対して
// 最小二乗解を求める。係数は標準化後の空間で保持される
type LinearRegression struct {
	model.BaseEstimator // BaseEstimatorを埋め込み

	// Scaler は学習時の平均・標準偏差を保持する
	Scaler *preprocessing.StandardScaler

	// Coef は係数ベクトル θ（Coef[0] は切片）
	Coef *mat.VecDense

	// NFeatures は特徴量の数
	NFeatures int

	// Condition は設計行列の2-ノルム条件数
	Condition float64

	// Rank は設計行列の数値的ランク
	Rank int

	cfg config
}

// NewLinearRegression は新しい線形回帰モデルを作成する
//
// 使用例:
//
//	lr := linear.NewLinearRegression(linear.WithSolver(linear.SolverSVD))
//	if err := lr.Fit(X, y); err != nil {
//	    return err
//	}
//	price, err := lr.PredictRow([]float64{1800, 3, 10, 1})
func NewLinearRegression(opts ...Option) *LinearRegression {
	return &LinearRegression{cfg: newConfig(opts)}
}

// Solver は使用するソルバーを返す
func (lr *LinearRegression) Solver() Solver {
	return lr.cfg.solver
}

// Fit はモデルを訓練データで学習させる
// 失敗した場合、モデルは未学習の状態になる
func (lr *LinearRegression) Fit(X mat.Matrix, y mat.Vector) (err error) {
	defer errors.Recover(&err, "LinearRegression.Fit")

	lr.Reset()
	start := time.Now()

	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("LinearRegression.Fit", "empty data", errors.ErrEmptyData)
	}
	if y.Len() != r {
		return errors.NewDimensionError("LinearRegression.Fit", r, y.Len(), 0)
	}
	if err := errors.CheckMatrix("LinearRegression.Fit", X); err != nil {
		return err
	}
	if err := errors.CheckVector("LinearRegression.Fit", y); err != nil {
		return err
	}

	scaler := preprocessing.NewStandardScaler()
	Xn, err := scaler.FitTransform(X)
	if err != nil {
		return err
	}

	Xb, err := preprocessing.AddBias(Xn)
	if err != nil {
		return err
	}

	sol, err := Solve(Xb, y, WithSolver(lr.cfg.solver), WithConditionThreshold(lr.cfg.conditionThreshold))
	if err != nil {
		return err
	}

	lr.Scaler = scaler
	lr.Coef = sol.Theta
	lr.NFeatures = c
	lr.Condition = sol.Condition
	lr.Rank = sol.Rank

	// モデルを学習済み状態に設定
	lr.SetFitted()

	lr.logger().Info("model fitted",
		log.OperationKey, log.OperationFit,
		log.SolverKey, string(sol.Solver),
		log.SamplesKey, r,
		log.FeaturesKey, c,
		log.ConditionKey, sol.Condition,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)

	return nil
}

// Predict は入力データ（元のスケール）に対する予測を行う
func (lr *LinearRegression) Predict(X mat.Matrix) (_ *mat.VecDense, err error) {
	defer errors.Recover(&err, "LinearRegression.Predict")

	if !lr.IsFitted() {
		return nil, errors.NewNotFittedError("LinearRegression", "Predict")
	}

	r, c := X.Dims()
	if c != lr.NFeatures {
		return nil, errors.NewDimensionError("LinearRegression.Predict", lr.NFeatures, c, 1)
	}

	Xn, err := lr.Scaler.Transform(X)
	if err != nil {
		return nil, err
	}

	// 予測: y = θ₀ + Σ θⱼ·zⱼ
	predictions := mat.NewVecDense(r, nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			pred := lr.Coef.AtVec(0)
			for j := 0; j < c; j++ {
				pred += Xn.At(i, j) * lr.Coef.AtVec(j+1)
			}
			predictions.SetVec(i, pred)
		}
	})

	lr.logger().Debug("predicted",
		log.OperationKey, log.OperationPredict,
		log.SamplesKey, r,
	)

	return predictions, nil
}

// PredictRow は1行分の特徴量（元のスケール）から予測値を返す
//
// 学習時と同じ平均・標準偏差で標準化し、先頭に1を付加して θ との内積を取る。
// 特徴量の数が学習時と異なる場合は DimensionError を返す
func (lr *LinearRegression) PredictRow(row []float64) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "PredictRow")
	}
	if len(row) != lr.NFeatures {
		return 0, errors.NewDimensionError("LinearRegression.PredictRow", lr.NFeatures, len(row), 1)
	}

	z, err := lr.Scaler.TransformRow(row)
	if err != nil {
		return 0, err
	}

	pred := mat.Dot(preprocessing.PrependBias(z), lr.Coef)
	if err := errors.CheckScalar("LinearRegression.PredictRow", pred); err != nil {
		return 0, err
	}
	return pred, nil
}

// Theta は係数ベクトルのコピーを返す（未学習なら nil）
func (lr *LinearRegression) Theta() []float64 {
	if !lr.IsFitted() {
		return nil
	}
	theta := make([]float64, lr.Coef.Len())
	for i := range theta {
		theta[i] = lr.Coef.AtVec(i)
	}
	return theta
}

// Intercept は標準化空間での切片 θ₀ を返す
func (lr *LinearRegression) Intercept() float64 {
	if !lr.IsFitted() {
		return 0
	}
	return lr.Coef.AtVec(0)
}

// Score はモデルの決定係数（R²）を計算する
func (lr *LinearRegression) Score(X mat.Matrix, y mat.Vector) (float64, error) {
	if !lr.IsFitted() {
		return 0, errors.NewNotFittedError("LinearRegression", "Score")
	}

	yPred, err := lr.Predict(X)
	if err != nil {
		return 0, err
	}
	return metrics.R2Score(y, yPred)
}

// String はモデルの文字列表現を返す
func (lr *LinearRegression) String() string {
	if !lr.IsFitted() {
		return fmt.Sprintf("LinearRegression(solver=%s)", lr.cfg.solver)
	}
	return fmt.Sprintf("LinearRegression(solver=%s, n_features=%d)", lr.cfg.solver, lr.NFeatures)
}

func (lr *LinearRegression) logger() log.Logger {
	return log.GetLoggerWithName("linear").With(
		log.ModelNameKey, "LinearRegression",
		log.EstimatorIDKey, lr.ID(),
	)
}

var _ model.Regressor = (*LinearRegression)(nil)
