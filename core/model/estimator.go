package model

import "gonum.org/v1/gonum/mat"

// Fitter は学習可能なモデルのインターフェース
type Fitter interface {
	// Fit はモデルを訓練データで学習させる
	Fit(X mat.Matrix, y mat.Vector) error
}

// Predictor は予測可能なモデルのインターフェース
type Predictor interface {
	// Predict は入力データに対する予測を行う
	Predict(X mat.Matrix) (*mat.VecDense, error)
}

// Scorer は決定係数（R²）を計算できるモデルのインターフェース
type Scorer interface {
	Score(X mat.Matrix, y mat.Vector) (float64, error)
}

// Regressor は回帰モデルのインターフェース
type Regressor interface {
	Fitter
	Predictor
	Scorer
}

// Transformer はデータ変換のインターフェース
type Transformer interface {
	// Fit は変換に必要なパラメータを学習する
	Fit(X mat.Matrix) error

	// Transform はデータを変換する
	Transform(X mat.Matrix) (*mat.Dense, error)

	// FitTransform はFitとTransformを同時に実行する
	FitTransform(X mat.Matrix) (*mat.Dense, error)
}
