package preprocessing

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/housereg/core/model"
	"github.com/YuminosukeSato/housereg/core/parallel"
	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// degenerateTolerance は分散0とみなす相対しきい値（列の最大絶対値に対する比）
const degenerateTolerance = 1e-12

// StandardScaler はデータを平均0、標準偏差1に変換する標準化スケーラー
// 標準偏差は母標準偏差（分母N）を用いる
type StandardScaler struct {
	model.BaseEstimator

	// Mean は各特徴量の平均値
	Mean []float64

	// Std は各特徴量の母標準偏差
	Std []float64

	// NFeatures は特徴量の数
	NFeatures int
}

var _ model.Transformer = (*StandardScaler)(nil)

// NewStandardScaler は新しいStandardScalerを作成する
//
// 使用例:
//
//	scaler := preprocessing.NewStandardScaler()
//	XScaled, err := scaler.FitTransform(X)
//	z, err := scaler.TransformRow([]float64{1800, 3, 10, 1})
func NewStandardScaler() *StandardScaler {
	return &StandardScaler{}
}

// Fit は訓練データから統計情報（平均、母標準偏差）を計算する
//
// 分散が0の列があれば DegenerateColumnError を返し、スケーラーは未学習のまま残る
func (s *StandardScaler) Fit(X mat.Matrix) error {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return errors.NewModelError("StandardScaler.Fit", "empty data", errors.ErrEmptyData)
	}

	mean := make([]float64, c)
	std := make([]float64, c)

	// 行数が多い場合のみ列ごとに並列計算する
	threshold := c
	if r > parallel.DefaultThreshold {
		threshold = 0
	}
	err := parallel.ParallelizeErr(c, threshold, func(start, end int) error {
		col := make([]float64, r)
		for j := start; j < end; j++ {
			mat.Col(col, j, X)
			m, sd := stat.PopMeanStdDev(col, nil)
			if isDegenerate(col, sd) {
				return errors.NewDegenerateColumnError("StandardScaler.Fit", j, m)
			}
			mean[j] = m
			std[j] = sd
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.Mean = mean
	s.Std = std
	s.NFeatures = c
	s.SetFitted()
	return nil
}

// isDegenerate は列の標準偏差が列自身の大きさに比べて無視できるかを判定する
// 単位に依存しないよう、しきい値は max|x| に比例させる
func isDegenerate(col []float64, sd float64) bool {
	return sd == 0 || sd <= degenerateTolerance*floats.Norm(col, math.Inf(1))
}

// Transform は学習済みの統計情報を使ってデータを標準化する
// 入力行列は変更されない
func (s *StandardScaler) Transform(X mat.Matrix) (*mat.Dense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "Transform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.Transform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			for j := 0; j < c; j++ {
				result.Set(i, j, (X.At(i, j)-s.Mean[j])/s.Std[j])
			}
		}
	})

	return result, nil
}

// TransformRow は1行分の特徴量を標準化する
// 特徴量数が学習時と異なる場合は DimensionError を返す（切り詰めや補完はしない）
func (s *StandardScaler) TransformRow(row []float64) ([]float64, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "TransformRow")
	}
	if len(row) != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.TransformRow", s.NFeatures, len(row), 1)
	}

	z := make([]float64, len(row))
	for j, v := range row {
		z[j] = (v - s.Mean[j]) / s.Std[j]
	}
	return z, nil
}

// FitTransform は訓練データで学習し、同じデータを変換する
func (s *StandardScaler) FitTransform(X mat.Matrix) (*mat.Dense, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

// InverseTransform は標準化されたデータを元のスケールに戻す
func (s *StandardScaler) InverseTransform(X mat.Matrix) (*mat.Dense, error) {
	if !s.IsFitted() {
		return nil, errors.NewNotFittedError("StandardScaler", "InverseTransform")
	}

	r, c := X.Dims()
	if c != s.NFeatures {
		return nil, errors.NewDimensionError("StandardScaler.InverseTransform", s.NFeatures, c, 1)
	}

	result := mat.NewDense(r, c, nil)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			result.Set(i, j, X.At(i, j)*s.Std[j]+s.Mean[j])
		}
	}
	return result, nil
}

// String はスケーラーの文字列表現を返す
func (s *StandardScaler) String() string {
	if !s.IsFitted() {
		return "StandardScaler()"
	}
	return fmt.Sprintf("StandardScaler(n_features=%d)", s.NFeatures)
}

// Normalize は X を標準化し、標準化済み行列と列ごとの平均・母標準偏差を返す
//
//	Xn[i][j] = (X[i][j] - mean[j]) / std[j]
func Normalize(X mat.Matrix) (Xn *mat.Dense, mean, std []float64, err error) {
	s := NewStandardScaler()
	Xn, err = s.FitTransform(X)
	if err != nil {
		return nil, nil, nil, err
	}
	return Xn, s.Mean, s.Std, nil
}
