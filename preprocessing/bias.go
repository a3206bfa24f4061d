package preprocessing

import (
	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/core/parallel"
	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// AddBias は切片項のために先頭に1の列を追加した R×(C+1) の設計行列を返す
// 列1..Cは入力と同じ順序・同じ値のまま
func AddBias(X mat.Matrix) (*mat.Dense, error) {
	r, c := X.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("AddBias", "empty data", errors.ErrEmptyData)
	}

	XWithIntercept := mat.NewDense(r, c+1, nil)
	parallel.ParallelizeWithThreshold(r, parallel.DefaultThreshold, func(start, end int) {
		for i := start; i < end; i++ {
			XWithIntercept.Set(i, 0, 1.0)
			for j := 0; j < c; j++ {
				XWithIntercept.Set(i, j+1, X.At(i, j))
			}
		}
	})

	return XWithIntercept, nil
}

// PrependBias は1行分の特徴量の先頭に1.0を付加したベクトルを返す
func PrependBias(row []float64) *mat.VecDense {
	v := mat.NewVecDense(len(row)+1, nil)
	v.SetVec(0, 1.0)
	for j, x := range row {
		v.SetVec(j+1, x)
	}
	return v
}
