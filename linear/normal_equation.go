package linear

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/pkg/errors"
	"github.com/YuminosukeSato/housereg/pkg/log"
)

// Solver は正規方程式を解く分解法
type Solver string

const (
	// SolverQR は設計行列のQR分解で最小二乗解を求める（既定）
	SolverQR Solver = "qr"
	// SolverSVD は設計行列の薄いSVDで擬似逆行列を適用する
	SolverSVD Solver = "svd"
	// SolverInverse は (XᵀX)⁻¹Xᵀy をそのまま計算する
	SolverInverse Solver = "inverse"
)

// Solvers は利用可能なソルバーの一覧
var Solvers = []Solver{SolverQR, SolverSVD, SolverInverse}

// ParseSolver は名前からソルバーを返す（大文字小文字は区別しない）
func ParseSolver(name string) (Solver, error) {
	s := Solver(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Solvers {
		if s == known {
			return s, nil
		}
	}
	return "", errors.NewValueError("ParseSolver",
		fmt.Sprintf("unknown solver %q (want one of qr, svd, inverse)", name))
}

// Solution は最小二乗問題の解と診断情報
type Solution struct {
	// Theta は係数ベクトル。Theta[0] は切片
	Theta *mat.VecDense

	Solver Solver

	// Condition は設計行列の2-ノルム条件数
	Condition float64

	// Rank は設計行列の数値的ランク
	Rank int

	// SingularValues は設計行列の特異値（降順）
	SingularValues []float64
}

// SolveNormalEquation は ||Xb·θ − y||² を最小化する θ を返す
//
// Xb はバイアス列を含む R×K の設計行列。R < K や len(y) ≠ R の場合は DimensionError、
// XᵀX が特異（条件数がしきい値を超える）の場合は SingularMatrixError を返す
func SolveNormalEquation(Xb mat.Matrix, y mat.Vector, opts ...Option) (*mat.VecDense, error) {
	sol, err := Solve(Xb, y, opts...)
	if err != nil {
		return nil, err
	}
	return sol.Theta, nil
}

// Solve は SolveNormalEquation と同じ計算を行い、条件数やランクも返す
func Solve(Xb mat.Matrix, y mat.Vector, opts ...Option) (sol *Solution, err error) {
	defer errors.Recover(&err, "linear.Solve")

	cfg := newConfig(opts)
	r, k := Xb.Dims()
	if r == 0 || k == 0 {
		return nil, errors.NewModelError("linear.Solve", "empty data", errors.ErrEmptyData)
	}
	if r < k {
		return nil, errors.NewDimensionError("linear.Solve", k, r, 0)
	}
	if y.Len() != r {
		return nil, errors.NewDimensionError("linear.Solve", r, y.Len(), 0)
	}

	// 特異値から条件数とランクを求める
	kind := mat.SVDNone
	if cfg.solver == SolverSVD {
		kind = mat.SVDThin
	}
	var svd mat.SVD
	if ok := svd.Factorize(Xb, kind); !ok {
		return nil, errors.NewModelError("linear.Solve", "SVD factorization failed", nil)
	}
	values := svd.Values(nil)
	sol = &Solution{
		Solver:         cfg.solver,
		Condition:      condition(values),
		Rank:           numericalRank(values, r, k),
		SingularValues: values,
	}

	logger := log.GetLoggerWithName("linear").With(log.SolverKey, string(cfg.solver))
	logger.Debug("design matrix factorized",
		log.SamplesKey, r,
		log.FeaturesKey, k,
		log.ConditionKey, sol.Condition,
		log.RankKey, sol.Rank,
	)

	if sol.Rank < k || math.IsInf(sol.Condition, 1) || sol.Condition > cfg.conditionThreshold {
		return nil, errors.NewSingularMatrixError("linear.Solve", sol.Condition, cfg.conditionThreshold)
	}
	if sol.Condition > warnConditionThreshold {
		errors.Warn(errors.Newf("linear.Solve: design matrix is ill-conditioned (condition number %.3g)", sol.Condition))
	}

	switch cfg.solver {
	case SolverQR:
		sol.Theta, err = solveQR(Xb, y)
	case SolverSVD:
		sol.Theta = solveSVD(&svd, values, sol.Rank, y)
	case SolverInverse:
		sol.Theta, err = solveInverse(Xb, y, cfg.conditionThreshold)
	default:
		return nil, errors.NewValueError("linear.Solve", fmt.Sprintf("unknown solver %q", cfg.solver))
	}
	if err != nil {
		return nil, err
	}

	if err := errors.CheckVector("linear.Solve", sol.Theta); err != nil {
		return nil, err
	}
	return sol, nil
}

// condition は特異値から2-ノルム条件数を求める
func condition(values []float64) float64 {
	if len(values) == 0 {
		return math.Inf(1)
	}
	smallest := values[len(values)-1]
	if smallest == 0 {
		return math.Inf(1)
	}
	return values[0] / smallest
}

// numericalRank は LAPACK の慣習に従い max(R,K)·ε·σ₁ を超える特異値を数える
func numericalRank(values []float64, r, k int) int {
	if len(values) == 0 {
		return 0
	}
	tol := float64(max(r, k)) * eps * values[0]
	rank := 0
	for _, s := range values {
		if s > tol {
			rank++
		}
	}
	return rank
}

// eps は float64 のマシンイプシロン
const eps = 0x1p-52

// solveQR は Xb = QR と分解し、R·θ = Qᵀy を解く
func solveQR(Xb mat.Matrix, y mat.Vector) (*mat.VecDense, error) {
	var qr mat.QR
	qr.Factorize(Xb)

	var theta mat.VecDense
	if err := qr.SolveVecTo(&theta, false, y); err != nil {
		// mat.Condition は三角行列Rの条件数が大きすぎる場合に返される
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, errors.NewSingularMatrixError("linear.solveQR", float64(cond), mat.ConditionTolerance)
		}
		return nil, errors.Wrap(err, "linear.solveQR")
	}
	return &theta, nil
}

// solveSVD は θ = V·Σ⁻¹·Uᵀy を計算する
func solveSVD(svd *mat.SVD, values []float64, rank int, y mat.Vector) *mat.VecDense {
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	var uty mat.VecDense
	uty.MulVec(u.T(), y)
	for i := 0; i < uty.Len(); i++ {
		if i < rank {
			uty.SetVec(i, uty.AtVec(i)/values[i])
		} else {
			uty.SetVec(i, 0)
		}
	}

	var theta mat.VecDense
	theta.MulVec(&v, &uty)
	return &theta
}

// solveInverse は θ = (XᵀX)⁻¹Xᵀy を文字通り計算する
func solveInverse(Xb mat.Matrix, y mat.Vector, threshold float64) (*mat.VecDense, error) {
	var xtx mat.Dense
	xtx.Mul(Xb.T(), Xb)

	var inv mat.Dense
	if err := inv.Inverse(&xtx); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, errors.NewSingularMatrixError("linear.solveInverse", float64(cond), threshold*threshold)
		}
		return nil, errors.NewSingularMatrixError("linear.solveInverse", math.Inf(1), threshold*threshold)
	}

	var xty mat.VecDense
	xty.MulVec(Xb.T(), y)

	var theta mat.VecDense
	theta.MulVec(&inv, &xty)
	return &theta, nil
}
