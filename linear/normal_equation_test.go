package linear

import (
	"math"
	"math/rand/v2"
	"strings"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// designMatrix は先頭にバイアス列を持つ設計行列を作る
func designMatrix(rows [][]float64) *mat.Dense {
	Xb := mat.NewDense(len(rows), len(rows[0])+1, nil)
	for i, row := range rows {
		Xb.Set(i, 0, 1)
		for j, v := range row {
			Xb.Set(i, j+1, v)
		}
	}
	return Xb
}

func TestSolveNormalEquation(t *testing.T) {
	// y = 1 + 2·x1 + 3·x2
	Xb := designMatrix([][]float64{{1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}})
	y := mat.NewVecDense(5, []float64{6, 8, 13, 15, 20})
	want := []float64{1, 2, 3}

	for _, solver := range Solvers {
		t.Run(string(solver), func(t *testing.T) {
			theta, err := SolveNormalEquation(Xb, y, WithSolver(solver))
			if err != nil {
				t.Fatalf("SolveNormalEquation() error = %v", err)
			}
			if theta.Len() != len(want) {
				t.Fatalf("len(theta) = %d, want %d", theta.Len(), len(want))
			}
			for i, w := range want {
				if math.Abs(theta.AtVec(i)-w) > 1e-9 {
					t.Errorf("theta[%d] = %v, want %v", i, theta.AtVec(i), w)
				}
			}
		})
	}
}

func TestSolversAgree(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	rows := make([][]float64, 60)
	yData := make([]float64, len(rows))
	for i := range rows {
		rows[i] = []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
		yData[i] = 4 - 2*rows[i][0] + 0.5*rows[i][1] + rows[i][2] + rng.NormFloat64()*0.3
	}
	Xb := designMatrix(rows)
	y := mat.NewVecDense(len(yData), yData)

	ref, err := Solve(Xb, y)
	if err != nil {
		t.Fatalf("Solve(qr) error = %v", err)
	}
	if ref.Rank != 4 {
		t.Errorf("Rank = %d, want 4", ref.Rank)
	}
	if ref.Condition < 1 || ref.Condition > 100 {
		t.Errorf("Condition = %v, want a small value", ref.Condition)
	}

	for _, solver := range []Solver{SolverSVD, SolverInverse} {
		sol, err := Solve(Xb, y, WithSolver(solver))
		if err != nil {
			t.Fatalf("Solve(%s) error = %v", solver, err)
		}
		for i := 0; i < ref.Theta.Len(); i++ {
			a, b := ref.Theta.AtVec(i), sol.Theta.AtVec(i)
			if math.Abs(a-b) > 1e-8*math.Max(1, math.Abs(a)) {
				t.Errorf("%s: theta[%d] = %v, qr gave %v", solver, i, b, a)
			}
		}
	}

	// 正規方程式 XᵀX·θ = Xᵀy を満たす
	var xtx mat.Dense
	xtx.Mul(Xb.T(), Xb)
	var lhs, rhs mat.VecDense
	lhs.MulVec(&xtx, ref.Theta)
	rhs.MulVec(Xb.T(), y)
	if !mat.EqualApprox(&lhs, &rhs, 1e-8) {
		t.Errorf("normal equation residual too large: %v vs %v", mat.Formatted(&lhs), mat.Formatted(&rhs))
	}
}

func TestSolveSingular(t *testing.T) {
	tests := []struct {
		name string
		rows [][]float64
	}{
		{"duplicate column", [][]float64{{1, 1}, {2, 2}, {3, 3}, {4, 4}}},
		{"scaled column", [][]float64{{1, 2}, {2, 4}, {3, 6}, {5, 10}}},
		{"column equal to bias", [][]float64{{1, 0.5}, {1, 1.5}, {1, 2.5}}},
	}

	for _, tt := range tests {
		for _, solver := range Solvers {
			t.Run(tt.name+"/"+string(solver), func(t *testing.T) {
				y := mat.NewVecDense(len(tt.rows), nil)
				for i := range tt.rows {
					y.SetVec(i, float64(i))
				}

				_, err := SolveNormalEquation(designMatrix(tt.rows), y, WithSolver(solver))
				if !errors.Is(err, errors.ErrSingularMatrix) {
					t.Fatalf("error = %v, want ErrSingularMatrix", err)
				}
				var singular *errors.SingularMatrixError
				if !errors.As(err, &singular) {
					t.Fatalf("expected *SingularMatrixError, got %T", err)
				}
			})
		}
	}
}

func TestSolveConditionThreshold(t *testing.T) {
	Xb := designMatrix([][]float64{{1, 1}, {2, 1}, {3, 2}, {4, 2}, {5, 3}})
	y := mat.NewVecDense(5, []float64{6, 8, 13, 15, 20})

	_, err := Solve(Xb, y, WithConditionThreshold(1.5))
	var singular *errors.SingularMatrixError
	if !errors.As(err, &singular) {
		t.Fatalf("expected SingularMatrixError, got %v", err)
	}
	if singular.Threshold != 1.5 {
		t.Errorf("Threshold = %v, want 1.5", singular.Threshold)
	}
}

func TestSolveIllConditionedWarns(t *testing.T) {
	var warnings []error
	errors.SetWarningHandler(func(w error) { warnings = append(warnings, w) })
	t.Cleanup(func() { errors.SetWarningHandler(nil) })

	// 3列目は2列目に 1e-8 の摂動を加えたもの（条件数はおよそ 8e8）
	pattern := []float64{1, -1, -1, 1, 1, -1}
	rows := make([][]float64, len(pattern))
	y := mat.NewVecDense(len(pattern), nil)
	for i, p := range pattern {
		x := float64(i + 1)
		rows[i] = []float64{x, x + 1e-8*p}
		y.SetVec(i, 1+2*rows[i][0]+3*rows[i][1])
	}

	sol, err := Solve(designMatrix(rows), y)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if sol.Condition <= warnConditionThreshold || sol.Condition >= DefaultConditionThreshold {
		t.Fatalf("Condition = %.3g, want between %.0g and %.0g", sol.Condition, warnConditionThreshold, DefaultConditionThreshold)
	}
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1", len(warnings))
	}
	if msg := warnings[0].Error(); !strings.Contains(msg, "ill-conditioned") {
		t.Errorf("warning = %q, want it to mention ill-conditioning", msg)
	}
}

func TestSolveDimensionErrors(t *testing.T) {
	tests := []struct {
		name string
		Xb   *mat.Dense
		y    *mat.VecDense
	}{
		{
			name: "fewer rows than columns",
			Xb:   mat.NewDense(2, 3, []float64{1, 1, 2, 1, 3, 5}),
			y:    mat.NewVecDense(2, []float64{1, 2}),
		},
		{
			name: "target length mismatch",
			Xb:   designMatrix([][]float64{{1}, {2}, {3}}),
			y:    mat.NewVecDense(2, []float64{1, 2}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SolveNormalEquation(tt.Xb, tt.y)
			var dimErr *errors.DimensionError
			if !errors.As(err, &dimErr) {
				t.Errorf("expected DimensionError, got %v", err)
			}
		})
	}

	if _, err := Solve(&mat.Dense{}, &mat.VecDense{}); !errors.Is(err, errors.ErrEmptyData) {
		t.Errorf("Solve(empty) error = %v, want ErrEmptyData", err)
	}
}

func TestParseSolver(t *testing.T) {
	tests := []struct {
		in      string
		want    Solver
		wantErr bool
	}{
		{"qr", SolverQR, false},
		{"SVD", SolverSVD, false},
		{" inverse ", SolverInverse, false},
		{"cholesky", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseSolver(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSolver(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSolver(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
