package linear

// DefaultConditionThreshold は設計行列の2-ノルム条件数の上限
// これを超えるとグラム行列 XᵀX は特異とみなされる
const DefaultConditionThreshold = 1e12

// warnConditionThreshold を超えると解は得られるが警告を出す
const warnConditionThreshold = 1e8

// config は最小二乗ソルバーの設定
type config struct {
	solver             Solver
	conditionThreshold float64
}

func defaultConfig() config {
	return config{
		solver:             SolverQR,
		conditionThreshold: DefaultConditionThreshold,
	}
}

// Option は SolveNormalEquation と LinearRegression を設定する関数
type Option func(*config)

// WithSolver は使用する分解法を設定する
func WithSolver(s Solver) Option {
	return func(c *config) {
		c.solver = s
	}
}

// WithConditionThreshold は特異とみなす条件数の上限を設定する
// 0以下の値は無視される
func WithConditionThreshold(threshold float64) Option {
	return func(c *config) {
		if threshold > 0 {
			c.conditionThreshold = threshold
		}
	}
}

func newConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
