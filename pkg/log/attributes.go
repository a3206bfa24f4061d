// Package log defines standard attribute keys for regression workflows.
//
// Keys follow a hierarchical naming convention (e.g. "model.name",
// "data.samples") so that log lines can be filtered consistently.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the type of model.
	// Examples: "LinearRegression", "StandardScaler"
	ModelNameKey = "model.name"

	// EstimatorIDKey identifies a specific fitted model instance (UUID).
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// SolverKey names the least-squares solver ("qr", "svd", "inverse").
	SolverKey = "ml.solver"
)

// Data Shape
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	PathKey     = "data.path"
)

// Performance and fit quality
const (
	DurationMsKey = "perf.duration_ms"
	MSEKey        = "metrics.mse"
	R2ScoreKey    = "metrics.r2_score"

	// ConditionKey records the 2-norm condition number of the design matrix.
	ConditionKey = "solver.condition"

	// RankKey records the numerical rank of the design matrix.
	RankKey = "solver.rank"
)

// Error Context
const (
	ErrorCodeKey = "error.code"
	ErrorTypeKey = "error.type"
)

// Standard attribute values.
const (
	OperationLoad    = "load"
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"

	ErrorNotFound          = "NOT_FOUND"
	ErrorParse             = "PARSE_ERROR"
	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorSingularMatrix    = "SINGULAR_MATRIX"
	ErrorDegenerateColumn  = "DEGENERATE_COLUMN"
)
