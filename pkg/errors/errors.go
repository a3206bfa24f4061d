// Package errors はhouseregのエラーハンドリングと警告システムを提供します。
// すべての構造化エラーは cockroachdb/errors でスタックトレースを付与して返され、
// zerolog へ構造化フィールドとして出力できます。
package errors

import (
	"fmt"
	"io/fs"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		log.Printf("housereg-warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler は警告ハンドラを設定します。
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	入力データのエラー型
//
// ===========================================================================

// NotFoundError は入力ファイルが存在しない場合のエラーです。
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("housereg: file not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFoundError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("path", e.Path).
		Str("type", "NotFoundError")
}

// NewNotFoundError は新しいNotFoundErrorを作成し、スタックトレースを付与します。
// err が nil の場合は fs.ErrNotExist を保持します。
func NewNotFoundError(path string, err error) error {
	if err == nil {
		err = fs.ErrNotExist
	}
	return errors.WithStack(&NotFoundError{Path: path, Err: err})
}

// ParseError はCSVの行が数値として解釈できない場合のエラーです。
// Line と Column は1始まりです。Column が0の場合は行全体の問題を示します。
type ParseError struct {
	Line   int
	Column int
	Value  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Column > 0 {
		return fmt.Sprintf("housereg: parse error at line %d, column %d (%q): %s", e.Line, e.Column, e.Value, e.Reason)
	}
	return fmt.Sprintf("housereg: parse error at line %d: %s", e.Line, e.Reason)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ParseError) MarshalZerologObject(event *zerolog.Event) {
	event.Int("line", e.Line).
		Int("column", e.Column).
		Str("value", e.Value).
		Str("reason", e.Reason).
		Str("type", "ParseError")
}

// NewParseError は新しいParseErrorを作成し、スタックトレースを付与します。
func NewParseError(line, column int, value, reason string) error {
	return errors.WithStack(&ParseError{Line: line, Column: column, Value: value, Reason: reason})
}

// ===========================================================================
//
//	モデル・数値計算のエラー型
//
// ===========================================================================

// NotFittedError はモデルが未学習の状態で `Predict` や `Transform` を呼び出した場合のエラーです。
type NotFittedError struct {
	ModelName string
	Method    string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("housereg: %s: this model is not fitted yet. Call Fit() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotFittedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotFittedError")
}

// NewNotFittedError は新しいNotFittedErrorを作成し、スタックトレースを付与します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotFittedError{ModelName: modelName, Method: method})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
// 学習時と予測時の特徴量数の不一致もこのエラーで表します。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("housereg: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, e.axisName(), e.Expected, e.Got)
}

func (e *DimensionError) axisName() string {
	if e.Axis == 0 {
		return "rows"
	}
	return "features"
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", e.axisName()).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// DegenerateColumnError は分散が0の特徴量列を標準化しようとした場合のエラーです。
type DegenerateColumnError struct {
	Op     string
	Column int
	Mean   float64
}

func (e *DegenerateColumnError) Error() string {
	return fmt.Sprintf("housereg: %s: feature column %d has zero variance (constant value %g)", e.Op, e.Column, e.Mean)
}

func (e *DegenerateColumnError) Is(target error) bool {
	return target == ErrDegenerateColumn
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DegenerateColumnError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("column", e.Column).
		Float64("mean", e.Mean).
		Str("type", "DegenerateColumnError")
}

// NewDegenerateColumnError は新しいDegenerateColumnErrorを作成し、スタックトレースを付与します。
func NewDegenerateColumnError(op string, column int, mean float64) error {
	return errors.WithStack(&DegenerateColumnError{Op: op, Column: column, Mean: mean})
}

// SingularMatrixError はグラム行列 XᵀX が数値的に逆行列を持たない場合のエラーです。
// Condition は設計行列の2-ノルム条件数です（+Inf の場合もあります）。
type SingularMatrixError struct {
	Op        string
	Condition float64
	Threshold float64
}

func (e *SingularMatrixError) Error() string {
	return fmt.Sprintf("housereg: %s: singular matrix (condition number %.3g exceeds %.3g)", e.Op, e.Condition, e.Threshold)
}

func (e *SingularMatrixError) Is(target error) bool {
	return target == ErrSingularMatrix
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *SingularMatrixError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Float64("condition", e.Condition).
		Float64("threshold", e.Threshold).
		Str("type", "SingularMatrixError")
}

// NewSingularMatrixError は新しいSingularMatrixErrorを作成し、スタックトレースを付与します。
func NewSingularMatrixError(op string, condition, threshold float64) error {
	return errors.WithStack(&SingularMatrixError{Op: op, Condition: condition, Threshold: threshold})
}

// UndefinedMetricError は評価指標が定義できない場合のエラーです。
// 例えば、目的変数の分散が0のときのR²など。
type UndefinedMetricError struct {
	Metric    string
	Condition string
}

func (e *UndefinedMetricError) Error() string {
	return fmt.Sprintf("housereg: '%s' is undefined: %s", e.Metric, e.Condition)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UndefinedMetricError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("metric", e.Metric).
		Str("condition", e.Condition).
		Str("type", "UndefinedMetricError")
}

// NewUndefinedMetricError は新しいUndefinedMetricErrorを作成し、スタックトレースを付与します。
func NewUndefinedMetricError(metric, condition string) error {
	return errors.WithStack(&UndefinedMetricError{Metric: metric, Condition: condition})
}

// ValueError は引数の値が不適切または不正な場合に発生するエラーです。
type ValueError struct {
	Op      string
	Message string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("housereg: %s: %s", e.Op, e.Message)
}

// NewValueError は新しいValueErrorを作成し、スタックトレースを付与します。
func NewValueError(op, message string) error {
	return errors.WithStack(&ValueError{Op: op, Message: message})
}

// ModelError はモデルに関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("housereg: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("housereg: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// NumericalInstabilityError は計算結果に NaN や Inf が含まれる場合のエラーです。
type NumericalInstabilityError struct {
	Operation string
	Values    []float64
}

func (e *NumericalInstabilityError) Error() string {
	valStr := ""
	for i, v := range e.Values {
		if i > 0 {
			valStr += ", "
		}
		if i >= 5 {
			valStr += "..."
			break
		}
		valStr += fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("housereg: numerical instability detected in %s. Values: [%s]", e.Operation, valStr)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NumericalInstabilityError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Operation).
		Floats64("values", e.Values).
		Str("type", "NumericalInstabilityError")
}

// NewNumericalInstabilityError は新しいNumericalInstabilityErrorを作成します。
func NewNumericalInstabilityError(operation string, values []float64) error {
	return errors.WithStack(&NumericalInstabilityError{Operation: operation, Values: values})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")

	// ErrDegenerateColumn は分散0の特徴量列の場合のエラーです。
	ErrDegenerateColumn = New("degenerate column")
)
