package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/YuminosukeSato/housereg/metrics"
	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// BiasName は切片項のラベル
const BiasName = "bias"

// Coefficient は係数ベクトルの1要素
type Coefficient struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// Prediction は新しいサンプルに対する予測結果
type Prediction struct {
	Features []float64 `json:"features"`
	Price    float64   `json:"price"`
}

// Result は1回の学習の結果
type Result struct {
	Dataset      string         `json:"dataset"`
	Solver       string         `json:"solver"`
	EstimatorID  string         `json:"estimator_id"`
	Samples      int            `json:"samples"`
	Features     int            `json:"features"`
	Condition    float64        `json:"condition"`
	Coefficients []Coefficient  `json:"theta"`
	Metrics      metrics.Report `json:"metrics"`
	Prediction   *Prediction    `json:"prediction,omitempty"`
}

// Coefficients は係数ベクトルに名前を付ける
// theta[0] は bias、以降は featureNames の順
func Coefficients(featureNames []string, theta []float64) []Coefficient {
	coefs := make([]Coefficient, len(theta))
	for i, v := range theta {
		name := BiasName
		if i > 0 {
			if i-1 < len(featureNames) {
				name = featureNames[i-1]
			} else {
				name = fmt.Sprintf("x%d", i)
			}
		}
		coefs[i] = Coefficient{Name: name, Value: v}
	}
	return coefs
}

// Render は結果を指定された形式で w に書き出す
func Render(w io.Writer, r *Result, format Format) error {
	switch format.Resolve(w) {
	case FormatJSON:
		return renderJSON(w, r)
	case FormatMarkdown:
		return renderMarkdown(w, r)
	case FormatText:
		return renderText(w, r)
	}
	return errors.NewValueError("report.Render", fmt.Sprintf("unsupported format %q", format))
}

// RenderPrediction は予測価格のみを書き出す
func RenderPrediction(w io.Writer, p *Prediction, format Format) error {
	if format.Resolve(w) == FormatJSON {
		return renderJSON(w, p)
	}
	_, err := fmt.Fprintln(w, FormatCurrency(p.Price))
	return err
}

func renderJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func coefficientTable(r *Result) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Term", "Theta"})
	for _, c := range r.Coefficients {
		t.AppendRow(table.Row{c.Name, fmt.Sprintf("%.2f", c.Value)})
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
	})
	return t
}

// errWriter は最初の書き込みエラーを保持し、以降の書き込みを省略する
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func renderText(w io.Writer, r *Result) error {
	ew := &errWriter{w: w}
	ew.printf("Dataset: %s (%d samples, %d features)\n", r.Dataset, r.Samples, r.Features)
	ew.printf("Solver:  %s (condition number %.3g)\n\n", r.Solver, r.Condition)

	t := coefficientTable(r)
	t.SetStyle(table.StyleLight)
	ew.printf("%s\n\n", t.Render())

	writeSummary(ew, r, "")
	return ew.err
}

func renderMarkdown(w io.Writer, r *Result) error {
	ew := &errWriter{w: w}
	ew.printf("## Linear regression: %s\n\n", r.Dataset)
	ew.printf("Solver `%s`, %d samples, %d features, condition number %.3g.\n\n",
		r.Solver, r.Samples, r.Features, r.Condition)

	t := coefficientTable(r)
	ew.printf("%s\n\n", t.RenderMarkdown())

	writeSummary(ew, r, "- ")
	return ew.err
}

// writeSummary は評価指標と予測価格を書き出す（MSEは小数2桁、R²は小数4桁）
func writeSummary(ew *errWriter, r *Result, bullet string) {
	ew.printf("%sMSE: %.2f\n", bullet, r.Metrics.MSE)
	ew.printf("%sR²: %.4f\n", bullet, r.Metrics.R2)
	if r.Prediction != nil {
		ew.printf("%sPredicted price for [%s]: %s\n",
			bullet, joinFeatures(r.Prediction.Features), FormatCurrency(r.Prediction.Price))
	}
}

func joinFeatures(features []float64) string {
	parts := make([]string, len(features))
	for i, v := range features {
		parts[i] = fmt.Sprintf("%g", v)
	}
	return strings.Join(parts, ", ")
}
