// Package dataset loads delimited numeric datasets into gonum matrices.
//
// The last column of every row is the regression target; all preceding
// columns are features, in file order.
package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

// Dataset is a feature matrix plus its target vector.
// X is rows × features, Y has one entry per row.
type Dataset struct {
	Header []string
	X      *mat.Dense
	Y      *mat.VecDense
}

// Dims returns the number of rows and feature columns.
func (d *Dataset) Dims() (rows, features int) {
	return d.X.Dims()
}

// FeatureNames returns the header names of the feature columns.
// Missing header cells are named by position ("x1", "x2", ...).
func (d *Dataset) FeatureNames() []string {
	_, c := d.X.Dims()
	names := make([]string, c)
	for j := range names {
		if j < len(d.Header) && d.Header[j] != "" {
			names[j] = d.Header[j]
		} else {
			names[j] = fmt.Sprintf("x%d", j+1)
		}
	}
	return names
}

// TargetName returns the header name of the target column.
func (d *Dataset) TargetName() string {
	_, c := d.X.Dims()
	if c < len(d.Header) && d.Header[c] != "" {
		return d.Header[c]
	}
	return "y"
}

// Row returns a copy of the i-th feature row.
func (d *Dataset) Row(i int) []float64 {
	return mat.Row(nil, i, d.X)
}

// ParseFeatures parses a comma-separated list of numbers such as "1800,3,10,1".
func ParseFeatures(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	values := make([]float64, 0, len(fields))
	for i, f := range fields {
		f = strings.TrimSpace(f)
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, errors.NewParseError(1, i+1, f, "invalid number")
		}
		values = append(values, v)
	}
	return values, nil
}
