package dataset

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/housereg/pkg/errors"
)

func TestLoadCSV(t *testing.T) {
	ds, err := LoadCSV(filepath.Join("testdata", "linear.csv"))
	require.NoError(t, err)

	rows, features := ds.Dims()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 2, features)
	assert.Equal(t, []string{"x1", "x2"}, ds.FeatureNames())
	assert.Equal(t, "y", ds.TargetName())

	assert.Equal(t, []float64{3, 2}, ds.Row(2))
	assert.Equal(t, 20.0, ds.Y.AtVec(4))
}

func TestLoadCSVErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		wantLine int
		wantCol  int
	}{
		{name: "bad number", file: "bad_number.csv", wantLine: 3, wantCol: 2},
		{name: "ragged row", file: "ragged.csv", wantLine: 3, wantCol: 0},
		{name: "header only", file: "header_only.csv", wantLine: 2, wantCol: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(filepath.Join("testdata", tt.file))
			require.Error(t, err)

			var pe *errors.ParseError
			require.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
			assert.Equal(t, tt.wantLine, pe.Line)
			assert.Equal(t, tt.wantCol, pe.Column)
		})
	}
}

func TestLoadCSVNotFound(t *testing.T) {
	_, err := LoadCSV(filepath.Join("testdata", "does_not_exist.csv"))
	require.Error(t, err)

	var nf *errors.NotFoundError
	assert.True(t, errors.As(err, &nf))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		rows    int
		wantErr bool
	}{
		{
			name:  "whitespace and blank lines",
			input: "a, b ,target\n1, 2, 3\n\n4,5,6\n",
			rows:  2,
		},
		{
			name:  "single feature",
			input: "size,price\n1,2\n",
			rows:  1,
		},
		{
			name:    "empty input",
			input:   "",
			wantErr: true,
		},
		{
			name:    "single column",
			input:   "price\n1\n2\n",
			wantErr: true,
		},
		{
			name:    "missing field",
			input:   "a,b,y\n1,,3\n",
			wantErr: true,
		},
		{
			name:    "nan literal",
			input:   "a,y\nNaN,1\n",
			wantErr: true,
		},
		{
			name:    "unterminated quote",
			input:   "a,y\n\"1,2\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := ReadCSV(strings.NewReader(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				var pe *errors.ParseError
				assert.True(t, errors.As(err, &pe), "expected ParseError, got %v", err)
				return
			}
			require.NoError(t, err)
			rows, _ := ds.Dims()
			assert.Equal(t, tt.rows, rows)
		})
	}
}

func TestReadCSVHeaderTrimmed(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader(" Size , Price \n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Size"}, ds.FeatureNames())
	assert.Equal(t, "Price", ds.TargetName())
}

func TestParseFeatures(t *testing.T) {
	got, err := ParseFeatures("1800, 3,10,1")
	require.NoError(t, err)
	assert.Equal(t, []float64{1800, 3, 10, 1}, got)

	_, err = ParseFeatures("1800,,10")
	var pe *errors.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Column)
}
