package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/YuminosukeSato/housereg/pkg/errors"
	"github.com/YuminosukeSato/housereg/pkg/log"
)

// LoadCSV reads the CSV file at path. A missing file yields a NotFoundError.
func LoadCSV(path string) (*Dataset, error) {
	start := time.Now()

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError(path, err)
		}
		return nil, errors.Wrapf(err, "open dataset %s", path)
	}
	defer f.Close()

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, errors.Wrapf(err, "load dataset %s", path)
	}

	rows, features := ds.Dims()
	log.GetLoggerWithName("dataset").Debug("dataset loaded",
		log.OperationKey, log.OperationLoad,
		log.PathKey, path,
		log.SamplesKey, rows,
		log.FeaturesKey, features,
		log.DurationMsKey, time.Since(start).Milliseconds(),
	)
	return ds, nil
}

// ReadCSV parses a header line followed by numeric rows.
//
// Empty lines are ignored. Every data row must have the header's column
// count, and at least two columns (one feature plus the target) are required.
func ReadCSV(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewParseError(1, 0, "", "missing header line")
	}
	if err != nil {
		return nil, csvError(err)
	}
	header = trimAll(header)

	cols := len(header)
	if cols < 2 {
		return nil, errors.NewParseError(1, 0, "", fmt.Sprintf("need at least 2 columns (features + target), got %d", cols))
	}

	var values []float64
	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvError(err)
		}
		line, _ := reader.FieldPos(0)

		if len(record) != cols {
			return nil, errors.NewParseError(line, 0, "", fmt.Sprintf("expected %d fields, got %d", cols, len(record)))
		}

		for j, field := range record {
			field = strings.TrimSpace(field)
			if field == "" {
				return nil, errors.NewParseError(line, j+1, field, "missing value")
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, errors.NewParseError(line, j+1, field, "invalid number")
			}
			values = append(values, v)
		}
		rows++
	}

	if rows == 0 {
		return nil, errors.NewParseError(2, 0, "", "no data rows after header")
	}

	features := cols - 1
	X := mat.NewDense(rows, features, nil)
	Y := mat.NewVecDense(rows, nil)
	for i := 0; i < rows; i++ {
		row := values[i*cols : (i+1)*cols]
		X.SetRow(i, row[:features])
		Y.SetVec(i, row[features])
	}

	return &Dataset{Header: header, X: X, Y: Y}, nil
}

func csvError(err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return errors.NewParseError(pe.Line, pe.Column, "", pe.Err.Error())
	}
	return errors.Wrap(err, "read csv")
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}
