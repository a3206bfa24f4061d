package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	herrors "github.com/YuminosukeSato/housereg/pkg/errors"
)

func TestTestLogger(t *testing.T) {
	logger, buffer := NewTestLogger(LevelDebug)

	logger.Debug("debug message", "key1", "value1", "number", 42)
	logger.Info("info message", OperationKey, OperationFit)
	logger.Warn("warning message")
	logger.Error("error message", fmt.Errorf("test error"), OperationKey, OperationScore)

	require.NotEmpty(t, buffer.String())
	assert.True(t, logger.ContainsMessage("debug message"))
	assert.True(t, logger.ContainsMessage("warning message"))
	assert.True(t, logger.ContainsField("key1", "value1"))
	assert.True(t, logger.ContainsField("number", 42.0))
	assert.True(t, logger.ContainsField(ErrAttrKey, "test error"))
	assert.True(t, logger.ContainsField(OperationKey, OperationFit))

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 4)

	logger.Clear()
	assert.Empty(t, buffer.String())
}

func TestTestLoggerLevelAndWith(t *testing.T) {
	logger, _ := NewTestLogger(LevelWarn)

	logger.Info("hidden")
	assert.False(t, logger.ContainsMessage("hidden"))
	assert.False(t, logger.Enabled(context.Background(), LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), LevelError))

	child := logger.With(ModelNameKey, "LinearRegression")
	child.Warn("shown")
	assert.True(t, logger.ContainsField(ModelNameKey, "LinearRegression"))
}

func TestTestLoggerConcurrent(t *testing.T) {
	logger, _ := NewTestLogger(LevelInfo)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.With(ComponentKey, "worker").Info("tick", "id", id)
		}(i)
	}
	wg.Wait()

	entries, err := logger.GetLogEntries()
	require.NoError(t, err)
	assert.Len(t, entries, 8)
}

func TestZerologProvider(t *testing.T) {
	var buf bytes.Buffer
	p := NewZerologProvider(&buf, LevelInfo, false)

	logger := p.GetLoggerWithName("linear").With(ModelNameKey, "LinearRegression")
	logger.Debug("not emitted")
	logger.Info("fit completed", SamplesKey, 100, FeaturesKey, 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "fit completed", entry["message"])
	assert.Equal(t, "linear", entry[ComponentKey])
	assert.Equal(t, "LinearRegression", entry[ModelNameKey])
	assert.Equal(t, 100.0, entry[SamplesKey])

	assert.False(t, logger.Enabled(context.Background(), LevelDebug))
	p.SetLevel(LevelDebug)
	assert.True(t, p.GetLogger().Enabled(context.Background(), LevelDebug))
}

func TestZerologErrorCarriesDetail(t *testing.T) {
	var buf bytes.Buffer
	logger := NewZerologProvider(&buf, LevelDebug, false).GetLogger()

	logger.Error("predict failed", herrors.NewDimensionError("PredictRow", 4, 3, 1), OperationKey, OperationPredict)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Contains(t, entry[ErrAttrKey], "dimension mismatch")
	assert.Equal(t, OperationPredict, entry[OperationKey])

	detail, ok := entry[DetailAttrKey].(map[string]interface{})
	require.True(t, ok, "expected structured error detail")
	assert.Equal(t, "DimensionError", detail["type"])
	assert.Equal(t, ErrorDimensionMismatch, entry[ErrorCodeKey])
}

func TestZerologErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want interface{}
	}{
		{"not found", herrors.NewNotFoundError("housing.csv", nil), ErrorNotFound},
		{"parse", herrors.NewParseError(3, 2, "three", "invalid number"), ErrorParse},
		{"not fitted", herrors.NewNotFittedError("LinearRegression", "PredictRow"), ErrorNotFitted},
		{"singular", herrors.NewSingularMatrixError("linear.Solve", 1e15, 1e12), ErrorSingularMatrix},
		{"degenerate", herrors.NewDegenerateColumnError("StandardScaler.Fit", 1, 7), ErrorDegenerateColumn},
		{"wrapped", herrors.Wrap(herrors.NewSingularMatrixError("linear.Solve", 1e15, 1e12), "fit"), ErrorSingularMatrix},
		{"outside taxonomy", fmt.Errorf("disk full"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewZerologProvider(&buf, LevelError, false).GetLogger().Error("command failed", tt.err)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
			assert.Equal(t, tt.want, entry[ErrorCodeKey])
		})
	}
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SetupLogger("warn", &buf, false))
	defer func() {
		herrors.SetZerologWarnFunc(nil)
		SetProvider(NewZerologProvider(&bytes.Buffer{}, LevelInfo, false))
	}()

	GetLogger().Info("dropped")
	herrors.Warn(herrors.New("R² undefined"))

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "R² undefined")
	assert.Contains(t, out, `"ml.component":"warnings"`)

	assert.Error(t, SetupLogger("verbose", &buf, false))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"INFO", LevelInfo, false},
		{"", LevelInfo, false},
		{"warning", LevelWarn, false},
		{"error", LevelError, false},
		{"trace", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.NotEqual(t, "UNKNOWN", got.String())
		})
	}
}
