// Package log provides a structured logging interface for housereg.
//
// The interface is slog-compatible (key/value field pairs) so callers never
// depend on the backend directly. The default backend is zerolog; tests use
// TestLogger to capture and inspect output.
//
// Example usage:
//
//	logger := log.GetLoggerWithName("linear").With(
//	    log.ModelNameKey, "LinearRegression",
//	    log.EstimatorIDKey, id,
//	)
//	logger.Info("fit completed",
//	    log.OperationKey, log.OperationFit,
//	    log.SamplesKey, 100,
//	    log.FeaturesKey, 4,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// Fields are alternating key/value pairs. For Error, an error value passed as
// the first field is attached under ErrAttrKey together with its stack trace.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	//
	// Example:
	//   logger.Error("fit failed",
	//       err,
	//       log.OperationKey, log.OperationFit,
	//   )
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4
	LevelInfo  Level = 0
	LevelWarn  Level = 4
	LevelError Level = 8
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider creates and configures loggers.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for all loggers created by this provider.
	SetLevel(level Level)
}
