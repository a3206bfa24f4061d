package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	herrors "github.com/YuminosukeSato/housereg/pkg/errors"
)

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
	DetailAttrKey     = "error_detail"
)

var (
	providerMu      sync.RWMutex
	defaultProvider LoggerProvider = NewZerologProvider(os.Stderr, LevelInfo, false)
)

// SetupLogger installs a zerolog-backed provider writing to w and routes
// library warnings (errors.Warn) through it. pretty selects zerolog's
// human-readable console writer instead of JSON lines.
func SetupLogger(loglevel string, w io.Writer, pretty bool) error {
	level, err := ParseLevel(loglevel)
	if err != nil {
		return err
	}
	p := NewZerologProvider(w, level, pretty)
	SetProvider(p)

	warnLogger := p.GetLoggerWithName("warnings")
	herrors.SetZerologWarnFunc(func(warning error) {
		warnLogger.Warn(warning.Error(), ErrorTypeKey, fmt.Sprintf("%T", warning))
	})
	return nil
}

// ParseLevel converts a level name ("debug", "info", "warn", "error") to a Level.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	default:
		return LevelInfo, herrors.NewValueError("log.ParseLevel", fmt.Sprintf("invalid log level: %q", level))
	}
}

// SetProvider replaces the package-level provider.
func SetProvider(p LoggerProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	defaultProvider = p
}

// GetLogger returns the default logger of the current provider.
func GetLogger() Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLogger()
}

// GetLoggerWithName returns a logger tagged with the given component name.
func GetLoggerWithName(name string) Logger {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return defaultProvider.GetLoggerWithName(name)
}

// ZerologProvider implements LoggerProvider on top of a zerolog.Logger.
type ZerologProvider struct {
	mu   sync.RWMutex
	base zerolog.Logger
}

// NewZerologProvider creates a provider writing to w at the given level.
func NewZerologProvider(w io.Writer, level Level, pretty bool) *ZerologProvider {
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}
	base := zerolog.New(w).With().Timestamp().Logger().Level(toZerologLevel(level))
	return &ZerologProvider{base: base}
}

// GetLogger implements LoggerProvider.GetLogger.
func (p *ZerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{zl: p.base}
}

// GetLoggerWithName implements LoggerProvider.GetLoggerWithName.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{zl: p.base.With().Str(ComponentKey, name).Logger()}
}

// SetLevel implements LoggerProvider.SetLevel.
func (p *ZerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Level(toZerologLevel(level))
}

type zerologLogger struct {
	zl zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...any) {
	l.zl.Debug().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields ...any) {
	l.zl.Info().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields ...any) {
	l.zl.Warn().Fields(fields).Msg(msg)
}

// Error attaches a leading error field with its stack trace and, when the
// error carries one, its structured zerolog representation.
func (l *zerologLogger) Error(msg string, fields ...any) {
	ev := l.zl.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			fields = fields[1:]
			ev = ev.AnErr(ErrAttrKey, err)
			if code := errorCode(err); code != "" {
				ev = ev.Str(ErrorCodeKey, code)
			}
			if st := extractStacktrace(err); st != "" {
				ev = ev.Str(StacktraceAttrKey, st)
			}
			var detail zerolog.LogObjectMarshaler
			if errors.As(err, &detail) {
				ev = ev.Object(DetailAttrKey, detail)
			}
		}
	}
	ev.Fields(fields).Msg(msg)
}

func (l *zerologLogger) With(fields ...any) Logger {
	return &zerologLogger{zl: l.zl.With().Fields(fields).Logger()}
}

func (l *zerologLogger) Enabled(_ context.Context, level Level) bool {
	return l.zl.GetLevel() <= toZerologLevel(level)
}

func toZerologLevel(level Level) zerolog.Level {
	switch {
	case level <= LevelDebug:
		return zerolog.DebugLevel
	case level <= LevelInfo:
		return zerolog.InfoLevel
	case level <= LevelWarn:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// errorCode maps the housereg error taxonomy to a stable code for log queries.
// Errors outside the taxonomy have no code.
func errorCode(err error) string {
	var (
		notFound   *herrors.NotFoundError
		parse      *herrors.ParseError
		notFitted  *herrors.NotFittedError
		dimension  *herrors.DimensionError
		singular   *herrors.SingularMatrixError
		degenerate *herrors.DegenerateColumnError
	)
	switch {
	case errors.As(err, &notFound):
		return ErrorNotFound
	case errors.As(err, &parse):
		return ErrorParse
	case errors.As(err, &notFitted):
		return ErrorNotFitted
	case errors.As(err, &dimension):
		return ErrorDimensionMismatch
	case errors.As(err, &singular):
		return ErrorSingularMatrix
	case errors.As(err, &degenerate):
		return ErrorDegenerateColumn
	}
	return ""
}

// extractStacktrace returns the stack recorded by cockroachdb/errors, if any.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
