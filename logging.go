package variation

import (
	"context"
	"log/slog"
	"time"
)

// LogLevel classifies a LogEvent.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// LogEvent describes something the engine wants to report. Component names the
// emitting part ("catalog", "layout", "evaluator", "dataset", ...).
type LogEvent struct {
	Level     LogLevel
	Component string
	Message   string
	Seed      int
	Key       string
	Duration  time.Duration
	Err       error
	Fields    map[string]any
}

// Logger records engine events.
type Logger interface {
	Log(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// Log implements Logger.
func (f LoggerFunc) Log(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) Log(LogEvent) {}

// NopLogger returns a Logger that discards every event.
func NopLogger() Logger {
	return noopLogger{}
}

type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger adapts a *slog.Logger. A nil logger uses slog.Default().
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return slogLogger{logger: logger}
}

func (l slogLogger) Log(event LogEvent) {
	attrs := make([]slog.Attr, 0, 5+len(event.Fields))
	if event.Component != "" {
		attrs = append(attrs, slog.String("component", event.Component))
	}
	if event.Seed != 0 {
		attrs = append(attrs, slog.Int("seed", event.Seed))
	}
	if event.Key != "" {
		attrs = append(attrs, slog.String("key", event.Key))
	}
	if event.Duration > 0 {
		attrs = append(attrs, slog.Duration("duration", event.Duration))
	}
	if event.Err != nil {
		attrs = append(attrs, slog.Any("error", event.Err))
	}
	for name, value := range event.Fields {
		attrs = append(attrs, slog.Any(name, value))
	}
	l.logger.LogAttrs(context.Background(), event.Level.slogLevel(), event.Message, attrs...)
}

func (lvl LogLevel) slogLevel() slog.Level {
	switch lvl {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func loggerOrNop(logger Logger) Logger {
	if logger == nil {
		return noopLogger{}
	}
	return logger
}
