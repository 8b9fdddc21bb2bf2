// Package logging provides structured logging for the metric engine.
//
// Metric output (per-frame and per-sequence lines) is never routed through
// this package — it always goes to stdout via the output package, exactly
// as spec'd. Logging carries only diagnostics: schedule warnings, source
// open failures, and evaluator setup detail, all to stderr by default.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

// Logger wraps slog.Logger.
type Logger struct {
	*slog.Logger
}

// Config controls logger construction.
type Config struct {
	Level   slog.Level
	Output  io.Writer
	Enabled bool
}

// DefaultConfig returns the engine's default: info level, stderr, enabled.
func DefaultConfig() Config {
	return Config{
		Level:   LevelInfo,
		Output:  os.Stderr,
		Enabled: true,
	}
}

// New builds a Logger from cfg. A disabled config discards all output.
func New(cfg Config) *Logger {
	if !cfg.Enabled {
		return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{Level: cfg.Level})
	return &Logger{Logger: slog.New(handler)}
}

// WithComponent returns a logger scoped to a named component (source,
// driver, an evaluator) via a slog group.
func (l *Logger) WithComponent(name string) *Logger {
	return &Logger{Logger: l.WithGroup(name)}
}

var (
	globalLogger     *Logger
	globalLoggerOnce sync.Once
)

// Global returns the process-wide default logger, initialized lazily.
func Global() *Logger {
	globalLoggerOnce.Do(func() {
		globalLogger = New(DefaultConfig())
	})
	return globalLogger
}

// SetGlobal overrides the process-wide logger; later Global() calls return
// logger instead of building the default.
func SetGlobal(logger *Logger) {
	globalLoggerOnce.Do(func() {})
	globalLogger = logger
}

func Debug(msg string, args ...any) { Global().Debug(msg, args...) }
func Info(msg string, args ...any)  { Global().Info(msg, args...) }
func Warn(msg string, args ...any)  { Global().Warn(msg, args...) }
func Error(msg string, args ...any) { Global().Error(msg, args...) }
