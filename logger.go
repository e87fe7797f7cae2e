package markgen

import (
	"log/slog"
)

// Logger defines the interface for generator logging.
// Every stage logs with key-value pairs so that callers control how
// generation output appears:
//
//	logger.Info("stage finished", "batch", id, "stage", "validate", "count", 3)
//
// The interface is compatible with log/slog and most structured loggers.
type Logger interface {
	// Info logs stage progress and written units.
	Info(msg string, args ...any)

	// Error logs error diagnostics and failed units.
	Error(msg string, args ...any)

	// Warn logs warning diagnostics and tolerated type errors.
	Warn(msg string, args ...any)

	// Debug logs per-declaration detail.
	Debug(msg string, args ...any)
}

// SlogLogger adapts a *slog.Logger to Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps logger; a nil logger uses slog.Default.
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

func (l *SlogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *SlogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}

func (l *SlogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *SlogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}
