package eratosthenes

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with sieve-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithOperation adds an operation field to the logger.
func (l *Logger) WithOperation(op string) *Logger {
	return &Logger{
		Logger: l.Logger.With("operation", op),
	}
}

// WithBound adds a bound field to the logger.
func (l *Logger) WithBound(bound string) *Logger {
	return &Logger{
		Logger: l.Logger.With("bound", bound),
	}
}

// WithWheelOrder adds a wheel order field to the logger.
func (l *Logger) WithWheelOrder(order int) *Logger {
	return &Logger{
		Logger: l.Logger.With("wheel_order", order),
	}
}

// LogSieve logs a prime generation operation.
func (l *Logger) LogSieve(ctx context.Context, op, bound string, primes uint64, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "sieve failed",
			"operation", op,
			"bound", bound,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "sieve completed",
			"operation", op,
			"bound", bound,
			"primes", primes,
			"elapsed", elapsed,
		)
	}
}
