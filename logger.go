package rawio

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with rawio-specific context.
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
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithPath adds a path field to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("path", path),
	}
}

// WithStore adds a store field to the logger (useful when several stores share a logger).
func (l *Logger) WithStore(store string) *Logger {
	return &Logger{
		Logger: l.Logger.With("store", store),
	}
}

// LogRead logs a ReadFile call.
func (l *Logger) LogRead(ctx context.Context, path string, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "map failed",
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "file mapped",
			"path", path,
			"size", size,
		)
	}
}

// LogWrite logs a WriteFile call.
func (l *Logger) LogWrite(ctx context.Context, path string, written int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "write failed",
			"path", path,
			"written", written,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "file written",
			"path", path,
			"written", written,
		)
	}
}

// LogBlobRead logs a ReadBlob call. mapped reports whether the blob is
// served zero-copy.
func (l *Logger) LogBlobRead(ctx context.Context, name string, size int64, mapped bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "blob read failed",
			"blob", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "blob read",
			"blob", name,
			"size", size,
			"mapped", mapped,
		)
	}
}

// LogBlobWrite logs a WriteBlob call.
func (l *Logger) LogBlobWrite(ctx context.Context, name string, written int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "blob write failed",
			"blob", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "blob written",
			"blob", name,
			"written", written,
		)
	}
}
