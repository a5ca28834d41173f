package labelset

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with labelset-specific context.
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
// This is the library default.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithFolder adds the collection folder name to the logger.
func (l *Logger) WithFolder(folder string) *Logger {
	return &Logger{
		Logger: l.Logger.With("folder", folder),
	}
}

// LogSave logs a completed (or failed) save operation.
func (l *Logger) LogSave(ctx context.Context, p Polarity, total, ordinal int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"polarity", p.String(),
			"total", total,
			"ordinal", ordinal,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "save completed",
			"polarity", p.String(),
			"total", total,
			"ordinal", ordinal,
		)
	}
}

// LogAudit logs an audit pass.
func (l *Logger) LogAudit(ctx context.Context, consistent bool, missing int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "audit failed",
			"error", err,
		)
	} else if !consistent {
		l.WarnContext(ctx, "audit found inconsistencies",
			"missing_files", missing,
		)
	} else {
		l.InfoContext(ctx, "audit completed",
			"missing_files", 0,
		)
	}
}

// LogMirror logs a mirror operation.
func (l *Logger) LogMirror(ctx context.Context, uploaded, skipped int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "mirror failed",
			"uploaded", uploaded,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "mirror completed",
			"uploaded", uploaded,
			"skipped", skipped,
			"bytes", bytes,
		)
	}
}
