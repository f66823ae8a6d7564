package poseact

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with recognizer-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithLabel adds a label field to the logger.
func (l *Logger) WithLabel(label string) *Logger {
	return &Logger{
		Logger: l.Logger.With("label", label),
	}
}

// WithSlot adds a slot field to the logger.
func (l *Logger) WithSlot(slot int) *Logger {
	return &Logger{
		Logger: l.Logger.With("slot", slot),
	}
}

// LogInfer logs a prediction. Calls that returned no result are not logged.
func (l *Logger) LogInfer(ctx context.Context, active int, best string, err error) {
	if err != nil {
		l.WarnContext(ctx, "inference failed",
			"active", active,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "inference completed",
		"active", active,
		"best", best,
	)
}

// LogRegister logs a support registration.
func (l *Logger) LogRegister(ctx context.Context, label string, slot int, replaced bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "register failed",
			"label", label,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "exemplar registered",
			"label", label,
			"slot", slot,
			"replaced", replaced,
		)
	}
}

// LogRemove logs a support removal.
func (l *Logger) LogRemove(ctx context.Context, label string, slot int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "remove failed",
			"label", label,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "exemplar removed",
			"label", label,
			"slot", slot,
		)
	}
}

// LogRestore logs a wholesale support-set replacement.
func (l *Logger) LogRestore(ctx context.Context, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "restore failed",
			"exemplars", count,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "support set restored",
			"exemplars", count,
		)
	}
}
