package docupdate

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/update"
)

// Logger wraps slog.Logger with docupdate-specific context.
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
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{Logger: slog.New(slog.DiscardHandler)}
}

// WithDocument adds document type and id fields to the logger.
func (l *Logger) WithDocument(docType, id string) *Logger {
	return &Logger{Logger: l.Logger.With("document_type", docType, "document_id", id)}
}

// WithPath adds a field path to the logger.
func (l *Logger) WithPath(path string) *Logger {
	return &Logger{Logger: l.Logger.With("path", path)}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{Logger: l.Logger.With("count", count)}
}

// LogApply logs the application of an update to one document.
func (l *Logger) LogApply(ctx context.Context, docID string, u update.PathUpdate, status fieldpath.ModificationStatus, err error) {
	if err != nil {
		l.ErrorContext(ctx, "update failed",
			"document_id", docID,
			"op", u.Op().String(),
			"path", u.FieldPath(),
			"status", status.String(),
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "update applied",
		"document_id", docID,
		"op", u.Op().String(),
		"path", u.FieldPath(),
		"status", status.String(),
	)
}

// LogBatch logs a batch application.
func (l *Logger) LogBatch(ctx context.Context, count, failed int) {
	if failed > 0 {
		l.WarnContext(ctx, "batch update completed with failures",
			"total", count,
			"failed", failed,
			"success", count-failed,
		)
		return
	}
	l.InfoContext(ctx, "batch update completed", "count", count)
}

// LogReplay logs a journal replay.
func (l *Logger) LogReplay(ctx context.Context, entriesReplayed int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "journal replay failed",
			"entries_replayed", entriesReplayed,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "journal replay completed", "entries_replayed", entriesReplayed)
}
