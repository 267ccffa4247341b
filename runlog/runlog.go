// Package runlog carries run diagnostics to an interactive sink and an
// append-only run-log artifact.
package runlog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger wraps slog.Logger with compseg-specific helpers.
type Logger struct {
	*slog.Logger
}

// New creates a Logger with the given handler.
// If handler is nil, uses a text handler to stderr at Info.
func New(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewText creates a Logger writing human-readable text to w.
func NewText(w io.Writer, level slog.Level) *Logger {
	return New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Noop returns a Logger that discards all output.
func Noop() *Logger {
	return New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// WithRun tags every record with the run id.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{Logger: l.Logger.With("run", id)}
}

// WithStep tags every record with the iteration number.
func (l *Logger) WithStep(step int) *Logger {
	return &Logger{Logger: l.Logger.With("iteration", step)}
}

// LogStart logs the run configuration.
func (l *Logger) LogStart(ctx context.Context, mode string, threshold, alpha float64, words, segments int) {
	l.InfoContext(ctx, "run started",
		"mode", mode,
		"threshold", threshold,
		"alpha", alpha,
		"words", words,
		"segments", segments,
	)
}

// LogIteration logs the outcome of one statistics-and-merge step.
func (l *Logger) LogIteration(ctx context.Context, step, clusters int, merged []string) {
	if len(merged) == 0 {
		l.InfoContext(ctx, "no clusters admitted",
			"iteration", step,
			"clusters", clusters,
		)
		return
	}
	l.InfoContext(ctx, "complex segments created",
		"iteration", step,
		"clusters", clusters,
		"admitted", len(merged),
		"segments", strings.Join(merged, " "),
	)
}

// LogAdvisory logs a non-fatal finding that the run continues past.
func (l *Logger) LogAdvisory(ctx context.Context, step int, kind string, items []string) {
	l.WarnContext(ctx, kind,
		"iteration", step,
		"count", len(items),
		"items", strings.Join(items, "; "),
	)
}

// LogFailure logs a terminal error.
func (l *Logger) LogFailure(ctx context.Context, step int, err error) {
	l.ErrorContext(ctx, "run failed",
		"iteration", step,
		"error", err,
	)
}

// LogConverged logs the end of a successful run.
func (l *Logger) LogConverged(ctx context.Context, steps int, created []string) {
	if len(created) == 0 {
		l.InfoContext(ctx, "converged: no complex segments found")
		return
	}
	l.InfoContext(ctx, "converged",
		"iterations", steps,
		"complex_segments", strings.Join(created, " "),
	)
}

// OpenRunLog opens path for appending, creating parent directories.
func OpenRunLog(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
}

// Fanout returns a handler that sends each record to every handler that is
// enabled for its level.
func Fanout(handlers ...slog.Handler) slog.Handler {
	return &fanout{handlers: handlers}
}

type fanout struct {
	handlers []slog.Handler
}

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &fanout{handlers: hs}
}

func (f *fanout) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &fanout{handlers: hs}
}
