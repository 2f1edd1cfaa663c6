package cadmus

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/lmittmann/tint"
)

// runID correlates every log line and telemetry span of one application
// run. Assigned once at InitLogging; UUIDv7 so filenames sort by time.
var runID string

// RunID returns the current run's identifier, or "" before InitLogging.
func RunID() string {
	return runID
}

// InitLogging configures the default slog logger: a JSON handler writing to
// logs/cadmus-<run-id>.json plus a tinted console handler on stderr for
// interactive runs. Older log files beyond MaxFiles are deleted. Returns a
// close function that flushes the log file.
func InitLogging(settings LoggingSettings) (func() error, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("logging: run id: %w", err)
	}
	runID = id.String()

	level := parseLevel(settings.Level)
	console := tint.NewHandler(os.Stderr, &tint.Options{Level: level})

	if !settings.Enabled {
		slog.SetDefault(slog.New(console))
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(settings.Directory, 0o755); err != nil {
		return nil, fmt.Errorf("logging: mkdir %s: %w", settings.Directory, err)
	}
	if err := cleanupLogs(settings.Directory, settings.MaxFiles); err != nil {
		return nil, err
	}

	path := filepath.Join(settings.Directory, fmt.Sprintf("cadmus-%s.json", runID))
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("logging: create %s: %w", path, err)
	}

	fileHandler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}).
		WithAttrs([]slog.Attr{slog.String("run_id", runID)})
	slog.SetDefault(slog.New(&teeHandler{handlers: []slog.Handler{fileHandler, console}}))
	slog.Info("logging initialized", "file", path, "level", level.String())

	return f.Close, nil
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// cleanupLogs deletes the oldest cadmus-*.json files so that at most
// maxFiles-1 remain before the new file is created. UUIDv7 names sort by
// creation time, so a lexical sort is a time sort.
func cleanupLogs(dir string, maxFiles int) error {
	if maxFiles <= 0 {
		return nil
	}
	matches, err := filepath.Glob(filepath.Join(dir, "cadmus-*.json"))
	if err != nil {
		return fmt.Errorf("logging: scan %s: %w", dir, err)
	}
	sort.Strings(matches)
	for len(matches) >= maxFiles {
		if err := os.Remove(matches[0]); err != nil {
			return fmt.Errorf("logging: remove %s: %w", matches[0], err)
		}
		matches = matches[1:]
	}
	return nil
}

// teeHandler fans records out to multiple handlers.
type teeHandler struct {
	handlers []slog.Handler
}

func (t *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (t *teeHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range t.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (t *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithAttrs(attrs)
	}
	return &teeHandler{handlers: handlers}
}

func (t *teeHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		handlers[i] = h.WithGroup(name)
	}
	return &teeHandler{handlers: handlers}
}
