package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger provides structured logging with domain helpers
type Logger struct {
	*slog.Logger
}

// New creates a logger writing JSON records to w at the given level. CLI
// commands log to stderr so stdout stays clean for report and export output.
func New(w io.Writer, level slog.Level) *Logger {
	if w == nil {
		w = os.Stderr
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Add timestamp in RFC3339 format
			if a.Key == slog.TimeKey {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{
		Logger: slog.New(handler),
	}
}

// ParseLevel maps a config string onto a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
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

// EvaluationLogger logs evaluation details
func (l *Logger) EvaluationLogger(score int, band string, blockers int, duration time.Duration) {
	l.Info("Evaluation Completed",
		"score", score,
		"band", band,
		"blockers", blockers,
		"duration_us", duration.Microseconds(),
	)
}

// StoreLogger logs persistence operations
func (l *Logger) StoreLogger(operation, id string, duration time.Duration) {
	l.Debug("Store Operation",
		"operation", operation,
		"id", id,
		"duration_ms", duration.Milliseconds(),
	)
}

// ExportLogger logs export operations
func (l *Logger) ExportLogger(format, destination string) {
	l.Info("Export Completed",
		"format", format,
		"destination", destination,
	)
}
