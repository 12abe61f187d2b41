package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Logger wraps charm/log for structured logging
type Logger struct {
	*log.Logger
}

// New creates a new logger with the given output
func New(w io.Writer) *Logger {
	return NewWithLevel(w, log.InfoLevel)
}

// NewWithLevel creates a logger with a specific level
func NewWithLevel(w io.Writer, level log.Level) *Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
		Prefix:          "parsercache",
	})
	return &Logger{Logger: l}
}

// NewFileLogger creates a logger that appends to a file
func NewFileLogger(path string, level log.Level) (*Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		f.Close()
	}

	return NewWithLevel(f, level), cleanup, nil
}

// Discard returns a logger that discards all output
func Discard() *Logger {
	return New(io.Discard)
}

// ParseLevel maps a config level name to a charm/log level.
// An empty name means info.
func ParseLevel(name string) (log.Level, error) {
	if name == "" {
		return log.InfoLevel, nil
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level '%s': %w", name, err)
	}
	return level, nil
}

// ParseStarted logs the start of a parse call
func (l *Logger) ParseStarted(runID, path, ext string) {
	l.Debug("parse started",
		"run_id", runID,
		"path", path,
		"ext", ext)
}

// StackResolved logs which stack a parse call will run
func (l *Logger) StackResolved(runID, source string, size int) {
	l.Debug("stack resolved",
		"run_id", runID,
		"source", source,
		"parsers", size)
}

// ParseCompleted logs a successful parse
func (l *Logger) ParseCompleted(runID, path string, duration time.Duration) {
	l.Debug("parse completed",
		"run_id", runID,
		"path", path,
		"duration", duration.Round(time.Microsecond))
}

// ParseFailed logs a parse that ended with an error
func (l *Logger) ParseFailed(runID, path string, err error) {
	l.Warn("parse failed",
		"run_id", runID,
		"path", path,
		"error", err)
}

// BatchCompleted logs the end of a directory run
func (l *Logger) BatchCompleted(dir string, processed, skipped, errors int, duration time.Duration) {
	l.Info("batch completed",
		"dir", dir,
		"files_parsed", processed,
		"skipped", skipped,
		"errors", errors,
		"duration", duration.Round(time.Millisecond))
}

// FileError logs an error for a specific file
func (l *Logger) FileError(file string, err error) {
	l.Error("file error",
		"file", file,
		"error", err)
}

// Skipped logs when a file is skipped
func (l *Logger) Skipped(file, reason string) {
	l.Debug("file skipped",
		"file", file,
		"reason", reason)
}

// WatchEvent logs a file system change picked up by the watcher
func (l *Logger) WatchEvent(file, op string) {
	l.Debug("watch event",
		"file", file,
		"op", op)
}

// ConfigLoaded logs successful config loading
func (l *Logger) ConfigLoaded(path string, stacks int) {
	l.Debug("config loaded",
		"path", path,
		"stacks", stacks)
}
