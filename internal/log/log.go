// ABOUTME: Leveled logging for richinput diagnostics, filtered by a global slog level
// ABOUTME: Writes to stderr by default so messages never interleave with the edited line

package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level atomic.Int64

	mu  sync.Mutex
	out io.Writer = os.Stderr
)

func init() {
	level.Store(int64(LevelWarn))
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Store(int64(l))
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return slog.Level(level.Load())
}

// SetOutput redirects log output and returns the previous writer.
// A raw-mode session should point this at a file.
func SetOutput(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := out
	out = w
	return prev
}

// ParseLevel maps a config name ("debug", "info", "warn", "error") to a level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", name)
}

func enabled(l slog.Level) bool {
	return slog.Level(level.Load()) <= l
}

func emit(tag, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintf(out, "["+tag+"] "+format+"\n", args...)
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) {
	if enabled(LevelDebug) {
		emit("DEBUG", format, args...)
	}
}

// Info logs an info message if the level allows it.
func Info(format string, args ...any) {
	if enabled(LevelInfo) {
		emit("INFO", format, args...)
	}
}

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) {
	if enabled(LevelWarn) {
		emit("WARN", format, args...)
	}
}

// Error logs an error message (always emitted).
func Error(format string, args ...any) {
	emit("ERROR", format, args...)
}
