package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu      sync.Mutex
	verbose bool
	jsonOut bool
	output  io.Writer = os.Stderr
)

// SetVerbose switches between debug and warn level on the next Install.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetJSON selects the JSON handler instead of the text handler.
func SetJSON(v bool) {
	mu.Lock()
	defer mu.Unlock()
	jsonOut = v
}

// SetOutput sets the log destination. nil restores os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
}

// New builds a logger from the current settings.
func New() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if jsonOut {
		return slog.New(slog.NewJSONHandler(output, opts))
	}
	return slog.New(slog.NewTextHandler(output, opts))
}

// Install builds a logger and makes it the slog default.
func Install() *slog.Logger {
	l := New()
	slog.SetDefault(l)
	return l
}

// ParseFormat reports whether a --log-format value selects JSON output.
func ParseFormat(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "json")
}
