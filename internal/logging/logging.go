// Package logging sets up slog for a process whose terminal belongs to
// the UI.
package logging

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ParseLevel maps debug, info, warn and error to slog levels. Empty means
// info.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if name == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// Open returns a logger writing JSON records to path and a func closing
// the file. An empty path returns a discarding logger.
func Open(path, level string) (*slog.Logger, func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	if path == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log directory %s: %w", dir, err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: lvl})
	return slog.New(handler), file.Close, nil
}
