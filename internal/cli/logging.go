package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/AxionSoftware-Inc/Revolution-AR/internal/config"
)

// newLogger builds the process logger. A log file gets JSON lines; without
// one, logs go to stderr as text unless quiet is set (the full-screen
// simulator owns the terminal).
func newLogger(c config.Log, stderr io.Writer, quiet bool) (*slog.Logger, func() error, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(c.Level))); err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	if p := strings.TrimSpace(c.File); p != "" {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, nil, fmt.Errorf("log dir: %w", err)
		}
		f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return slog.New(slog.NewJSONHandler(f, opts)), f.Close, nil
	}
	if quiet {
		return slog.New(slog.NewTextHandler(io.Discard, opts)), nil, nil
	}
	return slog.New(slog.NewTextHandler(stderr, opts)), nil, nil
}
