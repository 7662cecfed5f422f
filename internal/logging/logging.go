// Package logging builds the slog logger shared by commands and the TUI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/brightpath/ldscreen/internal/store"
)

// New returns a text logger writing to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Open returns a logger for a process that owns the terminal. Records go to
// path when set and are discarded otherwise. The returned close func is
// never nil.
func Open(path string, level slog.Level) (*slog.Logger, func() error, error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() error { return nil }, nil
	}
	if err := store.EnsureDir(path); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f.Close, nil
}
