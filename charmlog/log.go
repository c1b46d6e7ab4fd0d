// Package charmlog provides an implementation of weekgo.Logger using charmbracelet/log
package charmlog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/benjamonnguyen/weekgo"
	"github.com/charmbracelet/log"
)

type Options struct {
	Writer          io.Writer
	Level           string
	Prefix          string
	ReportTimestamp bool
}

// NewLogger falls back to INFO when opts.Level cannot be parsed.
func NewLogger(opts Options) weekgo.Logger {
	var w io.Writer = os.Stdout
	if opts.Writer != nil {
		w = opts.Writer
	}

	lvl, err := log.ParseLevel(opts.Level)
	if err != nil {
		lvl = log.InfoLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
		TimeFormat:      "2006-01-02 15:04:05",
	})
}

// NewFileLogger appends timestamped logs to path, creating its directory.
// The caller closes the returned file.
func NewFileLogger(path, level string) (weekgo.Logger, io.Closer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return NewLogger(Options{
		Writer:          f,
		Level:           level,
		ReportTimestamp: true,
	}), f, nil
}
