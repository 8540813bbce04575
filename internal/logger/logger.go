// Package logger provides structured slog loggers for the test kit and the
// LogOutputChannel facade that code under test writes to. All file logs are
// written in JSON format.
//
// Log files are organized as:
//
//	<logDir>/system.log            — application-level events (rotated)
//	<logDir>/runs/<id>.log         — per invocation of the run command
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation controls size-based rotation of the system log.
type Rotation struct {
	MaxSizeMB  int
	MaxBackups int
}

// NewSystemLogger creates a JSON slog.Logger that writes to <logDir>/system.log.
// The directory is created if it does not exist. The returned closer releases
// the log file.
func NewSystemLogger(logDir string, level slog.Level, rot Rotation) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("creating log directory %q: %w", logDir, err)
	}

	w := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "system.log"),
		MaxSize:    rot.MaxSizeMB,
		MaxBackups: rot.MaxBackups,
	}

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(handler), w, nil
}

// NewRunLogger creates a JSON slog.Logger that writes to
// <logDir>/runs/<invocationID>.log and tags every record with invocation_id.
// The runs sub-directory is created if it does not exist. The returned closer
// releases the log file.
func NewRunLogger(logDir string, invocationID string, level slog.Level) (*slog.Logger, io.Closer, error) {
	runsDir := filepath.Join(logDir, "runs")
	if err := os.MkdirAll(runsDir, 0750); err != nil {
		return nil, nil, fmt.Errorf("creating runs log directory %q: %w", runsDir, err)
	}

	f, err := openLogFile(filepath.Join(runsDir, invocationID+".log"))
	if err != nil {
		return nil, nil, err
	}

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With("invocation_id", invocationID), f, nil
}

// openLogFile opens (or creates) a log file with append semantics.
func openLogFile(path string) (*os.File, error) {
	//nolint:gosec // path is built from the configured log dir and a generated run ID
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", path, err)
	}
	return f, nil
}
