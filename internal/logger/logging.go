// Package logger provides prefixed charmbracelet/log loggers.
//
// Everything logs to stderr: stdout belongs to the IPC protocol.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a prefixed logger on stderr that follows the global log level.
func New(prefix string) *log.Logger {
	return NewWriter(os.Stderr, prefix)
}

// NewWriter is New with a custom destination.
func NewWriter(w io.Writer, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: log.GetLevel() == log.DebugLevel,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(w io.Writer, prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

// ParseLevel maps a config level name to a log.Level, falling back to warn.
func ParseLevel(name string) log.Level {
	if name == "" {
		return log.WarnLevel
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		log.Warnf("Unknown log level %q, using warn", name)
		return log.WarnLevel
	}
	return level
}
