// Package logger is a thin slog facade shared by every formbuilder package.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Default is the process-wide logger. Until Init runs it writes warnings
// and errors to stderr, so stdout stays free for build results.
var Default = newLogger(os.Stderr, slog.LevelWarn)

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Config selects where log records go.
type Config struct {
	// Path is an optional log file, appended to across runs.
	Path  string
	Level string
	// Console enables the console sink, which is Writer or stderr.
	Console bool
	Writer  io.Writer
}

// ParseLevel maps a level name onto a slog level. Unknown names map to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Init replaces Default according to cfg. The returned closer releases the
// log file, if one was opened.
func Init(cfg Config) (io.Closer, error) {
	var sinks []io.Writer
	if cfg.Console {
		console := cfg.Writer
		if console == nil {
			console = os.Stderr
		}
		sinks = append(sinks, console)
	}

	var closer io.Closer = nopCloser{}
	if cfg.Path != "" {
		file, err := openLogFile(cfg.Path)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, file)
		closer = file
	}

	var w io.Writer
	switch len(sinks) {
	case 0:
		w = io.Discard
	case 1:
		w = sinks[0]
	default:
		w = io.MultiWriter(sinks...)
	}

	Default = newLogger(w, ParseLevel(cfg.Level))
	return closer, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func Debug(msg string, args ...any) { Default.Debug(msg, args...) }
func Info(msg string, args ...any)  { Default.Info(msg, args...) }
func Warn(msg string, args ...any)  { Default.Warn(msg, args...) }

// With returns Default with the given attributes attached.
func With(args ...any) *slog.Logger {
	return Default.With(args...)
}
