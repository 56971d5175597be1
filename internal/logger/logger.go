// Package logger provides the process-wide structured logger.
//
// Callers use the package level helpers with hclog style key/value pairs:
//
//	logger.Info("movie created", "movie_id", m.ID, "status_id", m.StatusID)
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Options controls how the root logger is built
type Options struct {
	// Level is the minimum level: trace, debug, info, warn, error
	Level string
	// Format is "json" or "text"
	Format string
	// Output is "stdout", "stderr" or "file"
	Output string
	// FilePath is used when Output is "file"
	FilePath string
}

var (
	root   hclog.InterceptLogger
	rootMu sync.RWMutex
)

func init() {
	root = hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Name:   "moviegraph",
		Level:  hclog.Info,
		Output: os.Stderr,
	})
}

// New builds a logger from options without installing it
func New(opts Options) (hclog.InterceptLogger, error) {
	out, err := openOutput(opts)
	if err != nil {
		return nil, err
	}

	return hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Name:            "moviegraph",
		Level:           ParseLevel(opts.Level),
		Output:          out,
		JSONFormat:      strings.EqualFold(opts.Format, "json"),
		IncludeLocation: false,
		TimeFormat:      "2006-01-02T15:04:05.000Z0700",
	}), nil
}

// Setup builds the root logger from options and installs it
func Setup(opts Options) error {
	l, err := New(opts)
	if err != nil {
		return err
	}
	SetDefault(l)
	return nil
}

// SetDefault replaces the root logger
func SetDefault(l hclog.InterceptLogger) {
	rootMu.Lock()
	defer rootMu.Unlock()
	root = l
}

// Default returns the root logger
func Default() hclog.Logger {
	rootMu.RLock()
	defer rootMu.RUnlock()
	return root
}

// Named returns a sub-logger of the root logger
func Named(name string) hclog.Logger {
	return Default().Named(name)
}

// SetLevel changes the level of the root logger and every sub-logger derived from it
func SetLevel(level string) {
	Default().SetLevel(ParseLevel(level))
}

// ParseLevel maps a level name to an hclog level, defaulting to info
func ParseLevel(level string) hclog.Level {
	l := hclog.LevelFromString(strings.TrimSpace(level))
	if l == hclog.NoLevel {
		return hclog.Info
	}
	return l
}

// Info logs informational messages
func Info(msg string, args ...interface{}) {
	Default().Info(msg, args...)
}

// Warn logs warning messages
func Warn(msg string, args ...interface{}) {
	Default().Warn(msg, args...)
}

// Error logs error messages
func Error(msg string, args ...interface{}) {
	Default().Error(msg, args...)
}

// Debug logs debug messages
func Debug(msg string, args ...interface{}) {
	Default().Debug(msg, args...)
}

func openOutput(opts Options) (io.Writer, error) {
	switch strings.ToLower(opts.Output) {
	case "", "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "file":
		if opts.FilePath == "" {
			return nil, fmt.Errorf("log output is file but no file path is set")
		}
		f, err := os.OpenFile(opts.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %w", opts.FilePath, err)
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported log output: %s", opts.Output)
	}
}
