// Package logging builds the loggers used across the client. Every logger it
// hands out writes through redact.Writer, so records are scrubbed after
// formatting and before they reach any sink.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cryol/pyapi-zabbix/pkg/redact"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configure a logger.
type Options struct {
	Level     string
	Format    string
	Prefix    string
	Timestamp bool
}

var (
	mu            sync.RWMutex
	defaultLogger *log.Logger
	logFile       *lumberjack.Logger
)

// New returns a charmbracelet logger writing to w through the redaction
// middleware.
func New(w io.Writer, opts Options) *log.Logger {
	level, err := log.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = log.InfoLevel
	}

	return log.NewWithOptions(redact.NewWriter(w), log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.Timestamp,
		TimeFormat:      time.DateTime,
		Formatter:       formatter(opts.Format),
	})
}

func formatter(name string) log.Formatter {
	switch strings.ToLower(name) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}

// Init registers a process-wide logger writing to a rotated file at path.
// An empty path keeps stderr as the sink.
func Init(path string, opts Options) error {
	var out io.Writer = os.Stderr

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory for %s: %w", path, err)
		}

		file := &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}

		mu.Lock()
		logFile = file
		mu.Unlock()

		out = file
	}

	setDefault(New(out, opts))
	Default().Debug("logging initialized", "output", path)

	return nil
}

func setDefault(l *log.Logger) {
	mu.Lock()
	defer mu.Unlock()

	defaultLogger = l
}

// Default returns the registered logger, creating a redacting stderr logger
// on first use.
func Default() *log.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()

	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()

	if defaultLogger == nil {
		defaultLogger = New(os.Stderr, Options{Level: "info", Timestamp: true})
	}

	return defaultLogger
}

// Log formats a debug message with caller info and writes it to the
// registered logger.
func Log(format string, v ...interface{}) {
	_, file, line, ok := runtime.Caller(1)
	callerInfo := ""
	if ok {
		callerInfo = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	Default().Debug(fmt.Sprintf(format, v...), "caller", callerInfo)
}

// Close closes the log file opened by Init.
func Close() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}

	err := logFile.Close()
	logFile = nil

	return err
}
