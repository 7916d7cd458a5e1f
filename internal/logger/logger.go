package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"
)

// Logger defines the logging interface used throughout gitwip.
// It separates internal diagnostics (Info, Warning, Error), which go to the
// debug log file, from user-facing messages, which are always printed.
type Logger interface {
	// Info logs an informational message to the debug log only.
	Info(format string, args ...interface{})

	// Warning logs a warning to the debug log, and to stdout in verbose mode.
	Warning(format string, args ...interface{})

	// Error logs an error to the debug log and always prints it to stderr.
	Error(format string, args ...interface{})

	// InfoToUser prints an informational message and logs it.
	InfoToUser(format string, args ...interface{})

	// WarningToUser prints a warning and logs it.
	WarningToUser(format string, args ...interface{})

	// Success prints a success message and logs it.
	Success(format string, args ...interface{})

	// StatusMessage prints a plain status line without logging it.
	StatusMessage(format string, args ...interface{})

	// Close flushes and closes the debug log file, if one is open.
	Close() error
}

var (
	infoGlyph    = color.New(color.FgCyan).Sprint("ℹ️ ")
	successGlyph = color.New(color.FgGreen).Sprint("✅")
	warningGlyph = color.New(color.FgYellow).Sprint("⚠️ ")
	errorGlyph   = color.New(color.FgRed, color.Bold).Sprint("❌")
)

// DefaultLogger provides structured logging capability and implements the Logger interface
type DefaultLogger struct {
	mu      sync.Mutex
	logger  *slog.Logger
	enabled bool
	logFile string
	verbose bool
	stdout  io.Writer
	stderr  io.Writer
	file    *os.File
}

// New creates a new Logger instance
func New(enabled bool, logFile string, verbose bool) Logger {
	return NewWithOutput(enabled, logFile, verbose, os.Stdout, os.Stderr)
}

// NewWithOutput creates a DefaultLogger with custom output writers
func NewWithOutput(enabled bool, logFile string, verbose bool, stdout, stderr io.Writer) *DefaultLogger {
	var logger *slog.Logger

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	var file *os.File

	if enabled {
		logDir := filepath.Dir(logFile)
		if logDir != "." {
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				_, _ = fmt.Fprintf(stderr, "%s Failed to create log directory: %v\n", warningGlyph, err)
			}
		}

		f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err == nil {
			file = f
			logger = slog.New(slog.NewTextHandler(f, opts))
			_, _ = fmt.Fprintf(stdout, "🔍 Debug logging enabled. Logs will be written to: %s\n", logFile)

			logger.Info("gitwip debug logging started")
		} else {
			logger = slog.New(slog.NewTextHandler(stderr, opts))
			_, _ = fmt.Fprintf(stderr, "%s Failed to open log file: %v, using stderr instead\n", warningGlyph, err)
		}
	} else {
		logger = slog.New(slog.NewTextHandler(stderr, opts))
	}

	return &DefaultLogger{
		logger:  logger,
		enabled: enabled,
		logFile: logFile,
		verbose: verbose,
		stdout:  stdout,
		stderr:  stderr,
		file:    file,
	}
}

// Info logs an informational message (file only)
func (l *DefaultLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.enabled {
		return
	}

	l.logger.Info(fmt.Sprintf(format, args...))
}

// InfoToUser logs an informational message to both file and stdout
func (l *DefaultLogger) InfoToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.enabled {
		l.logger.Info(msg)
	}

	_, _ = fmt.Fprintf(l.stdout, "%s %s\n", infoGlyph, msg)
}

// Success logs a success message to both file and stdout
func (l *DefaultLogger) Success(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.enabled {
		l.logger.Info(msg)
	}

	_, _ = fmt.Fprintf(l.stdout, "%s %s\n", successGlyph, msg)
}

// Warning logs a warning message
func (l *DefaultLogger) Warning(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.enabled {
		l.logger.Warn(msg)
	}

	if l.verbose {
		_, _ = fmt.Fprintf(l.stdout, "%s %s\n", warningGlyph, msg)
	}
}

// WarningToUser logs a warning message to both file and stdout
func (l *DefaultLogger) WarningToUser(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.enabled {
		l.logger.Warn(msg)
	}

	_, _ = fmt.Fprintf(l.stdout, "%s %s\n", warningGlyph, msg)
}

// Error logs an error message
func (l *DefaultLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := fmt.Sprintf(format, args...)
	if l.enabled {
		l.logger.Error(msg)
	}

	// Errors are shown regardless of debug status
	_, _ = fmt.Fprintf(l.stderr, "%s %s\n", errorGlyph, msg)
}

// StatusMessage prints a status message to stdout only (no logging)
func (l *DefaultLogger) StatusMessage(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	_, _ = fmt.Fprintln(l.stdout, fmt.Sprintf(format, args...))
}

// Close ensures any buffered data is written and closes open log file handles
func (l *DefaultLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}

	if err := l.file.Sync(); err != nil {
		return err
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// SetStdout sets a custom writer for user-facing stdout messages only.
// It does not affect where slog records are written.
func (l *DefaultLogger) SetStdout(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stdout = w
}

// SetStderr sets a custom writer for user-facing stderr messages only.
// It does not affect where slog records are written.
func (l *DefaultLogger) SetStderr(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.stderr = w
}

// Nop returns a Logger that discards everything. Useful for tests and for
// library callers that do not want output.
func Nop() Logger {
	return NewWithOutput(false, "", false, io.Discard, io.Discard)
}
