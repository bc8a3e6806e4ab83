// Package logging writes Warden's diagnostic log. Every component in a
// process writes to one shared file under ~/.warden/logs/, named after a
// per-run identifier, so a whole daemon run can be read as one stream.
// Browser page output and Playwright runtime chatter can be redirected
// into the same file through Writer.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	runID     string
	runIDOnce sync.Once

	logDir     string
	logDirOnce sync.Once
	logDirErr  error
)

// currentRunID mints the identifier shared by every logger in this
// process. It tags the log file name, not individual entries; entries
// are distinguished by component.
func currentRunID() string {
	runIDOnce.Do(func() {
		runID = uuid.New().String()
	})
	return runID
}

func ensureLogDir() error {
	logDirOnce.Do(func() {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logDirErr = fmt.Errorf("failed to get home directory: %w", err)
			return
		}
		logDir = filepath.Join(homeDir, ".warden", "logs")
		if err := os.MkdirAll(logDir, 0750); err != nil {
			logDirErr = fmt.Errorf("failed to create log directory: %w", err)
		}
	})
	return logDirErr
}

// Logger writes level-tagged entries for one component. All levels write
// unconditionally; there is no level filtering.
type Logger struct {
	component string
	file      *os.File
	out       *log.Logger
	path      string
	mu        sync.Mutex
	closeOnce sync.Once
}

// NewLogger creates a logger for the named component, appending to
// ~/.warden/logs/<run-id>-warden.log. Loggers for different components
// share the file. When the file cannot be opened a stderr logger is
// returned along with the error, so callers keep a usable logger either
// way.
func NewLogger(component string) (*Logger, error) {
	if err := ensureLogDir(); err != nil {
		return stderrLogger(component, err), err
	}

	path := filepath.Join(logDir, fmt.Sprintf("%s-warden.log", currentRunID()))
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		err = fmt.Errorf("failed to open log file: %w", err)
		return stderrLogger(component, err), err
	}

	return &Logger{
		component: component,
		file:      file,
		out:       log.New(file, "", 0),
		path:      path,
	}, nil
}

func stderrLogger(component string, cause error) *Logger {
	l := &Logger{
		component: component,
		out:       log.New(os.Stderr, "", 0),
	}
	l.Warnf("file logging unavailable, using stderr: %v", cause)
	return l
}

func (l *Logger) logf(level, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	l.out.Printf("[%s] [%s] [%s] %s", timestamp, l.component, level, fmt.Sprintf(format, v...))
}

// Debugf logs a debug-level message.
func (l *Logger) Debugf(format string, v ...interface{}) {
	l.logf("DEBUG", format, v...)
}

// Infof logs an info-level message.
func (l *Logger) Infof(format string, v ...interface{}) {
	l.logf("INFO", format, v...)
}

// Warnf logs a warning-level message.
func (l *Logger) Warnf(format string, v ...interface{}) {
	l.logf("WARN", format, v...)
}

// Errorf logs an error-level message.
func (l *Logger) Errorf(format string, v ...interface{}) {
	l.logf("ERROR", format, v...)
}

// Writer returns the raw destination for subprocess output that should
// land in the same log, e.g. the Playwright runtime's stdout.
func (l *Logger) Writer() io.Writer {
	if l.file != nil {
		return l.file
	}
	return os.Stderr
}

// LogPath returns the log file path, or "" for a stderr fallback logger.
func (l *Logger) LogPath() string {
	return l.path
}

// Close closes the log file. Safe to call multiple times.
func (l *Logger) Close() error {
	var err error
	l.closeOnce.Do(func() {
		if l.file != nil {
			err = l.file.Close()
		}
	})
	return err
}
