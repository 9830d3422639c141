// Package logger provides the process-wide structured log used by simplechat.
// Output goes to a file, never to the terminal, since the TUI owns stdout.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

var (
	slogLogger *slog.Logger
	levelVar   = new(slog.LevelVar)
	logFile    *os.File
	mu         sync.Mutex
	once       sync.Once
	initDone   bool
)

// LogDir holds every simplechat log file.
const LogDir = "/tmp"

// DefaultLogPath is the default log file for the TUI process
const DefaultLogPath = LogDir + "/simplechat-debug.log"

// DevServerLogPath is the log file used by the in-process dev server
const DevServerLogPath = LogDir + "/simplechat-devserver.log"

// SetDebug switches between debug and info level. Info is the default.
func SetDebug(enabled bool) {
	if enabled {
		levelVar.Set(slog.LevelDebug)
	} else {
		levelVar.Set(slog.LevelInfo)
	}
}

// Init initializes the logger with a custom path. If not called, the default
// path is used on first use. Calling it again after a successful init is a no-op.
func Init(path string) error {
	mu.Lock()
	defer mu.Unlock()

	if initDone {
		return nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	open(path, f)
	return nil
}

// open must be called with mu held.
func open(path string, f *os.File) {
	logFile = f
	slogLogger = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: levelVar}))
	initDone = true
	slogLogger.Info("Logger initialized", "path", path)
}

func ensureInit() {
	if initDone {
		return
	}
	once.Do(func() {
		f, err := os.OpenFile(DefaultLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to open log file %s: %v\n", DefaultLogPath, err)
			return
		}
		open(DefaultLogPath, f)
	})
}

// Close closes the log file
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	slogLogger = nil
}

// LogFiles lists the simplechat log files in dir.
func LogFiles(dir string) ([]string, error) {
	return filepath.Glob(filepath.Join(dir, "simplechat-*.log"))
}

// ClearLogsIn removes the simplechat log files in dir.
func ClearLogsIn(dir string) (int, error) {
	matches, err := LogFiles(dir)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, p := range matches {
		if err := os.Remove(p); err == nil {
			count++
		} else if !os.IsNotExist(err) {
			return count, err
		}
	}
	return count, nil
}

// WithComponent returns a slog.Logger with the component attribute pre-attached.
//
// Example:
//
//	log := logger.WithComponent("transport")
//	log.Info("request sent", "endpoint", "/load_chats", "page", 2)
func WithComponent(component string) *slog.Logger {
	mu.Lock()
	defer mu.Unlock()

	ensureInit()
	if slogLogger == nil {
		return slog.Default()
	}
	return slogLogger.With(slog.String("component", component))
}
