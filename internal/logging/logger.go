// Package logging provides categorized file-based logging for dinemap.
// Each category writes to its own dated file under <dir>/logs. Logging is a
// silent no-op until Initialize enables it, so library packages can log
// unconditionally.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/subsystem.
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup and configuration
	CategoryStore     Category = "store"     // Local store reads/writes/migrations
	CategoryGateway   Category = "gateway"   // Remote API calls
	CategoryReconcile Category = "reconcile" // Network-first/fallback decisions
	CategoryQueue     Category = "queue"     // Offline write queue and replay
	CategoryCache     Category = "cache"     // Cache gateway partitions
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Options controls where and how much is logged.
type Options struct {
	Dir     string // Base directory; logs land in Dir/logs
	Level   string // debug, info, warn, error
	Enabled bool   // When false every logger is a no-op
}

// Logger wraps a standard logger bound to one category's file.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	mu       sync.RWMutex
	loggers  = make(map[Category]*Logger)
	logsDir  string
	enabled  bool
	logLevel = LevelInfo
)

// Initialize sets up the logging directory. Call once at startup; before
// that (or when disabled) every call is a no-op.
func Initialize(opts Options) error {
	mu.Lock()
	defer mu.Unlock()

	enabled = opts.Enabled
	logLevel = parseLevel(opts.Level)
	if !enabled {
		return nil
	}
	if opts.Dir == "" {
		return fmt.Errorf("logging: directory required")
	}

	logsDir = filepath.Join(opts.Dir, "logs")
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("logging: create logs directory: %w", err)
	}
	return nil
}

func parseLevel(level string) int {
	switch level {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Get returns (or creates) the logger for a category. Returns a no-op
// logger while logging is disabled.
func Get(category Category) *Logger {
	mu.RLock()
	if !enabled || logsDir == "" {
		mu.RUnlock()
		return &Logger{category: category}
	}
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] could not open %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Close closes all category log files. Used by tests.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	for cat, l := range loggers {
		if l.file != nil {
			_ = l.file.Close()
		}
		delete(loggers, cat)
	}
	logsDir = ""
	enabled = false
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// Convenience helpers for the chattiest categories.

// Store logs an info message to the store category.
func Store(format string, args ...interface{}) {
	Get(CategoryStore).Info(format, args...)
}

// StoreDebug logs a debug message to the store category.
func StoreDebug(format string, args ...interface{}) {
	Get(CategoryStore).Debug(format, args...)
}

// Queue logs an info message to the queue category.
func Queue(format string, args ...interface{}) {
	Get(CategoryQueue).Info(format, args...)
}

// Reconcile logs an info message to the reconcile category.
func Reconcile(format string, args ...interface{}) {
	Get(CategoryReconcile).Info(format, args...)
}
