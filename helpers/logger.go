package helpers

import (
	"fmt"
	"os"
	"sync"
	"time"

	"sjsage522/topicworker/logger"
)

// LoggerInterface defines the interface for logger implementations
type LoggerInterface interface {
	LogError(component string, err error)
}

// Logger writes errors to the structured log and, when errorFile is set,
// appends them to a plain text file as well.
type Logger struct {
	mu        sync.Mutex
	errorFile string
}

// NewLogger creates a new logger instance
func NewLogger(errorFile string) *Logger {
	return &Logger{
		errorFile: errorFile,
	}
}

// LogError logs an error with component name and timestamp
func (l *Logger) LogError(component string, err error) {
	logger.LogError(component, err, "Operation failed")

	if l.errorFile == "" {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, fileErr := os.OpenFile(l.errorFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if fileErr != nil {
		logger.Warn("Failed to open error log %s: %v", l.errorFile, fileErr)
		return
	}
	defer f.Close()

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	if _, writeErr := fmt.Fprintf(f, "[%s] [%s] %s\n", timestamp, component, err.Error()); writeErr != nil {
		logger.Warn("Failed to write error log %s: %v", l.errorFile, writeErr)
	}
}
