package redux

import (
	"fmt"
	"log"
	"time"
)

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

// Logger interface for custom logging implementations
type Logger interface {
	// Debug logs a debug message with optional fields
	Debug(msg string, fields ...Field)

	// Info logs an info message with optional fields
	Info(msg string, fields ...Field)

	// Error logs an error message with optional fields
	Error(msg string, fields ...Field)
}

// MetricsCollector interface for metrics collection
type MetricsCollector interface {
	// RecordCommand records one executed command with its duration
	RecordCommand(name string, duration time.Duration)

	// RecordScanPages records the number of pages a completed scan fetched
	RecordScanPages(pages int64)

	// RecordError records an error event by kind ("executor",
	// "command", "decode", "scan")
	RecordError(kind string)
}

// defaultLogger is a simple logger implementation using the standard
// log package. Debug output is suppressed: the gateway debug-logs
// every command, which is too chatty for a default.
type defaultLogger struct{}

func (l *defaultLogger) Debug(msg string, fields ...Field) {}

func (l *defaultLogger) Info(msg string, fields ...Field) {
	l.logWithFields("INFO", msg, fields...)
}

func (l *defaultLogger) Error(msg string, fields ...Field) {
	l.logWithFields("ERROR", msg, fields...)
}

func (l *defaultLogger) logWithFields(level, msg string, fields ...Field) {
	logMsg := level + ": " + msg
	for _, field := range fields {
		logMsg += fmt.Sprintf(" %s=%v", field.Key, field.Value)
	}
	log.Print(logMsg)
}
