package util

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// F is shorthand for building a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// LogFormat represents the output format
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// Output represents a log output destination
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// LogEntry represents a single log entry
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Logger provides structured logging functionality
type Logger struct {
	level   LogLevel
	outputs []Output
	fields  map[string]interface{}
	mu      sync.RWMutex
}

// NewLogger creates a logger writing to the given outputs
func NewLogger(levelStr string, outputs ...Output) *Logger {
	return &Logger{
		level:   ParseLogLevel(levelStr),
		outputs: outputs,
		fields:  make(map[string]interface{}),
	}
}

// ParseLogLevel parses a log level string, defaulting to info
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
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

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l *Logger) log(level LogLevel, msg string, fields ...Field) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.level > level {
		return
	}

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Message:   msg,
		Fields:    make(map[string]interface{}, len(l.fields)+len(fields)),
	}
	for k, v := range l.fields {
		entry.Fields[k] = v
	}
	for _, field := range fields {
		entry.Fields[field.Key] = field.Value
	}

	for _, output := range l.outputs {
		if err := output.Write(entry); err != nil {
			log.Printf("Failed to write log entry: %v", err)
		}
	}
}

func (l *Logger) Debug(msg string, fields ...Field) {
	l.log(LevelDebug, msg, fields...)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, fields...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, fields...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Error(msg string, fields ...Field) {
	l.log(LevelError, msg, fields...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

// With returns a child logger that adds fields to every entry
func (l *Logger) With(fields ...Field) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()

	newFields := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		newFields[k] = v
	}
	for _, field := range fields {
		newFields[field.Key] = field.Value
	}

	return &Logger{
		level:   l.level,
		outputs: l.outputs,
		fields:  newFields,
	}
}

func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *Logger) AddOutput(output Output) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs = append(l.outputs, output)
}

// Close closes every output
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var firstErr error
	for _, output := range l.outputs {
		if err := output.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
