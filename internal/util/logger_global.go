package util

import (
	"fmt"
	"io"
	"sync"
)

var (
	globalMu     sync.RWMutex
	globalLogger *Logger
)

// InitLogger installs the global logger. When logFile is set entries are also
// appended there.
func InitLogger(logLevel string, console io.Writer, format LogFormat, logFile string) error {
	var outputs []Output
	if console != nil {
		outputs = append(outputs, NewConsoleOutput(console, format))
	}
	if logFile != "" {
		fileOutput, err := NewFileOutput(logFile, format)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", logFile, err)
		}
		outputs = append(outputs, fileOutput)
	}
	SetLogger(NewLogger(logLevel, outputs...))
	return nil
}

// SetLogger replaces the global logger; nil disables logging
func SetLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

func current() *Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalLogger
}

func LogDebug(msg string, fields ...Field) {
	if l := current(); l != nil {
		l.Debug(msg, fields...)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Debugf(format, args...)
	}
}

func LogInfo(msg string, fields ...Field) {
	if l := current(); l != nil {
		l.Info(msg, fields...)
	}
}

func LogInfof(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Infof(format, args...)
	}
}

func LogWarn(msg string, fields ...Field) {
	if l := current(); l != nil {
		l.Warn(msg, fields...)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Warnf(format, args...)
	}
}

func LogError(msg string, fields ...Field) {
	if l := current(); l != nil {
		l.Error(msg, fields...)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Errorf(format, args...)
	}
}
