package util

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
)

// StreamOutput writes log entries to a stream such as stderr or a log file
type StreamOutput struct {
	writer io.Writer
	closer io.Closer
	format LogFormat
	mu     sync.Mutex
}

// NewConsoleOutput creates an output that never closes its writer
func NewConsoleOutput(writer io.Writer, format LogFormat) Output {
	return &StreamOutput{writer: writer, format: format}
}

// NewFileOutput appends to the file at path, creating it if needed
func NewFileOutput(path string, format LogFormat) (Output, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return &StreamOutput{writer: file, closer: file, format: format}, nil
}

func (s *StreamOutput) Write(entry LogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var line string
	if s.format == FormatJSON {
		data, err := sonic.Marshal(entry)
		if err != nil {
			return err
		}
		line = string(data)
	} else {
		line = formatText(entry)
	}

	_, err := fmt.Fprintln(s.writer, line)
	return err
}

func (s *StreamOutput) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// formatText renders "2006/01/02 15:04:05 [LEVEL] message k=v ..." with keys sorted
func formatText(entry LogEntry) string {
	var b strings.Builder
	b.WriteString(entry.Timestamp.Format("2006/01/02 15:04:05"))
	b.WriteString(" [")
	b.WriteString(entry.Level)
	b.WriteString("] ")
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Fields))
	for k := range entry.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Fields[k])
	}
	return b.String()
}
