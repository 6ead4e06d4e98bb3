package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected string
	}{
		{"microseconds", 250 * time.Microsecond, "250µs"},
		{"milliseconds", 850 * time.Millisecond, "850ms"},
		{"whole seconds", 2 * time.Second, "2s"},
		{"fractional seconds", 1250 * time.Millisecond, "1.25s"},
		{"minutes", 125 * time.Second, "2m 5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatDuration(tt.input))
		})
	}
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 timeline", Plural(1, "timeline"))
	assert.Equal(t, "0 timelines", Plural(0, "timeline"))
	assert.Equal(t, "3 timelines", Plural(3, "timeline"))
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "50%", Colorize("50%", ColorYellow, false))
	assert.Equal(t, ColorYellow+"50%"+ColorReset, Colorize("50%", ColorYellow, true))
	assert.Equal(t, "", Colorize("", ColorYellow, true))
}
