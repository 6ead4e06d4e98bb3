package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		input    string
		expected Size
	}{
		{"small", SizeSmall},
		{" Large ", SizeLarge},
		{"medium", SizeMedium},
		{"", SizeMedium},
		{"huge", SizeMedium},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseSize(tt.input))
		})
	}
}

func TestSizeWidths(t *testing.T) {
	tests := []struct {
		size  Size
		image int
		cell  int
	}{
		{SizeSmall, 50, 6},
		{SizeMedium, 100, 8},
		{SizeLarge, 200, 12},
		{Size("unknown"), 100, 8},
	}

	for _, tt := range tests {
		t.Run(string(tt.size), func(t *testing.T) {
			assert.Equal(t, tt.image, tt.size.ImageWidth())
			assert.Equal(t, tt.cell, tt.size.CellWidth())
		})
	}
}
