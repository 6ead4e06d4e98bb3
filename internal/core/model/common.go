package model

import "strings"

// Size is the display-density hint for rendered rows. It never changes sampling.
type Size string

// Supported sizes
const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// ParseSize maps a configured size to one of the supported sizes, defaulting to medium.
func ParseSize(raw string) Size {
	switch Size(strings.ToLower(strings.TrimSpace(raw))) {
	case SizeSmall:
		return SizeSmall
	case SizeLarge:
		return SizeLarge
	default:
		return SizeMedium
	}
}

// ImageWidth returns the suggested thumbnail width in pixels
func (s Size) ImageWidth() int {
	switch s {
	case SizeSmall:
		return 50
	case SizeLarge:
		return 200
	default:
		return 100
	}
}

// CellWidth returns the text cell width used by terminal renderers
func (s Size) CellWidth() int {
	switch s {
	case SizeSmall:
		return 6
	case SizeLarge:
		return 12
	default:
		return 8
	}
}
