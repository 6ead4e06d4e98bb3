// Package formatter prints a composed filmstrip.
package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/composer"
)

// Formatter writes one Composition to w
type Formatter interface {
	Format(w io.Writer, c *composer.Composition) error
}

// Names lists the supported output formats
var Names = []string{"table", "json", "csv"}

// New returns the formatter registered under name. width is used by the table
// formatter; 0 means the terminal width.
func New(name string, width int) (Formatter, error) {
	switch strings.ToLower(name) {
	case "", "table":
		return NewTableFormatter(width), nil
	case "json":
		return NewJSONFormatter(), nil
	case "csv":
		return NewCSVFormatter(), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(Names, ", "))
	}
}
