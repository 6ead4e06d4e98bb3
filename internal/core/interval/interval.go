// Package interval holds the fixed table of sampling intervals a filmstrip can use.
package interval

import (
	"strconv"
	"strings"
)

// Spec is one supported sampling interval and the number of decimal digits used
// when an axis point is printed in seconds.
type Spec struct {
	Ms        int
	Precision int
}

// Supported intervals
var (
	Frame16ms = Spec{Ms: 16, Precision: 3}
	Tenth     = Spec{Ms: 100, Precision: 1}
	Half      = Spec{Ms: 500, Precision: 1}
	Second    = Spec{Ms: 1000, Precision: 0}
	Five      = Spec{Ms: 5000, Precision: 0}

	Default = Tenth
)

var aliases = map[string]Spec{
	"16":     Frame16ms,
	"16ms":   Frame16ms,
	"60fps":  Frame16ms,
	"100":    Tenth,
	"100ms":  Tenth,
	"0.1s":   Tenth,
	"500":    Half,
	"500ms":  Half,
	"0.5s":   Half,
	"1000":   Second,
	"1000ms": Second,
	"1s":     Second,
	"5000":   Five,
	"5000ms": Five,
	"5s":     Five,
}

// Parse resolves a configured interval. Unknown input falls back to Default.
func Parse(raw string) Spec {
	if spec, ok := aliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return spec
	}
	return Default
}

// FromMs resolves a numeric interval in milliseconds.
func FromMs(ms int) Spec {
	return Parse(strconv.Itoa(ms))
}

// All returns every supported interval, shortest first
func All() []Spec {
	return []Spec{Frame16ms, Tenth, Half, Second, Five}
}

// FormatSeconds prints a millisecond offset as seconds with the interval's precision, e.g. "1.5s".
func (s Spec) FormatSeconds(ms float64) string {
	return strconv.FormatFloat(ms/1000, 'f', s.Precision, 64) + "s"
}

// String returns the canonical spelling, e.g. "100ms"
func (s Spec) String() string {
	return strconv.Itoa(s.Ms) + "ms"
}
