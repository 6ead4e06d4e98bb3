package formatter

import (
	"io"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-wpt-filmstrip/internal/core/composer"
)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(w io.Writer, c *composer.Composition) error {
	if c == nil {
		c = &composer.Composition{}
	}
	data, err := sonic.ConfigStd.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
