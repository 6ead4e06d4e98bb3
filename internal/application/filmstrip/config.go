package filmstrip

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SourceConfig is one timeline to show
type SourceConfig struct {
	ID     string `mapstructure:"id"`
	Source string `mapstructure:"source"`
	Label  string `mapstructure:"label"`
}

// Config contains configuration for a filmstrip
type Config struct {
	Interval string `mapstructure:"interval"`
	Size     string `mapstructure:"size"`

	// Ordered timelines to load on start
	Sources []SourceConfig `mapstructure:"sources"`

	// Loader settings
	Concurrency  int           `mapstructure:"concurrency"`
	FetchTimeout time.Duration `mapstructure:"timeout"`
}

// Validate fills defaults and rejects duplicate series ids
func (c *Config) Validate() error {
	if c.Interval == "" {
		c.Interval = "100ms"
	}
	if c.Size == "" {
		c.Size = "medium"
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 30 * time.Second
	}

	seen := make(map[string]bool, len(c.Sources))
	for i := range c.Sources {
		if c.Sources[i].ID == "" {
			c.Sources[i].ID = uuid.NewString()
		}
		if seen[c.Sources[i].ID] {
			return fmt.Errorf("duplicate series id %q", c.Sources[i].ID)
		}
		seen[c.Sources[i].ID] = true
	}
	return nil
}
