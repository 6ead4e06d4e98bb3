package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/penwyp/go-wpt-filmstrip/internal/application/filmstrip"
)

const (
	defaultInterval    = "100ms"
	defaultSize        = "medium"
	defaultOutput      = "table"
	defaultConcurrency = 4
	defaultTimeout     = 30 * time.Second
	defaultConfigFile  = "~/.config/go-wpt-filmstrip/config.yml"
)

// fileConfig is the optional YAML config. Every key can also come from a
// FILMSTRIP_ prefixed environment variable, e.g. FILMSTRIP_LOG_FILE.
type fileConfig struct {
	Interval    string                   `mapstructure:"interval"`
	Size        string                   `mapstructure:"size"`
	Output      string                   `mapstructure:"output"`
	Concurrency int                      `mapstructure:"concurrency"`
	Timeout     time.Duration            `mapstructure:"timeout"`
	LogFile     string                   `mapstructure:"log-file"`
	LogFormat   string                   `mapstructure:"log-format"`
	Sources     []filmstrip.SourceConfig `mapstructure:"sources"`
}

func loadFileConfig(configPath string) (fileConfig, error) {
	var cfg fileConfig

	v := viper.New()
	v.SetEnvPrefix("FILMSTRIP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("interval", defaultInterval)
	v.SetDefault("size", defaultSize)
	v.SetDefault("output", defaultOutput)
	v.SetDefault("concurrency", defaultConcurrency)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("log-file", "")
	v.SetDefault("log-format", "text")

	if configPath != "" {
		v.SetConfigFile(expandPath(configPath))
	} else {
		v.SetConfigFile(expandPath(defaultConfigFile))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &configFileNotFound) || os.IsNotExist(err)
		// only the default file is optional
		if !missing || configPath != "" {
			return cfg, fmt.Errorf("reading config %s: %w", v.ConfigFileUsed(), err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}

	// local sources are compared against watcher paths, which are absolute
	for i := range cfg.Sources {
		cfg.Sources[i].Source = normalizeSource(cfg.Sources[i].Source)
	}

	return cfg, nil
}

func normalizeSource(locator string) string {
	if locator == "" || strings.Contains(locator, "://") {
		return locator
	}
	return expandPath(locator)
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func ensureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
