package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// Config holds app settings. Source selection lives in the preference
// document, not here.
type Config struct {
	Relay           string `yaml:"relay"`
	RefreshInterval string `yaml:"refresh_interval,omitempty"`
	MaxArticles     int    `yaml:"max_articles,omitempty"`
}

// RefreshIntervalDuration returns the minimum gap between manual refreshes.
func (c *Config) RefreshIntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// ArticleCap returns the global aggregated-list cap.
func (c *Config) ArticleCap() int {
	if c.MaxArticles <= 0 {
		return 100
	}
	return c.MaxArticles
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsdeck", "config.yaml")
}

func PrefsPath() string {
	return filepath.Join(xdg.DataHome, "newsdeck", "prefs.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

func Load(path string) (*Config, error) {
	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Write defaults to config path on first run
			if err := writeDefaults(path); err != nil {
				// Non-fatal: just use embedded defaults
				return defaults, nil
			}
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.Relay == "" {
		cfg.Relay = defaults.Relay
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.Relay)
	if err != nil {
		return fmt.Errorf("invalid relay url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("relay url scheme must be http or https, got %q", u.Scheme)
	}
	return nil
}
