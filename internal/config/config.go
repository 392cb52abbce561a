package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tidwall/jsonc"

	"github.com/cspace-puppet/cspace-user/internal/java"
)

// AppName names the config directory
const AppName = "cspace-user"

// Config holds the application configuration
type Config struct {
	OSFamily     string       `json:"os_family,omitempty"` // Overrides OS family detection
	Java         java.Paths   `json:"java"`                // Resolver path and command overrides
	FactsDir     string       `json:"facts_dir,omitempty"` // Default directory for external fact files
	UpdateConfig UpdateConfig `json:"update_config"`
	configPath   string
}

// UpdateConfig holds settings for auto-update feature
type UpdateConfig struct {
	Enabled     bool      `json:"enabled"`
	AutoCheck   bool      `json:"auto_check"`
	LastCheck   time.Time `json:"last_check"`
	SkipVersion string    `json:"skip_version"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Java: java.DefaultPaths(),
		UpdateConfig: UpdateConfig{
			Enabled:   true,
			AutoCheck: true,
		},
		configPath: Path(),
	}
}

// Load loads the configuration from the user's config directory
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom loads the configuration from configPath. A missing file yields the defaults.
func LoadFrom(configPath string) (*Config, error) {
	cfg := Default()
	cfg.configPath = configPath

	data, err := os.ReadFile(configPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", configPath, err)
	}

	// Remove BOM if present (UTF-8 BOM is EF BB BF)
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		data = data[3:]
	}

	// Comments and trailing commas are allowed in hand-edited files
	if err := json.Unmarshal(jsonc.ToJSON(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", configPath, err)
	}

	cfg.Java = sanitizePaths(cfg.Java).Merge()
	cfg.OSFamily = strings.TrimSpace(cfg.OSFamily)
	if cfg.FactsDir != "" {
		cfg.FactsDir = filepath.Clean(strings.TrimSpace(cfg.FactsDir))
	}
	return cfg, nil
}

// Save saves the configuration to disk
func (c *Config) Save() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0644)
}

// ConfigPath returns the file this configuration was loaded from
func (c *Config) ConfigPath() string {
	return c.configPath
}

// sanitizePaths trims whitespace and cleans every non-empty path override
func sanitizePaths(p java.Paths) java.Paths {
	clean := func(s string) string {
		s = strings.TrimSpace(s)
		if s == "" {
			return ""
		}
		return filepath.Clean(s)
	}
	p.RedHatJavaHome = clean(p.RedHatJavaHome)
	p.AlternativesCommand = strings.TrimSpace(p.AlternativesCommand)
	p.AlternativesCommandPath = clean(p.AlternativesCommandPath)
	p.RedHatAlternativesPath = clean(p.RedHatAlternativesPath)
	p.OSXJavaHomeUtility = clean(p.OSXJavaHomeUtility)
	return p
}

// Path returns the path to the configuration file
// Following XDG Base Directory specification
func Path() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome != "" {
		return filepath.Join(configHome, AppName, "config.json")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return filepath.Join(homeDir, ".config", AppName, "config.json")
}
