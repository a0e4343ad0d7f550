// Package config loads CLI defaults from an optional YAML file.
//
// A config file supplies the same values as command-line flags; the CLI
// merges them with "flag > environment > file > built-in default"
// precedence. Decoding is strict, so unknown keys fail loudly instead of
// being silently dropped.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/avoll/go-mdpress/internal/fileutil"
	"github.com/avoll/go-mdpress/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidTimeout  = errors.New("invalid timeout value")
)

// Field length limits. Paths get the usual filesystem bound; the date
// limit covers both "auto:FORMAT" expressions and literal display text.
const (
	MaxPathLength    = 4096
	MaxDateLength    = 100
	MaxTimeoutLength = 32
	MaxCSSFiles      = 32
)

// DefaultConfigName is the config searched for when none is named
// explicitly. It resolves to .mdpress.yaml or .mdpress.yml in the
// working directory, then in the user config directory.
const DefaultConfigName = ".mdpress"

// configDirName is the subdirectory of os.UserConfigDir searched for
// named configs.
const configDirName = "mdpress"

// Config holds CLI defaults loaded from a YAML file. Every field
// corresponds to a flag; flags and MDPRESS_* variables override these.
type Config struct {
	// Theme is the theme file applied to every conversion.
	Theme string `yaml:"theme"`

	// OutputDir receives the generated documents. Empty writes next to
	// each source file.
	OutputDir string `yaml:"outputDir"`

	// CSS lists extra stylesheet files appended after all theme CSS.
	CSS []string `yaml:"css"`

	// Date is the {date} value: "auto", "auto:FORMAT" or literal text.
	Date string `yaml:"date"`

	// Timeout bounds a single render, in Go duration syntax ("45s").
	Timeout string `yaml:"timeout"`

	// Browser points at a Chrome or Chromium binary.
	Browser string `yaml:"browser"`

	// Strict treats theme validation and conversion warnings as errors.
	Strict bool `yaml:"strict"`
}

// DefaultConfig returns an empty configuration. Zero values mean "not
// set" so later merge stages can tell a configured value from a default.
func DefaultConfig() *Config {
	return &Config{}
}

// Validate checks field lengths and value syntax.
func (c *Config) Validate() error {
	if err := validateFieldLength("theme", c.Theme, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("outputDir", c.OutputDir, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("browser", c.Browser, MaxPathLength); err != nil {
		return err
	}
	if err := validateFieldLength("date", c.Date, MaxDateLength); err != nil {
		return err
	}
	if err := validateFieldLength("timeout", c.Timeout, MaxTimeoutLength); err != nil {
		return err
	}

	if len(c.CSS) > MaxCSSFiles {
		return fmt.Errorf("css: too many entries (%d, max %d)", len(c.CSS), MaxCSSFiles)
	}
	for i, path := range c.CSS {
		if err := validateFieldLength(fmt.Sprintf("css[%d]", i), path, MaxPathLength); err != nil {
			return err
		}
	}

	if _, err := c.ParseTimeout(); err != nil {
		return err
	}

	return nil
}

// ParseTimeout converts the timeout field to a duration. Zero with nil
// error means the field is unset.
func (c *Config) ParseTimeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: %q (use Go duration syntax like \"45s\" or \"2m\")", ErrInvalidTimeout, c.Timeout)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%w: %q (must be positive)", ErrInvalidTimeout, c.Timeout)
	}
	return d, nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// LoadConfig loads configuration from a file path or config name.
// A value containing a path separator or a YAML extension is treated as
// a file path; anything else is a name searched in standard locations.
// A missing explicit config is an error, never a silent fallback.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) && !fileutil.IsYAMLFile(nameOrPath) {
		resolved, err := resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	return loadFile(configPath)
}

// LoadDefault looks for the default config name and loads it when
// present. A missing default config is not an error. The returned path
// names the file that was loaded, empty when none was found.
func LoadDefault() (*Config, string, error) {
	path, found := findFirst(SearchPaths(DefaultConfigName))
	if !found {
		return DefaultConfig(), "", nil
	}

	cfg, err := loadFile(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// loadFile reads, strict-decodes and validates one config file.
func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths returns the locations probed for a config name, in probe
// order: working directory first, then the user config directory, each
// with .yaml before .yml.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, configDirName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath searches for a config file by name in standard
// locations.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	if path, found := findFirst(paths); found {
		return path, nil
	}
	return "", fmt.Errorf("%w: tried %v", ErrConfigNotFound, paths)
}

// findFirst returns the first path that exists as a regular file.
func findFirst(paths []string) (string, bool) {
	for _, path := range paths {
		if fileutil.FileExists(path) {
			return path, true
		}
	}
	return "", false
}
