package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/avoll/go-mdpress/internal/config"
)

// envConfig holds configuration read from MDPRESS_* environment
// variables. Provides CI-friendly overrides without YAML files.
type envConfig struct {
	Theme     string        // MDPRESS_THEME: theme file path
	OutputDir string        // MDPRESS_OUTPUT_DIR: output directory
	Browser   string        // MDPRESS_BROWSER: Chrome/Chromium binary
	Timeout   time.Duration // MDPRESS_TIMEOUT: render timeout
	Config    string        // MDPRESS_CONFIG: config file name or path
}

// knownEnvVars lists the MDPRESS_* variables the CLI reads. Used to
// detect typos like MDPRESS_THME. MDPRESS_CONTAINER is consumed by the
// doctor command only.
var knownEnvVars = map[string]bool{
	"MDPRESS_THEME":      true,
	"MDPRESS_OUTPUT_DIR": true,
	"MDPRESS_BROWSER":    true,
	"MDPRESS_TIMEOUT":    true,
	"MDPRESS_CONFIG":     true,
	"MDPRESS_CONTAINER":  true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		Theme:     os.Getenv("MDPRESS_THEME"),
		OutputDir: os.Getenv("MDPRESS_OUTPUT_DIR"),
		Browser:   os.Getenv("MDPRESS_BROWSER"),
		Config:    os.Getenv("MDPRESS_CONFIG"),
	}

	if timeout := os.Getenv("MDPRESS_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// warnUnknownEnvVars prints warnings for unrecognized MDPRESS_* variables.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "MDPRESS_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays environment values onto the file config.
// A set variable replaces the file value, giving the documented
// precedence: flags > environment > config file > defaults. Flags are
// applied afterwards by mergeFlags.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Theme != "" {
		cfg.Theme = env.Theme
	}
	if env.OutputDir != "" {
		cfg.OutputDir = env.OutputDir
	}
	if env.Browser != "" {
		cfg.Browser = env.Browser
	}
	if env.Timeout > 0 {
		cfg.Timeout = env.Timeout.String()
	}
}
