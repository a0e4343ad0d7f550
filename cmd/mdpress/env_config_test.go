package main

// Notes:
// - loadEnvConfig: invalid and negative timeout values are tested to verify
//   graceful handling (ignored, not errors).
// - warnUnknownEnvVars: we test typo detection and that known vars don't warn.
// - applyEnvConfig: we test that a set variable replaces the file value and
//   that unset variables leave the file value alone.
// - Tests use t.Setenv() which prevents t.Parallel() at parent level.

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/avoll/go-mdpress/internal/config"
)

// ---------------------------------------------------------------------------
// TestLoadEnvConfig - Environment variable loading
// ---------------------------------------------------------------------------

func TestLoadEnvConfig(t *testing.T) {
	t.Run("all variables set", func(t *testing.T) {
		t.Setenv("MDPRESS_THEME", "themes/corporate.yaml")
		t.Setenv("MDPRESS_OUTPUT_DIR", "/output")
		t.Setenv("MDPRESS_BROWSER", "/usr/bin/chromium")
		t.Setenv("MDPRESS_TIMEOUT", "2m")
		t.Setenv("MDPRESS_CONFIG", "work")

		cfg := loadEnvConfig()

		if cfg.Theme != "themes/corporate.yaml" {
			t.Errorf("Theme = %q, want themes/corporate.yaml", cfg.Theme)
		}
		if cfg.OutputDir != "/output" {
			t.Errorf("OutputDir = %q, want /output", cfg.OutputDir)
		}
		if cfg.Browser != "/usr/bin/chromium" {
			t.Errorf("Browser = %q, want /usr/bin/chromium", cfg.Browser)
		}
		if cfg.Timeout != 2*time.Minute {
			t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
		}
		if cfg.Config != "work" {
			t.Errorf("Config = %q, want work", cfg.Config)
		}
	})

	t.Run("nothing set", func(t *testing.T) {
		for name := range knownEnvVars {
			t.Setenv(name, "")
		}

		cfg := loadEnvConfig()

		if cfg.Theme != "" || cfg.OutputDir != "" || cfg.Browser != "" || cfg.Config != "" {
			t.Errorf("expected empty config, got %+v", cfg)
		}
		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0", cfg.Timeout)
		}
	})

	t.Run("invalid timeout ignored", func(t *testing.T) {
		t.Setenv("MDPRESS_TIMEOUT", "soon")

		cfg := loadEnvConfig()
		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0 for invalid value", cfg.Timeout)
		}
	})

	t.Run("negative timeout ignored", func(t *testing.T) {
		t.Setenv("MDPRESS_TIMEOUT", "-5s")

		cfg := loadEnvConfig()
		if cfg.Timeout != 0 {
			t.Errorf("Timeout = %v, want 0 for negative value", cfg.Timeout)
		}
	})
}

// ---------------------------------------------------------------------------
// TestWarnUnknownEnvVars - Typo detection
// ---------------------------------------------------------------------------

func TestWarnUnknownEnvVars(t *testing.T) {
	t.Run("unknown variable warns", func(t *testing.T) {
		t.Setenv("MDPRESS_THME", "oops")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if !strings.Contains(buf.String(), "MDPRESS_THME") {
			t.Errorf("expected warning about MDPRESS_THME, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), "typo?") {
			t.Errorf("expected typo hint, got %q", buf.String())
		}
	})

	t.Run("known variables stay silent", func(t *testing.T) {
		t.Setenv("MDPRESS_THEME", "corporate.yaml")
		t.Setenv("MDPRESS_CONTAINER", "1")

		var buf bytes.Buffer
		warnUnknownEnvVars(&buf)

		if strings.Contains(buf.String(), "MDPRESS_THEME") ||
			strings.Contains(buf.String(), "MDPRESS_CONTAINER") {
			t.Errorf("known variables should not warn, got %q", buf.String())
		}
	})
}

// ---------------------------------------------------------------------------
// TestApplyEnvConfig - Environment over file precedence
// ---------------------------------------------------------------------------

func TestApplyEnvConfig(t *testing.T) {
	t.Parallel()

	t.Run("set variables replace file values", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{
			Theme:     "env.yaml",
			OutputDir: "/env-out",
			Browser:   "/env/chrome",
			Timeout:   90 * time.Second,
		}
		cfg := &config.Config{
			Theme:     "file.yaml",
			OutputDir: "/file-out",
			Browser:   "/file/chrome",
			Timeout:   "30s",
		}

		applyEnvConfig(env, cfg)

		if cfg.Theme != "env.yaml" {
			t.Errorf("Theme = %q, want env.yaml", cfg.Theme)
		}
		if cfg.OutputDir != "/env-out" {
			t.Errorf("OutputDir = %q, want /env-out", cfg.OutputDir)
		}
		if cfg.Browser != "/env/chrome" {
			t.Errorf("Browser = %q, want /env/chrome", cfg.Browser)
		}
		if cfg.Timeout != "1m30s" {
			t.Errorf("Timeout = %q, want 1m30s", cfg.Timeout)
		}
	})

	t.Run("unset variables keep file values", func(t *testing.T) {
		t.Parallel()

		env := &envConfig{}
		cfg := &config.Config{
			Theme:     "file.yaml",
			OutputDir: "/file-out",
			Timeout:   "30s",
		}

		applyEnvConfig(env, cfg)

		if cfg.Theme != "file.yaml" {
			t.Errorf("Theme = %q, want file.yaml", cfg.Theme)
		}
		if cfg.OutputDir != "/file-out" {
			t.Errorf("OutputDir = %q, want /file-out", cfg.OutputDir)
		}
		if cfg.Timeout != "30s" {
			t.Errorf("Timeout = %q, want 30s", cfg.Timeout)
		}
	})
}
