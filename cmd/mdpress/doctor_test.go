package main

// Notes:
// - Black-box through runDoctorCmd, asserting on the --json output where a
//   structured check is possible.
// - Browser detection depends on the host, so tests pin MDPRESS_BROWSER to
//   a file they create. The version probe may still warn, which is fine:
//   warnings never change the exit code.
// - Tests that set environment variables use t.Setenv and stay serial.

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// cleanDoctorEnv blanks every variable the doctor checks inspect, so the
// ambient environment cannot leak into assertions.
func cleanDoctorEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"MDPRESS_BROWSER", "MDPRESS_CONTAINER",
		"ROD_BROWSER_BIN", "ROD_NO_SANDBOX",
		"KUBERNETES_SERVICE_HOST", "container",
		"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI",
	}
	for _, v := range vars {
		t.Setenv(v, "")
	}
}

// stubBrowser writes a file standing in for a browser binary and points
// MDPRESS_BROWSER at it.
func stubBrowser(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chromium")
	if err := os.WriteFile(path, []byte("stub"), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	t.Setenv("MDPRESS_BROWSER", path)
	return path
}

// runDoctorJSON runs doctor --json and decodes the output.
func runDoctorJSON(t *testing.T) (*doctorResult, int) {
	t.Helper()
	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}

	code := runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\noutput: %s", err, stdout.String())
	}
	return &result, code
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_JSONOutput - Structured output and exit code
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_JSONOutput(t *testing.T) {
	cleanDoctorEnv(t)
	browserPath := stubBrowser(t)

	result, code := runDoctorJSON(t)

	if result.Env.OS != runtime.GOOS {
		t.Errorf("OS = %q, want %q", result.Env.OS, runtime.GOOS)
	}
	if result.Env.Arch != runtime.GOARCH {
		t.Errorf("Arch = %q, want %q", result.Env.Arch, runtime.GOARCH)
	}

	valid := map[string]bool{"ready": true, "warnings": true, "errors": true}
	if !valid[result.Status] {
		t.Errorf("Status = %q, want ready/warnings/errors", result.Status)
	}
	if result.Status == "errors" && code != ExitFailure {
		t.Errorf("exit code = %d for errors status, want %d", code, ExitFailure)
	}
	if result.Status != "errors" && code != ExitSuccess {
		t.Errorf("exit code = %d for status %q, want %d", code, result.Status, ExitSuccess)
	}

	if !result.Browser.Found {
		t.Error("Browser.Found = false, want true with MDPRESS_BROWSER set")
	}
	if result.Browser.Path != browserPath {
		t.Errorf("Browser.Path = %q, want %q", result.Browser.Path, browserPath)
	}
	if result.Browser.Source != "MDPRESS_BROWSER" {
		t.Errorf("Browser.Source = %q, want MDPRESS_BROWSER", result.Browser.Source)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_HumanOutput - Section layout
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_HumanOutput(t *testing.T) {
	cleanDoctorEnv(t)
	browserPath := stubBrowser(t)

	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	runDoctorCmd(nil, env)

	output := stdout.String()
	for _, section := range []string{
		"mdpress doctor",
		"Browser",
		"Environment",
		"Config",
		"System",
		"Status:",
	} {
		if !strings.Contains(output, section) {
			t.Errorf("output missing section %q", section)
		}
	}

	if !strings.Contains(output, runtime.GOOS+"/"+runtime.GOARCH) {
		t.Error("output missing platform line")
	}
	if !strings.Contains(output, "Found at "+browserPath+" (MDPRESS_BROWSER)") {
		t.Errorf("output missing browser line:\n%s", output)
	}
}

func TestRunDoctorCmd_HumanOutput_StatusLine(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	runDoctorCmd(nil, env)

	output := stdout.String()
	statusLines := []string{
		"Status: Ready to convert",
		"Status: Ready with warnings",
		"Status: Not ready (see errors above)",
	}
	found := false
	for _, line := range statusLines {
		if strings.Contains(output, line) {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("output missing a status line:\n%s", output)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_BrowserDetection - Source precedence and failures
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_BrowserDetection(t *testing.T) {
	t.Run("MDPRESS_BROWSER wins over ROD_BROWSER_BIN", func(t *testing.T) {
		cleanDoctorEnv(t)
		mdpressPath := stubBrowser(t)
		rodPath := filepath.Join(t.TempDir(), "rod-chromium")
		if err := os.WriteFile(rodPath, []byte("stub"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		t.Setenv("ROD_BROWSER_BIN", rodPath)

		result, _ := runDoctorJSON(t)
		if result.Browser.Path != mdpressPath {
			t.Errorf("Browser.Path = %q, want %q", result.Browser.Path, mdpressPath)
		}
		if result.Browser.Source != "MDPRESS_BROWSER" {
			t.Errorf("Browser.Source = %q, want MDPRESS_BROWSER", result.Browser.Source)
		}
	})

	t.Run("ROD_BROWSER_BIN used when MDPRESS_BROWSER empty", func(t *testing.T) {
		cleanDoctorEnv(t)
		rodPath := filepath.Join(t.TempDir(), "rod-chromium")
		if err := os.WriteFile(rodPath, []byte("stub"), 0o600); err != nil {
			t.Fatalf("setup: %v", err)
		}
		t.Setenv("ROD_BROWSER_BIN", rodPath)

		result, _ := runDoctorJSON(t)
		if result.Browser.Path != rodPath {
			t.Errorf("Browser.Path = %q, want %q", result.Browser.Path, rodPath)
		}
		if result.Browser.Source != "ROD_BROWSER_BIN" {
			t.Errorf("Browser.Source = %q, want ROD_BROWSER_BIN", result.Browser.Source)
		}
	})

	t.Run("missing browser path is an error", func(t *testing.T) {
		cleanDoctorEnv(t)
		t.Setenv("MDPRESS_BROWSER", filepath.Join(t.TempDir(), "absent"))

		result, code := runDoctorJSON(t)
		if result.Browser.Found {
			t.Error("Browser.Found = true, want false")
		}
		if result.Status != "errors" {
			t.Errorf("Status = %q, want errors", result.Status)
		}
		if code != ExitFailure {
			t.Errorf("exit code = %d, want %d", code, ExitFailure)
		}
		found := false
		for _, e := range result.Errors {
			if strings.Contains(e, "browser not found at") {
				found = true
			}
		}
		if !found {
			t.Errorf("Errors = %v, want browser not found entry", result.Errors)
		}
	})

	t.Run("sandbox reported disabled with ROD_NO_SANDBOX", func(t *testing.T) {
		cleanDoctorEnv(t)
		stubBrowser(t)
		t.Setenv("ROD_NO_SANDBOX", "1")

		result, _ := runDoctorJSON(t)
		if result.Browser.Sandbox {
			t.Error("Browser.Sandbox = true, want false with ROD_NO_SANDBOX=1")
		}
		if result.Env.NoSandbox != "1" {
			t.Errorf("Env.NoSandbox = %q, want 1", result.Env.NoSandbox)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_ContainerDetection - Container signals
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_ContainerDetection(t *testing.T) {
	// Hosts carrying /.dockerenv shadow the env-based hints, so the exact
	// hint is only asserted for the explicit override.
	tests := []struct {
		name     string
		envVar   string
		envVal   string
		wantHint string
	}{
		{"explicit MDPRESS_CONTAINER override", "MDPRESS_CONTAINER", "1", "MDPRESS_CONTAINER=1"},
		{"kubernetes environment", "KUBERNETES_SERVICE_HOST", "10.0.0.1", ""},
		{"podman container", "container", "podman", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanDoctorEnv(t)
			stubBrowser(t)
			t.Setenv("ROD_NO_SANDBOX", "1")
			t.Setenv(tt.envVar, tt.envVal)

			result, _ := runDoctorJSON(t)
			if !result.Env.Container {
				t.Error("Container = false, want true")
			}
			if tt.wantHint != "" && result.Env.ContainerHint != tt.wantHint {
				t.Errorf("ContainerHint = %q, want %q", result.Env.ContainerHint, tt.wantHint)
			}
		})
	}
}

func TestRunDoctorCmd_ContainerPriority(t *testing.T) {
	cleanDoctorEnv(t)
	stubBrowser(t)
	t.Setenv("ROD_NO_SANDBOX", "1")
	t.Setenv("MDPRESS_CONTAINER", "1")
	t.Setenv("KUBERNETES_SERVICE_HOST", "10.0.0.1")

	result, _ := runDoctorJSON(t)
	if result.Env.ContainerHint != "MDPRESS_CONTAINER=1" {
		t.Errorf("ContainerHint = %q, want MDPRESS_CONTAINER=1", result.Env.ContainerHint)
	}
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_CIDetection - CI signals and sandbox warning
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_CIDetection(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		envVal string
	}{
		{"generic CI", "CI", "true"},
		{"GitHub Actions", "GITHUB_ACTIONS", "true"},
		{"GitLab CI", "GITLAB_CI", "true"},
		{"Jenkins", "JENKINS_URL", "http://jenkins.local"},
		{"CircleCI", "CIRCLECI", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleanDoctorEnv(t)
			stubBrowser(t)
			t.Setenv("ROD_NO_SANDBOX", "1")
			t.Setenv(tt.envVar, tt.envVal)

			result, _ := runDoctorJSON(t)
			if !result.Env.CI {
				t.Errorf("CI = false, want true with %s set", tt.envVar)
			}
		})
	}

	t.Run("no signals", func(t *testing.T) {
		cleanDoctorEnv(t)
		stubBrowser(t)

		result, _ := runDoctorJSON(t)
		if result.Env.CI {
			t.Error("CI = true, want false")
		}
	})
}

func TestRunDoctorCmd_SandboxWarning(t *testing.T) {
	t.Run("warns in CI without ROD_NO_SANDBOX", func(t *testing.T) {
		cleanDoctorEnv(t)
		stubBrowser(t)
		t.Setenv("CI", "true")

		result, _ := runDoctorJSON(t)
		found := false
		for _, w := range result.Warnings {
			if strings.Contains(w, "ROD_NO_SANDBOX") {
				found = true
			}
		}
		if !found {
			t.Errorf("Warnings = %v, want ROD_NO_SANDBOX advice", result.Warnings)
		}
		if result.Status == "ready" {
			t.Error("Status = ready despite warnings")
		}
	})

	t.Run("silent when sandbox already disabled", func(t *testing.T) {
		cleanDoctorEnv(t)
		stubBrowser(t)
		t.Setenv("CI", "true")
		t.Setenv("ROD_NO_SANDBOX", "1")

		result, _ := runDoctorJSON(t)
		for _, w := range result.Warnings {
			if strings.Contains(w, "ROD_NO_SANDBOX") {
				t.Errorf("unexpected sandbox warning: %q", w)
			}
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_ConfigReporting - Default config checks
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_ConfigReporting(t *testing.T) {
	t.Run("no default config", func(t *testing.T) {
		cleanDoctorEnv(t)
		stubBrowser(t)
		t.Chdir(t.TempDir())

		var stdout bytes.Buffer
		env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
		runDoctorCmd(nil, env)

		if !strings.Contains(stdout.String(), "No default config") {
			t.Errorf("output = %q, want no-config line", stdout.String())
		}
	})

	t.Run("default config reported", func(t *testing.T) {
		cleanDoctorEnv(t)
		stubBrowser(t)
		t.Chdir(t.TempDir())
		writeTestFile(t, ".mdpress.yaml", "outputDir: dist\n")

		result, _ := runDoctorJSON(t)
		if !result.Config.Found {
			t.Error("Config.Found = false, want true")
		}
		if result.Config.Path != ".mdpress.yaml" {
			t.Errorf("Config.Path = %q, want .mdpress.yaml", result.Config.Path)
		}
	})

	t.Run("broken default config is an error", func(t *testing.T) {
		cleanDoctorEnv(t)
		stubBrowser(t)
		t.Chdir(t.TempDir())
		writeTestFile(t, ".mdpress.yaml", "no_such_key: true\n")

		result, code := runDoctorJSON(t)
		if result.Config.Error == "" {
			t.Error("Config.Error empty, want parse failure")
		}
		if result.Status != "errors" {
			t.Errorf("Status = %q, want errors", result.Status)
		}
		if code != ExitFailure {
			t.Errorf("exit code = %d, want %d", code, ExitFailure)
		}
		found := false
		for _, e := range result.Errors {
			if strings.Contains(e, "default config") {
				found = true
			}
		}
		if !found {
			t.Errorf("Errors = %v, want default config entry", result.Errors)
		}
	})
}

// ---------------------------------------------------------------------------
// TestRunDoctorCmd_System - Temp directory check
// ---------------------------------------------------------------------------

func TestRunDoctorCmd_TempDirWritable(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	runDoctorCmd([]string{"--json"}, env)

	var result doctorResult
	if err := json.Unmarshal(stdout.Bytes(), &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !result.System.TempWritable {
		t.Error("TempWritable = false in normal conditions")
	}
}
