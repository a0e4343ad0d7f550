// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error
// messages; bare suggestion text for theme validation issues comes from the
// Suggest* functions.
package hints

import (
	"os"
	"strings"

	"github.com/avoll/go-mdpress/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForBrowserConnect returns hints for browser connection errors.
// Detects CI/Docker environment and suggests relevant environment variables.
func ForBrowserConnect() string {
	var hints []string

	inCI := os.Getenv("CI") != "" ||
		os.Getenv("GITHUB_ACTIONS") != "" ||
		os.Getenv("GITLAB_CI") != "" ||
		os.Getenv("JENKINS_URL") != ""

	if (inCI || IsInContainer()) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		hints = append(hints, "set ROD_NO_SANDBOX=1 for Docker/CI")
	}

	if os.Getenv("ROD_BROWSER_BIN") == "" && os.Getenv("MDPRESS_BROWSER") == "" {
		hints = append(hints, "set MDPRESS_BROWSER to use custom Chrome")
	}

	return formatHints(hints)
}

// ForTimeout returns a hint about increasing timeout for slow operations.
func ForTimeout() string {
	return format("for large documents, use --timeout flag")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/mdpress/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/mdpress") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForThemeNotFound returns hints for theme file not found errors.
func ForThemeNotFound(path string) string {
	if fileutil.IsYAMLFile(path) {
		return format("check the path: " + path)
	}
	return format("theme files use the .yaml or .yml extension")
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// Suggestion text for theme validation issues. These are bare strings
// (no "hint:" prefix) because ValidationResult carries them per issue.

// SuggestPageSize lists the accepted page size identifiers.
func SuggestPageSize(valid []string) string {
	return "valid sizes: " + strings.Join(valid, ", ")
}

// SuggestOrientation lists the accepted orientations.
func SuggestOrientation() string {
	return `use "portrait" or "landscape"`
}

// SuggestColor describes the accepted color syntax.
func SuggestColor() string {
	return `use a 6-digit hex color like "#1a2b3c"`
}

// SuggestLength describes the accepted length syntax.
func SuggestLength(units []string) string {
	return "use <number><unit> with unit one of " + strings.Join(units, ", ")
}

// SuggestStyleElement lists a few accepted element names.
func SuggestStyleElement(valid []string) string {
	return "valid elements: " + strings.Join(valid, ", ")
}

// SuggestIdentifier describes the accepted name syntax for user-chosen keys.
func SuggestIdentifier() string {
	return "use letters, digits and underscores, starting with a letter or underscore"
}

// SuggestTopLevelKey lists the accepted top-level theme keys.
func SuggestTopLevelKey(valid []string) string {
	return "allowed keys: " + strings.Join(valid, ", ")
}

// SuggestMarginShape describes the two accepted margin forms.
func SuggestMarginShape() string {
	return `use a single length ("2cm") or a mapping with top/right/bottom/left`
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
