package css

import (
	"fmt"
	"os"
	"strings"
)

// LoadStylesheets reads the theme's external stylesheets in configured
// order, so later files override earlier ones in the cascade. Each
// file's content is prefixed with a comment naming its path. Unreadable
// files are skipped with a warning; one bad path never aborts the job.
func (g *Generator) LoadStylesheets() (string, []string) {
	var parts []string
	var warnings []string

	for _, path := range g.theme.Stylesheets {
		content, err := os.ReadFile(path) // #nosec G304 -- stylesheet paths come from the user's theme
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("could not load stylesheet %s: %v", path, err))
			continue
		}
		parts = append(parts, fmt.Sprintf("/* %s */\n%s", path, content))
	}

	return strings.Join(parts, "\n\n"), warnings
}
