package theme

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"

	"github.com/avoll/go-mdpress/internal/fileutil"
	"github.com/avoll/go-mdpress/internal/yamlutil"
)

// Load reads, validates and builds a theme file. The returned
// ValidationResult carries every warning found, including references to
// files that do not exist; callers decide whether warnings block (strict
// mode). A nil error guarantees a usable Theme. On validation failure the
// result is still returned so all issues can be reported at once.
func Load(path string) (*Theme, *ValidationResult, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- theme path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrThemeNotFound, path)
		}
		return nil, nil, fmt.Errorf("reading theme file: %w", err)
	}
	return Parse(data, filepath.Dir(path))
}

// Parse validates and builds a theme from raw YAML bytes. dir is the
// directory relative paths resolve against; pass "" to leave them as-is.
func Parse(data []byte, dir string) (*Theme, *ValidationResult, error) {
	raw, err := yamlutil.UnmarshalMapping(data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrThemeParse, err)
	}

	result := Validate(raw)
	if !result.OK() {
		return nil, result, fmt.Errorf("%w: %s", ErrThemeValidation, result.Summary())
	}

	t, err := Build(raw)
	if err != nil {
		return nil, result, err
	}
	t.ResolvePaths(dir)
	checkFileReferences(t, result)
	return t, result, nil
}

// checkFileReferences warns about declared files that cannot be found.
// Missing files degrade at generation time (the font falls back, the
// stylesheet is skipped), so these never block the load.
func checkFileReferences(t *Theme, result *ValidationResult) {
	for i, font := range t.Fonts {
		for _, variant := range font.Variants() {
			if !fileutil.FileExists(variant.Path) {
				result.addWarning(
					fmt.Sprintf("fonts[%d].%s", i, variant.Style),
					fmt.Sprintf("font file not found: %s", variant.Path),
					"the PDF renderer will fall back to a system font")
			}
		}
	}
	for i, path := range t.Stylesheets {
		if !fileutil.FileExists(path) {
			result.addWarning(
				fmt.Sprintf("stylesheets[%d]", i),
				fmt.Sprintf("stylesheet not found: %s", path),
				"the stylesheet will be skipped")
		}
	}
	for _, name := range slices.Sorted(maps.Keys(t.Components)) {
		comp := t.Components[name]
		if comp.Template != "" && !fileutil.FileExists(comp.Template) {
			result.addWarning(
				"custom_components."+name+".template",
				fmt.Sprintf("template not found: %s", comp.Template),
				"blocks will use the generic fallback rendering")
		}
	}
}
