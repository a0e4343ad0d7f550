package blocks

import (
	"fmt"
	"html"
	"html/template"
	"maps"
	"slices"
	"strings"
)

// ComponentConfig configures rendering for one component name.
type ComponentConfig struct {
	// Template renders the component when set. A nil template means the
	// component always uses the generic container.
	Template *template.Template

	// Icon is passed to the template, typically an emoji or short glyph.
	Icon string

	// Defaults are attribute values applied when the fence does not
	// override them.
	Defaults map[string]string
}

// Registry maps component names to rendering configuration. It is built
// once per document from the theme and read-only afterwards.
type Registry struct {
	components map[string]ComponentConfig
}

// NewRegistry returns an empty registry. Unregistered components still
// render through the generic container.
func NewRegistry() *Registry {
	return &Registry{components: map[string]ComponentConfig{}}
}

// Register adds or replaces the configuration for a component name.
func (r *Registry) Register(name string, cfg ComponentConfig) {
	r.components[name] = cfg
}

// Lookup returns the configuration for a component name.
func (r *Registry) Lookup(name string) (ComponentConfig, bool) {
	cfg, ok := r.components[name]
	return cfg, ok
}

// Names returns the registered component names in sorted order.
func (r *Registry) Names() []string {
	return slices.Sorted(maps.Keys(r.components))
}

// MergedAttributes overlays fence attributes on the component's
// configured defaults.
func (r *Registry) MergedAttributes(name string, attrs map[string]string) map[string]string {
	cfg := r.components[name]
	merged := make(map[string]string, len(cfg.Defaults)+len(attrs))
	maps.Copy(merged, cfg.Defaults)
	maps.Copy(merged, attrs)
	return merged
}

// Context is the data a component template renders with.
type Context struct {
	// Name is the component name as written in the fence.
	Name string

	// Content is the inner Markdown already converted to HTML.
	Content template.HTML

	// Attributes are the fence attributes merged over the defaults.
	Attributes map[string]string

	// Flags are the bare attribute words in source order.
	Flags []string

	// Icon is the configured icon, empty when none is set.
	Icon string

	// CSSClasses is a ready-made class list: the custom-block marker,
	// the hyphenated component name, color and size modifiers, and any
	// explicit class attribute.
	CSSClasses string

	// DataAttributes is a pre-escaped attribute string with a leading
	// space, e.g. ` data-color="blue"`. Empty when there is nothing to
	// emit.
	DataAttributes template.HTMLAttr
}

// cssClasses builds the class list templates receive.
func cssClasses(name string, attrs map[string]string) string {
	classes := []string{"custom-block", strings.ReplaceAll(name, "_", "-")}
	if v, ok := attrs["color"]; ok && v != "" {
		classes = append(classes, "color-"+v)
	}
	if v, ok := attrs["size"]; ok && v != "" {
		classes = append(classes, "size-"+v)
	}
	if v, ok := attrs["class"]; ok && v != "" {
		classes = append(classes, v)
	}
	return strings.Join(classes, " ")
}

// structuralKeys are attributes with HTML meaning of their own. They
// are kept out of the template data-* set, where templates place them
// through CSSClasses and Attributes instead.
var structuralKeys = map[string]bool{"class": true, "id": true, "style": true}

// dataAttributes serializes attributes as data-* pairs for template
// contexts, sorted by key and skipping structural keys. Underscores
// become hyphens, so size_hint turns into data-size-hint.
func dataAttributes(attrs map[string]string) template.HTMLAttr {
	return serializeDataAttributes(attrs, structuralKeys)
}

// fallbackDataAttributes keeps the structural keys too: the generic
// container must reproduce every key="value" attribute the author
// wrote, so class/id/style surface as data-class/data-id/data-style.
func fallbackDataAttributes(attrs map[string]string) template.HTMLAttr {
	return serializeDataAttributes(attrs, nil)
}

func serializeDataAttributes(attrs map[string]string, skip map[string]bool) template.HTMLAttr {
	var parts []string
	for _, key := range slices.Sorted(maps.Keys(attrs)) {
		if skip[key] {
			continue
		}
		name := strings.ReplaceAll(key, "_", "-")
		parts = append(parts, fmt.Sprintf(`data-%s="%s"`, name, html.EscapeString(attrs[key])))
	}
	if len(parts) == 0 {
		return ""
	}
	return template.HTMLAttr(" " + strings.Join(parts, " "))
}
