package assets

import "fmt"

// ComponentDefault describes one bundled component: its template source
// and the icon the template shows when the theme does not override it.
type ComponentDefault struct {
	Name     string
	Template string
	Icon     string
}

// bundledComponents lists the component templates shipped with the
// library, in registration order.
var bundledComponents = []struct {
	name string
	icon string
}{
	{"tip_box", "\U0001F4A1"},
	{"attention_box", "⚠️"},
	{"magic_secret", "✨"},
}

// DefaultComponents returns the bundled component set. Callers register
// these first and let theme-configured components override them.
func DefaultComponents() []ComponentDefault {
	loader := NewEmbeddedLoader()
	defaults := make([]ComponentDefault, 0, len(bundledComponents))
	for _, c := range bundledComponents {
		source, err := loader.LoadTemplate(c.name)
		if err != nil {
			panic(fmt.Sprintf("assets: bundled template %q missing: %v", c.name, err))
		}
		defaults = append(defaults, ComponentDefault{
			Name:     c.name,
			Template: source,
			Icon:     c.icon,
		})
	}
	return defaults
}
