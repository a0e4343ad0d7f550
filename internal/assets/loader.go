package assets

// Loader defines the contract for loading stylesheets and component
// templates. Implementations may load from embedded files, the
// filesystem, or anything else that can produce the content by name.
type Loader interface {
	// LoadStylesheet loads a CSS stylesheet by name (without the .css
	// extension). Returns ErrStylesheetNotFound if it does not exist and
	// ErrInvalidAssetName if the name contains invalid characters.
	LoadStylesheet(name string) (string, error)

	// LoadTemplate loads a component template by name (without the
	// .html.tmpl extension). Returns ErrTemplateNotFound if it does not
	// exist and ErrInvalidAssetName if the name contains invalid
	// characters.
	LoadTemplate(name string) (string, error)
}
