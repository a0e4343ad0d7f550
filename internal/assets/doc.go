// Package assets provides the bundled CSS and component templates that
// ship with the library, plus loaders for user-supplied replacements.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	Loader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (bundled defaults)
//	    ├── FilesystemLoader  - loads from a directory on disk
//	    └── Resolver          - combines both with custom-first fallback
//
// EmbeddedLoader serves the base stylesheet, the component stylesheet
// and the bundled component templates compiled into the binary.
//
// FilesystemLoader lets users override assets from a directory, with
// path traversal protection and symlink resolution.
//
// Resolver is what the converter uses: it tries the FilesystemLoader
// first and falls back to EmbeddedLoader when the asset is not found,
// so users can replace one template while keeping the rest.
//
// # Directory Structure
//
// Custom asset directories mirror the embedded layout:
//
//	{basePath}/
//	├── css/
//	│   └── {name}.css            # stylesheets (base, components, ...)
//	└── templates/
//	    └── {name}.html.tmpl      # component templates (tip_box, ...)
//
// # Security
//
// Asset names are validated to reject path separators and dots.
// FilesystemLoader resolves symlinks and verifies paths stay within the
// base directory.
package assets
