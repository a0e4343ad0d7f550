package mdpress

import "errors"

// Sentinel errors for library operations.
var (
	ErrInvalidInput       = errors.New("invalid conversion input")
	ErrMarkdownConversion = errors.New("markdown conversion failed")
	ErrCSSGeneration      = errors.New("CSS generation failed")
	ErrHTMLInjection      = errors.New("HTML assembly failed")
	ErrPDFConversion      = errors.New("PDF conversion failed")

	// Browser errors.
	ErrBrowserNotFound = errors.New("browser binary not found")
	ErrBrowserConnect  = errors.New("failed to connect to browser")
	ErrTimeout         = errors.New("conversion timed out")

	// Component template errors. Template failures during a conversion
	// degrade to fallback rendering with a warning; these sentinels only
	// surface when a template is registered through the public API.
	ErrTemplateParse = errors.New("component template parse failed")

	// Asset loading errors.
	ErrStylesheetNotFound = errors.New("stylesheet not found")
	ErrTemplateNotFound   = errors.New("template not found")
	ErrInvalidAssetPath   = errors.New("invalid asset path")
)
