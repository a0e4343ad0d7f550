package assets

import "errors"

var (
	// ErrStylesheetNotFound reports a stylesheet name with no backing file.
	ErrStylesheetNotFound = errors.New("stylesheet not found")

	// ErrTemplateNotFound reports a component template name with no backing file.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrInvalidAssetName rejects names carrying separators, dots or
	// anything else that could steer the lookup out of the asset tree.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidBasePath rejects a custom asset root that is missing,
	// unreadable or not a directory.
	ErrInvalidBasePath = errors.New("invalid base path")

	// ErrAssetRead wraps I/O failures on an asset that does exist.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal reports a resolved path outside the asset root.
	ErrPathTraversal = errors.New("path traversal detected")
)
