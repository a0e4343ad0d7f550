package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName accepts only names usable as a bare file stem.
// Separators and dots are rejected outright, which rules out traversal
// sequences and extension tricks before any path is built.
func ValidateAssetName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	case strings.ContainsAny(name, `/\.`):
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
