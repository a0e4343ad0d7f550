package main

import (
	"errors"

	flag "github.com/spf13/pflag"

	mdpress "github.com/avoll/go-mdpress"
	"github.com/avoll/go-mdpress/internal/config"
	"github.com/avoll/go-mdpress/theme"
)

// Exit codes for the mdpress CLI.
const (
	ExitSuccess    = 0 // All conversions succeeded
	ExitFailure    = 1 // Conversion or unexpected error
	ExitUsage      = 2 // Bad flags, input paths, or config
	ExitValidation = 3 // Theme failed validation
	ExitPartial    = 4 // Batch finished with some failures
)

// CLI sentinel errors.
var (
	ErrUsage        = errors.New("invalid usage")
	ErrBatchPartial = errors.New("some conversions failed")
)

// exitCodeFor maps an error to the process exit code. Wrapped errors are
// honored through errors.Is, so error paths must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// pflag reports -h/--help as an error after printing usage.
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}

	if errors.Is(err, ErrBatchPartial) {
		return ExitPartial
	}

	// A theme that does not parse cannot be validated either; both count
	// as validation failures. A wrong theme path is a usage error below.
	if errors.Is(err, theme.ErrThemeValidation) ||
		errors.Is(err, theme.ErrThemeParse) {
		return ExitValidation
	}

	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrNoInput) ||
		errors.Is(err, ErrNoMatches) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrInvalidWorkerCount) ||
		errors.Is(err, ErrUnsupportedShell) ||
		errors.Is(err, ErrReadCSS) ||
		errors.Is(err, theme.ErrThemeNotFound) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrEmptyConfigName) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrInvalidTimeout) ||
		errors.Is(err, mdpress.ErrInvalidInput) {
		return ExitUsage
	}

	return ExitFailure
}
