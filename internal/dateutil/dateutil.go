// Package dateutil turns human-facing date format strings (YYYY-MM-DD,
// MMMM D, ...) into Go time layouts and resolves the "auto" date syntax
// used by document metadata and page variables.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates a format string that cannot be parsed.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength bounds format strings so a config typo cannot
// balloon into pathological output.
const MaxDateFormatLength = 50

// DefaultDateFormat is applied when "auto" carries no explicit format.
const DefaultDateFormat = "YYYY-MM-DD"

// DisplayDateFormat renders the {date} header/footer variable when the
// caller does not choose a format ("August 2026" style).
const DisplayDateFormat = "MMMM YYYY"

// layoutTokens maps format tokens to Go reference-time components. The
// table is ordered longest first so MMMM wins over MMM, MM and M, and
// YYYY over YY; matching walks it top to bottom.
var layoutTokens = []struct {
	src string
	dst string
}{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"MMM", "Jan"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// DatePresets names the common formats so users can write "auto:long"
// instead of spelling the tokens out.
var DatePresets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"month":    DisplayDateFormat,
}

// ParseDateFormat converts a token format string into a Go time layout.
// Recognized tokens: YYYY, YY, MMMM, MMM, MM, M, DD, D. Text wrapped in
// brackets is copied through untouched ([Date] stays "Date"), and any
// other character outside brackets is kept as a literal. Empty formats,
// formats over MaxDateFormatLength and unclosed brackets all return
// ErrInvalidDateFormat.
func ParseDateFormat(format string) (string, error) {
	switch {
	case format == "":
		return "", fmt.Errorf("%w: empty format", ErrInvalidDateFormat)
	case len(format) > MaxDateFormatLength:
		return "", fmt.Errorf("%w: longer than %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var out strings.Builder
	out.Grow(len(format) + 8)

	for i := 0; i < len(format); {
		// Bracketed text passes through verbatim. The first ']' closes
		// the group; brackets do not nest.
		if format[i] == '[' {
			n := strings.IndexByte(format[i+1:], ']')
			if n < 0 {
				return "", fmt.Errorf("%w: bracket opened at position %d is never closed", ErrInvalidDateFormat, i)
			}
			out.WriteString(format[i+1 : i+1+n])
			i += n + 2
			continue
		}

		if layout, width := matchLayoutToken(format[i:]); width > 0 {
			out.WriteString(layout)
			i += width
			continue
		}

		out.WriteByte(format[i])
		i++
	}

	return out.String(), nil
}

// matchLayoutToken reports the Go layout for the token at the start of s
// and how many bytes it consumed, or width 0 when nothing matches.
func matchLayoutToken(s string) (layout string, width int) {
	for _, t := range layoutTokens {
		if strings.HasPrefix(s, t.src) {
			return t.dst, len(t.src)
		}
	}
	return "", 0
}

// ResolveDate expands the auto date syntax against the given time:
//
//	"auto"        -> t in the default YYYY-MM-DD format
//	"auto:FORMAT" -> t in a custom token format
//	"auto:PRESET" -> t in a named preset (iso, european, us, long, month)
//
// Any value not starting with "auto" is display text and passes through
// unchanged. The auto keyword and preset names are case insensitive;
// custom formats keep their case so tokens survive.
func ResolveDate(value string, t time.Time) (string, error) {
	lower := strings.ToLower(value)
	if !strings.HasPrefix(lower, "auto") {
		return value, nil
	}

	var spec string
	switch {
	case lower == "auto":
		spec = DefaultDateFormat
	case strings.HasPrefix(lower, "auto:"):
		spec = value[len("auto:"):]
		if spec == "" {
			return "", fmt.Errorf("%w: nothing after \"auto:\"", ErrInvalidDateFormat)
		}
		if preset, ok := DatePresets[strings.ToLower(spec)]; ok {
			spec = preset
		}
	default:
		return "", fmt.Errorf("%w: %q is neither \"auto\" nor \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}

	layout, err := ParseDateFormat(spec)
	if err != nil {
		return "", err
	}
	return t.Format(layout), nil
}
