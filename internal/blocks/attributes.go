package blocks

import (
	"errors"
	"fmt"
)

// ErrAttributeSyntax indicates a malformed attribute list on an opening
// fence. The parser treats the whole line as ordinary text in that case.
var ErrAttributeSyntax = errors.New("invalid attribute syntax")

// parseAttributes tokenizes the attribute portion of an opening fence.
//
// The grammar accepts four token forms separated by spaces or tabs:
//
//	key="double quoted"
//	key='single quoted'
//	key=bare
//	flag
//
// Keys and flags are word characters only. Anything else is an error,
// which makes the opening line fall back to plain paragraph text rather
// than silently dropping part of it.
func parseAttributes(s string) (map[string]string, []string, error) {
	attrs := map[string]string{}
	var flags []string

	i := 0
	for i < len(s) {
		for i < len(s) && isSpace(s[i]) {
			i++
		}
		if i >= len(s) {
			break
		}

		start := i
		for i < len(s) && isWord(s[i]) {
			i++
		}
		if i == start {
			return nil, nil, fmt.Errorf("%w: unexpected character %q", ErrAttributeSyntax, s[i])
		}
		word := s[start:i]

		if i >= len(s) || isSpace(s[i]) {
			flags = append(flags, word)
			continue
		}
		if s[i] != '=' {
			return nil, nil, fmt.Errorf("%w: unexpected character %q after %q", ErrAttributeSyntax, s[i], word)
		}
		i++

		value, next, err := scanValue(s, i, word)
		if err != nil {
			return nil, nil, err
		}
		attrs[word] = value
		i = next

		if i < len(s) && !isSpace(s[i]) {
			return nil, nil, fmt.Errorf("%w: unexpected character %q after %q", ErrAttributeSyntax, s[i], word)
		}
	}

	return attrs, flags, nil
}

// scanValue reads an attribute value starting at i, returning the value
// and the index just past it. Quoted values may contain spaces; bare
// values run to the next whitespace.
func scanValue(s string, i int, key string) (string, int, error) {
	if i >= len(s) {
		return "", 0, fmt.Errorf("%w: attribute %q has no value", ErrAttributeSyntax, key)
	}
	if s[i] == '"' || s[i] == '\'' {
		quote := s[i]
		i++
		start := i
		for i < len(s) && s[i] != quote {
			i++
		}
		if i >= len(s) {
			return "", 0, fmt.Errorf("%w: unterminated quote in attribute %q", ErrAttributeSyntax, key)
		}
		return s[start:i], i + 1, nil
	}
	start := i
	for i < len(s) && !isSpace(s[i]) {
		i++
	}
	return s[start:i], i, nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t'
}

func isWord(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}
