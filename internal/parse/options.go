// Package parse splits raw poll response cells into options.
package parse

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/pollev/internal/model"
)

// DefaultPrefixChars end enumeration prefixes such as "a)", "b.", "c]"
const DefaultPrefixChars = ").]&"

// ErrNoOptions is returned when a response cell yields no options
var ErrNoOptions = &ParseError{Reason: "no response options"}

// ParseError describes a response cell that could not be parsed
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "parse: " + e.Reason
}

// Options configures option parsing
type Options struct {
	Delimiter     string // Literal separator between options, e.g. " | "
	CorrectMarker string // Literal marker appended to correct options, e.g. "(Correct)"
	PrefixChars   string // Characters that end an enumeration prefix
	PrefixScanLen int    // How far into a string a prefix character may appear
}

// ParseOptions splits raw into options, stripping enumeration prefixes and
// extracting correct markers. The delimiter is always structural: a literal
// delimiter inside an option's text splits it.
func ParseOptions(raw string, opts Options) ([]model.Option, error) {
	if opts.Delimiter == "" {
		return nil, errors.New("parse: delimiter is required")
	}

	parts := strings.Split(raw, opts.Delimiter)
	out := make([]model.Option, 0, len(parts))

	for _, part := range parts {
		text := StripPrefix(part, opts.PrefixChars, opts.PrefixScanLen)

		correct := false
		if opts.CorrectMarker != "" && strings.Contains(text, opts.CorrectMarker) {
			text = strings.ReplaceAll(text, opts.CorrectMarker, "")
			correct = true
		}

		// An empty option is kept when it carries the marker, so the
		// number of correct options matches the raw cell
		text = strings.TrimSpace(text)
		if text == "" && !correct {
			continue
		}
		out = append(out, model.Option{Text: text, Correct: correct})
	}

	if len(out) == 0 {
		return nil, ErrNoOptions
	}
	return out, nil
}

// StripPrefix removes an enumeration prefix like "1) " or "b. " from s.
// The first character among the leading scanLen+1 characters of s that is
// one of chars ends the prefix; it is dropped together with everything
// before it and any following spaces.
func StripPrefix(s string, chars string, scanLen int) string {
	if chars == "" || scanLen < 0 {
		return s
	}

	for i, n := 0, 0; i < len(s) && n <= scanLen; n++ {
		r, size := utf8.DecodeRuneInString(s[i:])
		if strings.ContainsRune(chars, r) {
			return strings.TrimLeft(s[i+size:], " ")
		}
		i += size
	}
	return s
}

var texReplacer = strings.NewReplacer(
	`%`, `\%`,
	`&`, `\&`,
	`#`, `\#`,
	`$`, `\$`,
	`_`, `\_`,
)

// EscapeTeX escapes characters with structural meaning in LaTeX.
// Only display text should be escaped, never macro or environment names.
func EscapeTeX(s string) string {
	return texReplacer.Replace(s)
}
