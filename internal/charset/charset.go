// Package charset converts between UTF-8 and the configured text encoding.
package charset

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Lookup resolves an encoding label such as "utf-8", "latin1" or "windows-1252"
func Lookup(name string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(strings.TrimSpace(name))
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	return enc, nil
}

// Decode converts data in the named encoding to UTF-8, dropping a leading BOM
func Decode(data []byte, name string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	if enc == unicode.UTF8 {
		return bytes.TrimPrefix(data, utf8BOM), nil
	}

	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return bytes.TrimPrefix(out, utf8BOM), nil
}

// Encode converts UTF-8 data to the named encoding.
// Characters the target encoding cannot represent are reported as errors.
func Encode(data []byte, name string) ([]byte, error) {
	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return data, nil
	}

	out, err := enc.NewEncoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return out, nil
}
