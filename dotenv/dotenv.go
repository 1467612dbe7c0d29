// Package dotenv reads .env files into an in-memory key/value map.
//
// The format is line oriented `KEY=VALUE` with POSIX shell quoting:
//
//	# comment
//	DEBUG="True" # trailing comment
//	WORKERS=5
//	CERT='-----BEGIN CERTIFICATE-----
//	MIIB...
//	-----END CERTIFICATE-----'
//
// Values are taken literally: there is no variable expansion. Values that
// contain '=', '#' or blanks must be quoted, and an empty value is written
// as KEY="". When a key appears more than once, the last value wins.
package dotenv

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// ErrParse reports a malformed dotenv document, e.g. an unterminated quote.
var ErrParse = errors.New("parse dotenv")

// Map is an immutable view of parsed dotenv pairs. Keys keep the order of
// their first appearance; values are the last assigned ones.
// A nil *Map is empty.
type Map struct {
	keys   []string
	values map[string]string
}

// Parse tokenizes text and binds every `key = value` word triple.
// An '=' with no word before or after it is ignored, as is a pair whose key
// is an empty string.
func Parse(text string) (*Map, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	m := &Map{values: make(map[string]string)}
	for i := 1; i < len(tokens)-1; i++ {
		if !tokens[i].assign {
			continue
		}
		key, value := tokens[i-1], tokens[i+1]
		if key.assign || value.assign || key.text == "" {
			continue
		}
		if _, seen := m.values[key.text]; !seen {
			m.keys = append(m.keys, key.text)
		}
		m.values[key.text] = value.text
	}

	return m, nil
}

// ReadFile reads and parses the dotenv file at path. I/O errors are returned
// wrapped, so errors.Is(err, fs.ErrNotExist) still works for callers that
// treat a missing file as "no dotenv".
func ReadFile(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	m, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Lookup returns the value bound to key.
func (m *Map) Lookup(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.values[key]
	return v, ok
}

// Len returns the number of distinct keys.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in order of first appearance.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// ToMap returns a copy of the pairs as a plain map.
func (m *Map) ToMap() map[string]string {
	out := make(map[string]string, m.Len())
	if m == nil {
		return out
	}
	for k, v := range m.values {
		out[k] = v
	}
	return out
}

// Marshal renders values as a dotenv document understood by godotenv and
// tools following its conventions (sorted keys, double-quoted values with
// backslash escapes). Such documents use `\n` escapes for newlines, which
// Parse keeps literally; use Marshal for handing values to other tools.
func Marshal(values map[string]string) (string, error) {
	out, err := godotenv.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("marshal dotenv: %w", err)
	}
	return out, nil
}
