package readenv

import (
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ygrebnov/readenv/dotenv"
)

// Record holds the resolved values of a schema, keyed by field name. It is
// never modified after Resolve returns it; accessors return copies.
//
// Values have the canonical type of their kind (string, int64, uint64,
// float64, bool, []byte, time.Duration), whatever a ConvertFunc returned,
// or nil for an absent optional field.
type Record struct {
	names  []string
	values map[string]any
}

func newRecord(names []string, values map[string]any) Record {
	return Record{names: names, values: values}
}

// Value returns the value of the named field. ok is false for unknown names.
func (r Record) Value(name string) (v any, ok bool) {
	v, ok = r.values[name]
	return v, ok
}

// Names returns the field names in declaration order.
func (r Record) Names() []string {
	return append([]string(nil), r.names...)
}

// Len returns the number of fields.
func (r Record) Len() int { return len(r.names) }

// Map returns a copy of the values keyed by field name.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.values))
	for k, v := range r.values {
		out[k] = v
	}
	return out
}

// Strings renders every present value as text. Absent optional fields are
// left out.
func (r Record) Strings() map[string]string {
	out := make(map[string]string, len(r.values))
	for _, name := range r.names {
		if s, ok := formatValue(r.values[name]); ok {
			out[name] = s
		}
	}
	return out
}

// Rename returns a record whose field names are mapped through key, e.g. to
// export values under their environment keys.
func (r Record) Rename(key func(name string) string) Record {
	names := make([]string, len(r.names))
	values := make(map[string]any, len(r.values))
	for i, name := range r.names {
		names[i] = key(name)
		values[names[i]] = r.values[name]
	}
	return newRecord(names, values)
}

func formatValue(v any) (string, bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case []byte:
		return string(x), true
	case time.Duration:
		return x.String(), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), true
	case encoding.TextMarshaler:
		b, err := x.MarshalText()
		if err != nil {
			return fmt.Sprint(v), true
		}
		return string(b), true
	}
	return fmt.Sprint(v), true
}

// exportValue maps values without a natural JSON/YAML form to text.
func exportValue(v any) any {
	switch v.(type) {
	case []byte, time.Duration, encoding.TextMarshaler:
		s, _ := formatValue(v)
		return s
	}
	return v
}

// MarshalJSON encodes the record as a JSON object keyed by field name.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.values))
	for _, name := range r.names {
		out[name] = exportValue(r.values[name])
	}
	return json.Marshal(out)
}

// MarshalYAML encodes the record as a YAML mapping in declaration order.
func (r Record) MarshalYAML() (any, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}
	for _, name := range r.names {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: name}
		val := &yaml.Node{}
		if err := val.Encode(exportValue(r.values[name])); err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		doc.Content = append(doc.Content, key, val)
	}
	return doc, nil
}

// Format encodes the record as "json", "yaml" or "env" (a godotenv-compatible
// dotenv document keyed by field name).
func (r Record) Format(format string) ([]byte, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(r, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("%w as json: %w", ErrFormat, err)
		}
		return append(data, '\n'), nil
	case "yaml", "yml":
		data, err := yaml.Marshal(r)
		if err != nil {
			return nil, fmt.Errorf("%w as yaml: %w", ErrFormat, err)
		}
		return data, nil
	case "env":
		text, err := dotenv.Marshal(r.Strings())
		if err != nil {
			return nil, fmt.Errorf("%w as env: %w", ErrFormat, err)
		}
		if text == "" {
			return nil, nil
		}
		return []byte(text + "\n"), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, format)
}

var extFormats = map[string]string{
	".json": "json",
	".yaml": "yaml",
	".yml":  "yaml",
	".env":  "env",
}

// WriteFile writes the record to path, choosing the format from the
// extension (.json, .yaml/.yml, .env). Missing parent directories are
// created. The file is replaced atomically and is readable by its owner
// only, since it usually holds secrets.
func (r Record) WriteFile(path string) error {
	ext := filepath.Ext(path)
	if filepath.Base(path) == ".env" {
		ext = ".env"
	}
	format, ok := extFormats[ext]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
	data, err := r.Format(format)
	if err != nil {
		return err
	}
	if err := EnsurePath(path); err != nil {
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	return writeAtomic(path, data)
}

// EnsurePath ensures the directories for a file path exist and the path
// does not already exist as a directory.
func EnsurePath(p string) error {
	info, err := os.Stat(p)
	switch {
	case err == nil:
		if info.IsDir() {
			return ErrInaccessiblePath
		}
		return nil
	case !errors.Is(err, os.ErrNotExist):
		return ErrInaccessiblePath
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return ErrCannotCreateDirectories
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrWrite, err)
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("%w %s: %w", ErrWrite, path, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %w", ErrWrite, err)
	}
	if err := os.Rename(tmpFile.Name(), path); err != nil {
		return fmt.Errorf("%w: rename temp file to %s: %w", ErrWrite, path, err)
	}
	return nil
}
