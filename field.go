package readenv

import (
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
)

// Kind is the declared type of a field. It selects the built-in converter
// used when no ConvertFunc is set.
type Kind int

const (
	// KindUnspecified fields are converted as strings.
	KindUnspecified Kind = iota
	KindString
	KindInt      // int64
	KindUint     // uint64
	KindFloat    // float64
	KindBool     // true/1, false/0, case-insensitive
	KindBytes    // []byte, raw bytes of the value
	KindDuration // time.Duration
	// KindText fields implement encoding.TextUnmarshaler; FieldSpec.Type must be set.
	KindText
	// KindUnsupported fields need a ConvertFunc.
	KindUnsupported
)

var kindNames = map[Kind]string{
	KindUnspecified: "",
	KindString:      "string",
	KindInt:         "int",
	KindUint:        "uint",
	KindFloat:       "float",
	KindBool:        "bool",
	KindBytes:       "bytes",
	KindDuration:    "duration",
	KindText:        "text",
	KindUnsupported: "unsupported",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		if name == "" {
			return "unspecified"
		}
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps a type name used in schema files to a Kind. The empty
// string maps to KindUnspecified.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "":
		return KindUnspecified, nil
	case "string", "str":
		return KindString, nil
	case "int", "integer":
		return KindInt, nil
	case "uint":
		return KindUint, nil
	case "float", "number":
		return KindFloat, nil
	case "bool", "boolean":
		return KindBool, nil
	case "bytes":
		return KindBytes, nil
	case "duration":
		return KindDuration, nil
	}
	return KindUnsupported, fmt.Errorf("%w: unknown type %q", ErrInvalidSchema, name)
}

// ConvertFunc turns a raw string into a field value. A returned error is
// reported as ErrTypeConversion. Returning (nil, nil) counts as "no value",
// so defaults still apply.
type ConvertFunc func(raw string) (any, error)

// FieldOverride customizes how one field is looked up. The zero value reads
// the file <secrets dir>/<lower-cased name>, then the dotenv key and the
// environment variable <upper-cased name>.
type FieldOverride struct {
	// FilePath, when set, is used as is and FileLocation/FileName are ignored.
	FilePath     string
	FileLocation string
	FileName     string

	EnvName    string
	DotenvName string

	// SkipEnv disables the environment lookup; SkipFile disables the file
	// lookup. The dotenv lookup is not affected by either.
	SkipEnv  bool
	SkipFile bool

	Convert ConvertFunc
}

func (o FieldOverride) path(secretsDir, defaultName string) string {
	if o.FilePath != "" {
		return o.FilePath
	}
	dir, name := secretsDir, defaultName
	if o.FileLocation != "" {
		dir = o.FileLocation
	}
	if o.FileName != "" {
		name = o.FileName
	}
	return filepath.Join(dir, name)
}

func (o FieldOverride) envKey(derived string) string {
	if o.EnvName != "" {
		return o.EnvName
	}
	return derived
}

func (o FieldOverride) dotenvKey(derived string) string {
	if o.DotenvName != "" {
		return o.DotenvName
	}
	return derived
}

// FieldSpec declares one field of a record.
type FieldSpec struct {
	Name string
	Kind Kind
	// Optional fields resolve to nil instead of failing when no value is found.
	Optional bool

	// Default is used when HasDefault is set and no source has a value.
	Default    any
	HasDefault bool
	// DefaultFunc is called at most once, only when no source has a value.
	// It cannot be combined with HasDefault.
	DefaultFunc func() any

	Override FieldOverride

	// Type is the Go type the value is assigned to. Read sets it; it is
	// required for KindText.
	Type reflect.Type
}

// Schema is an ordered list of field declarations.
type Schema []FieldSpec

// Validate checks that names are non-empty and unique and that no field has
// both a static default and a default function.
func (s Schema) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for i, f := range s {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("%w: field #%d has no name", ErrInvalidSchema, i)
		}
		if _, dup := seen[f.Name]; dup {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidSchema, f.Name)
		}
		seen[f.Name] = struct{}{}

		if f.HasDefault && f.DefaultFunc != nil {
			return fmt.Errorf("%w: field %q has both a default and a default function", ErrInvalidSchema, f.Name)
		}
		if f.Kind == KindText && f.Type == nil && f.Override.Convert == nil {
			return fmt.Errorf("%w: field %q of kind text has no type", ErrInvalidSchema, f.Name)
		}
	}
	return nil
}

// Names returns the field names in declaration order.
func (s Schema) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

// EnvKey returns the environment key a field is looked up under with the
// given naming strategy (nil means DefaultNaming).
func (f FieldSpec) EnvKey(n NamingStrategy) string {
	if n == nil {
		n = DefaultNaming{}
	}
	return f.Override.envKey(n.EnvKey(f.Name))
}

// index returns the position of the field named name, or -1.
func (s Schema) index(name string) int {
	for i, f := range s {
		if f.Name == name {
			return i
		}
	}
	return -1
}
