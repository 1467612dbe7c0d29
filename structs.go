package readenv

import (
	"fmt"
	"reflect"
	"strings"
)

// Struct tags understood by Read.
const (
	tagEnv      = "env"      // environment key; "-" skips the field
	tagDotenv   = "dotenv"   // dotenv key
	tagFile     = "file"     // secret file name
	tagFileDir  = "filedir"  // secret file directory
	tagFilePath = "filepath" // full secret file path
	tagDefault  = "default"  // raw default, converted like a source value
	tagOptions  = "readenv"  // comma-separated: noenv, nofile, optional
)

// Read builds a *T from its exported fields, resolved as by Resolve.
//
//	type Config struct {
//		Debug    bool
//		Workers  int           `default:"4"`
//		Password string        `file:"db_password" readenv:"noenv"`
//		Timeout  time.Duration `env:"HTTP_TIMEOUT" default:"5s"`
//		Region   *string       // optional
//	}
//
//	cfg, err := readenv.Read[Config](readenv.WithDotenvFile(".env"))
//
// Pointer fields are optional. Types implementing encoding.TextUnmarshaler
// are decoded with it. Nested structs are not traversed; give them a
// converter or skip them with `env:"-"`.
func Read[T any](opts ...Option) (*T, error) {
	s := newSettings(opts)

	cfg := new(T)
	rv := reflect.ValueOf(cfg).Elem()
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidTarget, rv.Type())
	}

	schema, index, err := s.structSchema(rv.Type())
	if err != nil {
		return nil, err
	}

	rec, err := s.resolve(schema)
	if err != nil {
		return nil, err
	}

	for _, f := range schema {
		v, _ := rec.Value(f.Name)
		if err := assign(rv.Field(index[f.Name]), v); err != nil {
			return nil, fieldError(f.Name, ErrTypeConversion, err)
		}
	}

	if s.validate != nil {
		if err := s.validate(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// structSchema derives a Schema from the exported fields of t. index maps
// field names to struct field positions.
func (s *settings) structSchema(t reflect.Type) (Schema, map[string]int, error) {
	schema := make(Schema, 0, t.NumField())
	index := make(map[string]int, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.PkgPath != "" {
			continue
		}
		env := sf.Tag.Get(tagEnv)
		if env == "-" {
			continue
		}

		kind, optional := kindOf(sf.Type)
		f := FieldSpec{
			Name:     sf.Name,
			Kind:     kind,
			Optional: optional,
			Type:     sf.Type,
			Override: FieldOverride{
				EnvName:      env,
				DotenvName:   sf.Tag.Get(tagDotenv),
				FileName:     sf.Tag.Get(tagFile),
				FileLocation: sf.Tag.Get(tagFileDir),
				FilePath:     sf.Tag.Get(tagFilePath),
			},
		}
		if err := applyTagOptions(&f, sf.Tag.Get(tagOptions)); err != nil {
			return nil, nil, err
		}
		if fn, ok := s.converters[f.Name]; ok {
			f.Override.Convert = fn
		}

		if raw, ok := sf.Tag.Lookup(tagDefault); ok {
			v, err := convert(f, raw)
			if err != nil {
				return nil, nil, fmt.Errorf("default tag: %w", err)
			}
			f.Default, f.HasDefault = v, true
		}

		index[f.Name] = i
		schema = append(schema, f)
	}
	return schema, index, nil
}

func applyTagOptions(f *FieldSpec, tag string) error {
	if tag == "" {
		return nil
	}
	for _, opt := range strings.Split(tag, ",") {
		switch strings.TrimSpace(opt) {
		case "":
		case "noenv":
			f.Override.SkipEnv = true
		case "nofile":
			f.Override.SkipFile = true
		case "optional":
			f.Optional = true
		default:
			return fmt.Errorf("%w: field %q: unknown %s tag option %q", ErrInvalidSchema, f.Name, tagOptions, opt)
		}
	}
	return nil
}

// assign stores v into dst. nil leaves dst at its zero value. Pointer
// fields are allocated as needed.
func assign(dst reflect.Value, v any) error {
	if v == nil {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}

	rv := reflect.ValueOf(v)
	if dst.Kind() == reflect.Pointer {
		if rv.Type().AssignableTo(dst.Type()) {
			dst.Set(rv)
			return nil
		}
		p := reflect.New(dst.Type().Elem())
		if err := setValue(p.Elem(), rv); err != nil {
			return err
		}
		dst.Set(p)
		return nil
	}
	return setValue(dst, rv)
}

func setValue(dst, rv reflect.Value) error {
	if rv.Type().AssignableTo(dst.Type()) {
		dst.Set(rv)
		return nil
	}

	switch {
	case isInt(rv.Kind()) && isInt(dst.Kind()):
		n := rv.Int()
		if dst.OverflowInt(n) {
			return fmt.Errorf("value %d overflows %s", n, dst.Type())
		}
		dst.SetInt(n)
		return nil
	case isUint(rv.Kind()) && isUint(dst.Kind()):
		n := rv.Uint()
		if dst.OverflowUint(n) {
			return fmt.Errorf("value %d overflows %s", n, dst.Type())
		}
		dst.SetUint(n)
		return nil
	case isFloat(rv.Kind()) && isFloat(dst.Kind()):
		n := rv.Float()
		if dst.OverflowFloat(n) {
			return fmt.Errorf("value %g overflows %s", n, dst.Type())
		}
		dst.SetFloat(n)
		return nil
	case rv.Kind() == dst.Kind() && rv.Type().ConvertibleTo(dst.Type()):
		dst.Set(rv.Convert(dst.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %s to %s", rv.Type(), dst.Type())
}

func isInt(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

func isUint(k reflect.Kind) bool {
	return k >= reflect.Uint && k <= reflect.Uintptr
}

func isFloat(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}
