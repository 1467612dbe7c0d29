package readenv

import (
	"encoding"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var (
	durationType        = reflect.TypeOf(time.Duration(0))
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
)

// ParseBool accepts "true"/"1" and "false"/"0", case-insensitively. Unlike
// strconv.ParseBool it rejects "t", "yes" and friends.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("can't parse %q as bool", s)
}

// convert turns raw into the value of field f. A field ConvertFunc always
// wins over the built-in conversion for its kind.
func convert(f FieldSpec, raw string) (any, error) {
	if f.Override.Convert != nil {
		v, err := f.Override.Convert(raw)
		if err != nil {
			return nil, fieldError(f.Name, ErrTypeConversion, err)
		}
		return v, nil
	}

	var (
		v   any
		err error
	)
	switch f.Kind {
	case KindUnspecified, KindString:
		v = raw
	case KindInt:
		v, err = strconv.ParseInt(raw, 10, 64)
	case KindUint:
		v, err = strconv.ParseUint(raw, 10, 64)
	case KindFloat:
		v, err = strconv.ParseFloat(raw, 64)
	case KindBool:
		v, err = ParseBool(raw)
	case KindBytes:
		v = []byte(raw)
	case KindDuration:
		v, err = time.ParseDuration(raw)
	case KindText:
		v, err = unmarshalText(f.Type, raw)
	default:
		return nil, fieldError(f.Name, ErrUnsupportedType,
			fmt.Errorf("no converter for kind %s; set a ConvertFunc", f.Kind))
	}
	if err != nil {
		return nil, fieldError(f.Name, ErrTypeConversion, err)
	}
	return v, nil
}

// unmarshalText decodes raw into a new value of t (or of *t's element when t
// is a pointer) through encoding.TextUnmarshaler.
func unmarshalText(t reflect.Type, raw string) (any, error) {
	if t == nil {
		return nil, fmt.Errorf("text field has no type")
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	ptr := reflect.New(t)
	u, ok := ptr.Interface().(encoding.TextUnmarshaler)
	if !ok {
		return nil, fmt.Errorf("%s does not implement encoding.TextUnmarshaler", t)
	}
	if err := u.UnmarshalText([]byte(raw)); err != nil {
		return nil, err
	}
	return ptr.Elem().Interface(), nil
}

// kindOf maps a Go type to a Kind. Pointer types are optional.
func kindOf(t reflect.Type) (kind Kind, optional bool) {
	if t.Kind() == reflect.Pointer {
		optional = true
		t = t.Elem()
	}

	switch {
	case t == durationType:
		return KindDuration, optional
	case reflect.PointerTo(t).Implements(textUnmarshalerType):
		return KindText, optional
	}

	switch t.Kind() {
	case reflect.String:
		return KindString, optional
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindInt, optional
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return KindUint, optional
	case reflect.Float32, reflect.Float64:
		return KindFloat, optional
	case reflect.Bool:
		return KindBool, optional
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindBytes, optional
		}
	}
	return KindUnsupported, optional
}
