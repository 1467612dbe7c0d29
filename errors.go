package readenv

import (
	"errors"
	"fmt"

	"github.com/ygrebnov/readenv/dotenv"
)

// Error categories returned by this package. Match them with errors.Is.
//   - ErrRequiredFieldMissing: no source produced a value for a non-optional field without a default.
//   - ErrTypeConversion: a raw value was found but could not be converted.
//   - ErrUnsupportedType: the field's type has no built-in converter and none was supplied.
//   - ErrDotenvParse: the dotenv file is malformed; nothing is resolved.
//   - ErrReadSource: a secret file exists but could not be read.
//   - ErrInvalidSchema: the field declarations are inconsistent.
//   - ErrInvalidTarget: Read was given a type that is not a struct.
var (
	ErrRequiredFieldMissing = errors.New("required field missing")
	ErrTypeConversion       = errors.New("type conversion failed")
	ErrUnsupportedType      = errors.New("unsupported type")
	ErrDotenvParse          = dotenv.ErrParse
	ErrReadSource           = errors.New("read source")
	ErrInvalidSchema        = errors.New("invalid schema")
	ErrInvalidTarget        = errors.New("invalid target")
)

// File-related error categories used by LoadSchema, WithOverridesFile and
// Record.WriteFile.
//   - ErrUnsupportedFileType: extension is neither .yaml/.yml nor .json (nor .env for writes).
//   - ErrParse: a declaration file could not be decoded.
//   - ErrFormat: a record could not be encoded.
//   - ErrWrite: a record file could not be written.
var (
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrParse                   = errors.New("parse declaration file")
	ErrFormat                  = errors.New("format record")
	ErrWrite                   = errors.New("write record file")
	ErrInaccessiblePath        = errors.New("inaccessible path")
	ErrCannotCreateDirectories = errors.New("cannot create directories")
)

// FieldError ties a failure to the field being resolved. Err is one of the
// category errors above; Cause, when set, is the underlying failure.
type FieldError struct {
	Field string
	Err   error
	Cause error
}

func (e *FieldError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("field %q: %v: %v", e.Field, e.Err, e.Cause)
}

func (e *FieldError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

func fieldError(field string, kind, cause error) error {
	return &FieldError{Field: field, Err: kind, Cause: cause}
}
