package readenv

import (
	"fmt"
	"io"
	"strings"

	modellib "github.com/ygrebnov/model"

	"github.com/ygrebnov/readenv/dotenv"
	"github.com/ygrebnov/readenv/streams"
)

// DefaultSecretsDir is where secret files are looked up unless
// WithSecretsDir says otherwise. It matches the mount point used by Docker
// and Kubernetes secrets.
const DefaultSecretsDir = "/run/secrets"

// Option configures a single Resolve or Read call. Options are composable
// and can be passed in any order.
type Option func(*settings)

// ModelInit binds a model.Model[T] to the struct populated by Read so that
// its validation rules can run on the result.
type ModelInit[T any] func(*T) (*modellib.Model[T], error)

type settings struct {
	secretsDir    string
	dotenvPath    string
	overridesPath string
	naming        NamingStrategy
	envPrefix     string
	env           EnvLookup
	files         FileReader
	streams       streams.Streams
	converters    map[string]ConvertFunc
	defaultFuncs  map[string]func() any
	validate      func(target any) error
}

func newSettings(opts []Option) *settings {
	s := &settings{
		secretsDir: DefaultSecretsDir,
		naming:     DefaultNaming{},
		env:        OSEnv{},
		files:      OSFiles{},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.naming = PrefixNaming(s.envPrefix, s.naming)
	return s
}

// WithSecretsDir sets the directory secret files are read from for fields
// without an explicit file location. Panics if dir is empty.
func WithSecretsDir(dir string) Option {
	if dir == "" {
		panic("readenv: WithSecretsDir: dir cannot be empty")
	}
	return func(s *settings) { s.secretsDir = dir }
}

// WithDotenvFile parses the dotenv file at path once per call and consults
// it after secret files and before the environment. A missing file is not
// an error; a malformed one aborts the call. Panics if path is empty.
func WithDotenvFile(path string) Option {
	if path == "" {
		panic("readenv: WithDotenvFile: path cannot be empty")
	}
	return func(s *settings) { s.dotenvPath = path }
}

// WithOverridesFile merges per-field overrides from a YAML or JSON file onto
// the declared ones. Values set in the file win. A missing file is not an
// error. Panics if path is empty.
//
//	debug:
//	  env: APP_DEBUG
//	  file_dir: /etc/app/secrets
//	  no_env: true
func WithOverridesFile(path string) Option {
	if path == "" {
		panic("readenv: WithOverridesFile: path cannot be empty")
	}
	return func(s *settings) { s.overridesPath = path }
}

// WithNaming replaces DefaultNaming. Panics if n is nil.
func WithNaming(n NamingStrategy) Option {
	if n == nil {
		panic("readenv: WithNaming: strategy cannot be nil")
	}
	return func(s *settings) { s.naming = n }
}

// WithEnvPrefix prefixes derived environment and dotenv keys, e.g. "APP"
// turns DEBUG into APP_DEBUG. Explicit EnvName/DotenvName overrides are used
// verbatim. Panics if prefix is empty.
func WithEnvPrefix(prefix string) Option {
	if prefix == "" {
		panic("readenv: WithEnvPrefix: prefix cannot be empty")
	}
	return func(s *settings) { s.envPrefix = prefix }
}

// WithEnv replaces the process environment. Panics if env is nil.
func WithEnv(env EnvLookup) Option {
	if env == nil {
		panic("readenv: WithEnv: env cannot be nil")
	}
	return func(s *settings) { s.env = env }
}

// WithFiles replaces the filesystem used for secret, dotenv and overrides
// files. Panics if files is nil.
func WithFiles(files FileReader) Option {
	if files == nil {
		panic("readenv: WithFiles: files cannot be nil")
	}
	return func(s *settings) { s.files = files }
}

// WithStreams reports which source each field came from on Out and
// non-fatal problems on ErrOut. Values are never written.
func WithStreams(st streams.Streams) Option {
	return func(s *settings) { s.streams = st }
}

// WithConverter sets the ConvertFunc of the named field, replacing any
// declared one. Panics if field is empty or fn is nil.
func WithConverter(field string, fn ConvertFunc) Option {
	if field == "" || fn == nil {
		panic("readenv: WithConverter: field and fn are required")
	}
	return func(s *settings) {
		if s.converters == nil {
			s.converters = make(map[string]ConvertFunc)
		}
		s.converters[field] = fn
	}
}

// WithDefaultFunc sets the DefaultFunc of the named field. Panics if field
// is empty or fn is nil.
func WithDefaultFunc(field string, fn func() any) Option {
	if field == "" || fn == nil {
		panic("readenv: WithDefaultFunc: field and fn are required")
	}
	return func(s *settings) {
		if s.defaultFuncs == nil {
			s.defaultFuncs = make(map[string]func() any)
		}
		s.defaultFuncs[field] = fn
	}
}

// WithModel validates the struct populated by Read with a model.Model[T]
// built by init. Validation errors are returned as is. Resolve ignores this
// option. Panics if init is nil.
func WithModel[T any](init ModelInit[T]) Option {
	if init == nil {
		panic("readenv: WithModel: init cannot be nil")
	}
	return func(s *settings) {
		s.validate = func(target any) error {
			cfg, ok := target.(*T)
			if !ok {
				return fmt.Errorf("%w: model for %T used with %T", ErrInvalidTarget, (*T)(nil), target)
			}
			m, err := init(cfg)
			if err != nil {
				return err
			}
			if m == nil {
				return nil
			}
			return m.Validate()
		}
	}
}

// Resolve reads every field of schema and returns the resulting record.
//
// For each field, in declaration order, the first enabled source holding a
// value wins:
//  1. the secret file (contents trimmed of surrounding whitespace);
//  2. the dotenv file given with WithDotenvFile;
//  3. the environment.
//
// The raw value is converted by the field's ConvertFunc or by its Kind.
// Without a value the static default or the default function is used; a
// non-optional field still without a value fails with
// ErrRequiredFieldMissing. The first failing field aborts the call.
//
// Every call reads its sources afresh; nothing is cached between calls, and
// concurrent calls share no state.
func Resolve(schema Schema, opts ...Option) (Record, error) {
	return newSettings(opts).resolve(schema)
}

func (s *settings) resolve(schema Schema) (Record, error) {
	schema, err := s.prepare(schema)
	if err != nil {
		return Record{}, err
	}

	env, err := s.loadDotenv()
	if err != nil {
		return Record{}, err
	}

	values := make(map[string]any, len(schema))
	for _, f := range schema {
		v, err := s.resolveField(f, env)
		if err != nil {
			return Record{}, err
		}
		values[f.Name] = v
	}

	return newRecord(schema.Names(), values), nil
}

// prepare applies option-level converters, default functions and the
// overrides file to a copy of schema and validates the result.
func (s *settings) prepare(schema Schema) (Schema, error) {
	out := make(Schema, len(schema))
	copy(out, schema)

	for name, fn := range s.converters {
		i := out.index(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: converter for unknown field %q", ErrInvalidSchema, name)
		}
		out[i].Override.Convert = fn
	}
	for name, fn := range s.defaultFuncs {
		i := out.index(name)
		if i < 0 {
			return nil, fmt.Errorf("%w: default function for unknown field %q", ErrInvalidSchema, name)
		}
		out[i].DefaultFunc = fn
	}

	if s.overridesPath != "" {
		if err := s.applyOverridesFile(out); err != nil {
			return nil, err
		}
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *settings) loadDotenv() (*dotenv.Map, error) {
	if s.dotenvPath == "" {
		return nil, nil
	}

	data, err := s.files.ReadFile(s.dotenvPath)
	switch {
	case err != nil && isNotExist(err):
		s.warnf("dotenv file %s not found; continuing without it", s.dotenvPath)
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("read dotenv file %s: %w", s.dotenvPath, err)
	}

	m, err := dotenv.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("dotenv file %s: %w", s.dotenvPath, err)
	}
	return m, nil
}

func (s *settings) resolveField(f FieldSpec, env *dotenv.Map) (any, error) {
	raw, source, found, err := s.lookup(f, env)
	if err != nil {
		return nil, err
	}

	var value any
	if found {
		if value, err = convert(f, raw); err != nil {
			return nil, err
		}
		if value != nil {
			s.notef("%s <- %s", f.Name, source)
		}
	}

	if value == nil {
		switch {
		case f.HasDefault:
			value = f.Default
			s.notef("%s <- default", f.Name)
		case f.DefaultFunc != nil:
			value = f.DefaultFunc()
			s.notef("%s <- default function", f.Name)
		}
	}

	if value == nil && !f.Optional {
		return nil, fieldError(f.Name, ErrRequiredFieldMissing, nil)
	}
	return value, nil
}

// lookup finds the raw value of f: secret file, then dotenv map, then
// environment. source describes where it was found.
func (s *settings) lookup(f FieldSpec, env *dotenv.Map) (raw, source string, found bool, err error) {
	o := f.Override

	if !o.SkipFile {
		path := o.path(s.secretsDir, s.naming.FileName(f.Name))
		data, err := s.files.ReadFile(path)
		switch {
		case err == nil:
			return strings.TrimSpace(string(data)), "file " + path, true, nil
		case !isNotExist(err):
			return "", "", false, fieldError(f.Name, ErrReadSource, err)
		}
	}

	if env != nil {
		key := o.dotenvKey(s.naming.EnvKey(f.Name))
		if v, ok := env.Lookup(key); ok {
			return v, "dotenv " + key, true, nil
		}
	}

	if !o.SkipEnv {
		key := o.envKey(s.naming.EnvKey(f.Name))
		if v, ok := s.env.LookupEnv(key); ok {
			return v, "env " + key, true, nil
		}
	}

	return "", "", false, nil
}

func (s *settings) notef(format string, args ...any) {
	if s.streams == nil {
		return
	}
	writef(s.streams.Out(), format, args...)
}

func (s *settings) warnf(format string, args ...any) {
	if s.streams == nil {
		return
	}
	writef(s.streams.ErrOut(), "warning: "+format, args...)
}

func writef(w io.Writer, format string, args ...any) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, "readenv: "+format+"\n", args...)
}
