package readenv

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// EnvLookup reads environment variables. Keys are matched exactly.
type EnvLookup interface {
	LookupEnv(key string) (string, bool)
}

// FileReader reads whole files. A missing file must be reported with an
// error matching fs.ErrNotExist.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// OSEnv looks variables up in the process environment.
type OSEnv struct{}

func (OSEnv) LookupEnv(key string) (string, bool) { return os.LookupEnv(key) }

// EnvMap is a fixed environment, handy in tests and for embedding callers.
type EnvMap map[string]string

func (m EnvMap) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// OSFiles reads from the local filesystem.
type OSFiles struct{}

func (OSFiles) ReadFile(path string) ([]byte, error) { return os.ReadFile(path) }

// FSFiles reads from an fs.FS. Absolute paths are looked up with the leading
// slash removed, so "/run/secrets/debug" maps to "run/secrets/debug".
type FSFiles struct {
	FS fs.FS
}

func (f FSFiles) ReadFile(path string) ([]byte, error) {
	name := strings.TrimPrefix(filepath.ToSlash(path), "/")
	if name == "" {
		name = "."
	}
	return fs.ReadFile(f.FS, name)
}

// isNotExist reports whether err means "no file at that path". A path
// component that is a regular file counts as missing too.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR)
}
