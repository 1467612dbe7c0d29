package readenv

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// overrideEntry is the file form of FieldOverride. ConvertFunc has no file
// form.
type overrideEntry struct {
	Env      string `json:"env,omitempty" yaml:"env,omitempty"`
	Dotenv   string `json:"dotenv,omitempty" yaml:"dotenv,omitempty"`
	File     string `json:"file,omitempty" yaml:"file,omitempty"`
	FileDir  string `json:"file_dir,omitempty" yaml:"file_dir,omitempty"`
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
	NoEnv    bool   `json:"no_env,omitempty" yaml:"no_env,omitempty"`
	NoFile   bool   `json:"no_file,omitempty" yaml:"no_file,omitempty"`
}

func (e overrideEntry) override() FieldOverride {
	return FieldOverride{
		FilePath:     e.FilePath,
		FileLocation: e.FileDir,
		FileName:     e.File,
		EnvName:      e.Env,
		DotenvName:   e.Dotenv,
		SkipEnv:      e.NoEnv,
		SkipFile:     e.NoFile,
	}
}

// decodeFile decodes a YAML or JSON document according to the extension of
// path.
func decodeFile(path string, data []byte, v any) error {
	ext := filepath.Ext(path)
	var err error
	switch ext {
	case ".json":
		err = json.Unmarshal(data, v)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFileType, ext)
	}
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrParse, path, err)
	}
	return nil
}

// applyOverridesFile merges the overrides file into schema in place.
// Non-empty file values replace declared ones; a flag set in code cannot be
// cleared from the file.
func (s *settings) applyOverridesFile(schema Schema) error {
	data, err := s.files.ReadFile(s.overridesPath)
	switch {
	case err != nil && isNotExist(err):
		s.warnf("overrides file %s not found; using declared overrides", s.overridesPath)
		return nil
	case err != nil:
		return fmt.Errorf("read overrides file %s: %w", s.overridesPath, err)
	}

	var entries map[string]overrideEntry
	if err := decodeFile(s.overridesPath, data, &entries); err != nil {
		return err
	}

	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		i := schema.index(name)
		if i < 0 {
			return fmt.Errorf("%w: overrides file %s names unknown field %q", ErrInvalidSchema, s.overridesPath, name)
		}
		merged := schema[i].Override
		if err := mergo.Merge(&merged, entries[name].override(), mergo.WithOverride); err != nil {
			return fmt.Errorf("merge overrides for field %q: %w", name, err)
		}
		schema[i].Override = merged
	}
	return nil
}
