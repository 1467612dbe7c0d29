package readenv

import (
	"fmt"
	"os"
)

// schemaFile is the on-disk form of a Schema:
//
//	fields:
//	  - name: debug
//	    type: bool
//	    default: "false"
//	  - name: db_password
//	    file: db_password
//	    no_env: true
//	  - name: region
//	    optional: true
type schemaFile struct {
	Fields []schemaEntry `json:"fields" yaml:"fields"`
}

type schemaEntry struct {
	Name     string  `json:"name" yaml:"name"`
	Type     string  `json:"type,omitempty" yaml:"type,omitempty"`
	Optional bool    `json:"optional,omitempty" yaml:"optional,omitempty"`
	Default  *string `json:"default,omitempty" yaml:"default,omitempty"`

	overrideEntry `yaml:",inline"`
}

// LoadSchema reads field declarations from a .yaml, .yml or .json file.
// Defaults are written as strings and converted according to the field type
// when the file is loaded.
func LoadSchema(path string) (Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}

	var file schemaFile
	if err := decodeFile(path, data, &file); err != nil {
		return nil, err
	}

	schema := make(Schema, 0, len(file.Fields))
	for _, e := range file.Fields {
		kind, err := ParseKind(e.Type)
		if err != nil {
			return nil, fmt.Errorf("schema %s: field %q: %w", path, e.Name, err)
		}
		f := FieldSpec{
			Name:     e.Name,
			Kind:     kind,
			Optional: e.Optional,
			Override: e.override(),
		}
		if e.Default != nil {
			v, err := convert(f, *e.Default)
			if err != nil {
				return nil, fmt.Errorf("schema %s: default: %w", path, err)
			}
			f.Default, f.HasDefault = v, true
		}
		schema = append(schema, f)
	}

	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("schema %s: %w", path, err)
	}
	return schema, nil
}
