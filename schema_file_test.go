package readenv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSchema(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
	}{
		{
			name:     "yaml",
			fileName: "fields.yaml",
			content: `fields:
  - name: debug
    type: bool
    default: "false"
  - name: workers
    type: int
    default: "4"
  - name: timeout
    type: duration
    default: 5s
  - name: db_password
    file: db_password
    file_dir: /etc/app
    no_env: true
  - name: region
    optional: true
    env: AWS_REGION
`,
		},
		{
			name:     "json",
			fileName: "fields.json",
			content: `{"fields": [
  {"name": "debug", "type": "bool", "default": "false"},
  {"name": "workers", "type": "int", "default": "4"},
  {"name": "timeout", "type": "duration", "default": "5s"},
  {"name": "db_password", "file": "db_password", "file_dir": "/etc/app", "no_env": true},
  {"name": "region", "optional": true, "env": "AWS_REGION"}
]}`,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), tt.fileName)
			writeFile(t, p, tt.content)

			schema, err := LoadSchema(p)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(schema) != 5 {
				t.Fatalf("expected 5 fields, got %d", len(schema))
			}

			debug, workers, timeout, pw, region := schema[0], schema[1], schema[2], schema[3], schema[4]
			if debug.Kind != KindBool || !debug.HasDefault || debug.Default != false {
				t.Fatalf("debug: %+v", debug)
			}
			if workers.Kind != KindInt || workers.Default != int64(4) {
				t.Fatalf("workers: %+v", workers)
			}
			if timeout.Kind != KindDuration || timeout.Default != 5*time.Second {
				t.Fatalf("timeout: %+v", timeout)
			}
			if pw.Kind != KindUnspecified || pw.HasDefault || pw.Optional {
				t.Fatalf("db_password: %+v", pw)
			}
			if pw.Override.FileName != "db_password" || pw.Override.FileLocation != "/etc/app" || !pw.Override.SkipEnv {
				t.Fatalf("db_password override: %+v", pw.Override)
			}
			if !region.Optional || region.Override.EnvName != "AWS_REGION" {
				t.Fatalf("region: %+v", region)
			}
		})
	}
}

func TestLoadSchema_Errors(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		content  string
		wantErr  error
	}{
		{"unknown type", "f.yaml", "fields:\n  - name: a\n    type: decimal\n", ErrInvalidSchema},
		{"bad default", "f.yaml", "fields:\n  - name: a\n    type: int\n    default: many\n", ErrTypeConversion},
		{"duplicate names", "f.yaml", "fields:\n  - name: a\n  - name: a\n", ErrInvalidSchema},
		{"missing name", "f.json", `{"fields": [{"type": "int"}]}`, ErrInvalidSchema},
		{"malformed", "f.yaml", "fields: [", ErrParse},
		{"unsupported extension", "f.toml", "[fields]", ErrUnsupportedFileType},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), tt.fileName)
			writeFile(t, p, tt.content)
			if _, err := LoadSchema(p); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if _, err := LoadSchema(filepath.Join(t.TempDir(), "absent.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing file: expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadSchema_Resolve(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "fields.yaml")
	writeFile(t, p, "fields:\n  - name: debug\n    type: bool\n  - name: workers\n    type: int\n    default: \"2\"\n")

	schema, err := LoadSchema(p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := mustResolve(t, schema, WithSecretsDir(dir), WithEnv(EnvMap{"DEBUG": "TRUE"}))
	if valueOf(t, rec, "debug") != true || valueOf(t, rec, "workers") != int64(2) {
		t.Fatalf("unexpected record: %v", rec.Map())
	}
}
