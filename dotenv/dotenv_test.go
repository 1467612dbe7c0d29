package dotenv

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
		keys  []string
	}{
		{
			name:  "empty document",
			input: "",
			want:  map[string]string{},
		},
		{
			name:  "plain pairs",
			input: "PORT=8080\nMODE=release\n",
			want:  map[string]string{"PORT": "8080", "MODE": "release"},
			keys:  []string{"PORT", "MODE"},
		},
		{
			name:  "blank lines and comments",
			input: "\n# leading comment\n\nA=1 # trailing\n   \n#B=2\nC=3",
			want:  map[string]string{"A": "1", "C": "3"},
			keys:  []string{"A", "C"},
		},
		{
			name:  "double quoted value with comment after it",
			input: `DEBUG="True" #a comment`,
			want:  map[string]string{"DEBUG": "True"},
		},
		{
			name:  "multi-line double quoted value",
			input: "DEBUG=\"True\" #a comment\nWORKERS=5\nmultiline=\"first\nsecond\n3\"",
			want: map[string]string{
				"DEBUG":     "True",
				"WORKERS":   "5",
				"multiline": "first\nsecond\n3",
			},
			keys: []string{"DEBUG", "WORKERS", "multiline"},
		},
		{
			name:  "single quotes keep backslashes and hashes",
			input: `PATTERN='a\nb # not a comment'`,
			want:  map[string]string{"PATTERN": `a\nb # not a comment`},
		},
		{
			name:  "escaped quote inside double quotes",
			input: `MSG="say \"hi\" \\o/ \n"`,
			want:  map[string]string{"MSG": `say "hi" \o/ \n`},
		},
		{
			name:  "spaces around equal sign",
			input: "NAME = value",
			want:  map[string]string{"NAME": "value"},
		},
		{
			name:  "url keeps punctuation",
			input: "DATABASE_URL=postgres://user:pw@db.local:5432/app",
			want:  map[string]string{"DATABASE_URL": "postgres://user:pw@db.local:5432/app"},
		},
		{
			name:  "quoted equal sign is a value",
			input: `QUERY="a=b"`,
			want:  map[string]string{"QUERY": "a=b"},
		},
		{
			name:  "empty quoted value",
			input: "EMPTY=\"\"\nNEXT=1",
			want:  map[string]string{"EMPTY": "", "NEXT": "1"},
		},
		{
			name:  "last occurrence wins, first position kept",
			input: "A=1\nB=2\nA=3",
			want:  map[string]string{"A": "3", "B": "2"},
			keys:  []string{"A", "B"},
		},
		{
			name:  "bare equal signs are ignored",
			input: "=\n=value\nKEY=",
			want:  map[string]string{},
		},
		{
			name:  "empty quoted key is ignored",
			input: `""=value`,
			want:  map[string]string{},
		},
		{
			name:  "adjacent quoted and unquoted parts join",
			input: `GREETING=hello" big "world`,
			want:  map[string]string{"GREETING": "hello big world"},
		},
		{
			name:  "unquoted escape",
			input: `SPACED=a\ b`,
			want:  map[string]string{"SPACED": "a b"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := m.ToMap(); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("pairs: got %#v, want %#v", got, tt.want)
			}
			if tt.keys != nil && !reflect.DeepEqual(m.Keys(), tt.keys) {
				t.Fatalf("keys: got %v, want %v", m.Keys(), tt.keys)
			}
			if m.Len() != len(tt.want) {
				t.Fatalf("Len: got %d, want %d", m.Len(), len(tt.want))
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		errContains string
	}{
		{name: "unterminated double quote", input: "A=1\nB=\"open\nC=3", errContains: "line 2"},
		{name: "unterminated single quote", input: "A='open", errContains: "line 1"},
		{name: "trailing escape", input: `A=b\`, errContains: "escape"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("expected error, got map %v", m.ToMap())
			}
			if !errors.Is(err, ErrParse) {
				t.Fatalf("expected ErrParse, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.errContains) {
				t.Fatalf("error %q does not contain %q", err, tt.errContains)
			}
		})
	}
}

func TestReadFile(t *testing.T) {
	td := t.TempDir()

	good := filepath.Join(td, ".env")
	if err := os.WriteFile(good, []byte("KEY=\"line1\nline2\"\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	bad := filepath.Join(td, "bad.env")
	if err := os.WriteFile(bad, []byte("KEY='open"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	m, err := ReadFile(good)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v, ok := m.Lookup("KEY"); !ok || v != "line1\nline2" {
		t.Fatalf("KEY: got %q (%v), want %q", v, ok, "line1\nline2")
	}

	if _, err := ReadFile(bad); !errors.Is(err, ErrParse) || !strings.Contains(err.Error(), bad) {
		t.Fatalf("expected ErrParse mentioning path, got %v", err)
	}

	if _, err := ReadFile(filepath.Join(td, "missing.env")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestMap_NilIsEmpty(t *testing.T) {
	var m *Map
	if _, ok := m.Lookup("A"); ok {
		t.Fatalf("nil map must not contain keys")
	}
	if m.Len() != 0 || m.Keys() != nil || len(m.ToMap()) != 0 {
		t.Fatalf("nil map must be empty")
	}
}

func TestMap_KeysIsCopy(t *testing.T) {
	m, err := Parse("A=1\nB=2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	keys := m.Keys()
	keys[0] = "Z"
	if m.Keys()[0] != "A" {
		t.Fatalf("Keys must return a copy")
	}
}

func TestMarshal(t *testing.T) {
	out, err := Marshal(map[string]string{
		"WORKERS": "5",
		"NAME":    "my app",
		"QUOTE":   `say "hi"`,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := strings.Join([]string{
		`NAME="my app"`,
		`QUOTE="say \"hi\""`,
		`WORKERS=5`,
	}, "\n")
	if out != want {
		t.Fatalf("got %q, want %q", out, want)
	}

	// Documents without newline escapes parse back to the same values.
	m, err := Parse(out)
	if err != nil {
		t.Fatalf("parse back: %v", err)
	}
	if v, _ := m.Lookup("QUOTE"); v != `say "hi"` {
		t.Fatalf("QUOTE: got %q", v)
	}
	if v, _ := m.Lookup("NAME"); v != "my app" {
		t.Fatalf("NAME: got %q", v)
	}
}
