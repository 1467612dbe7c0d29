package readenv

import "testing"

func TestNamingStrategies(t *testing.T) {
	tests := []struct {
		name     string
		naming   NamingStrategy
		field    string
		wantEnv  string
		wantFile string
	}{
		{"default", DefaultNaming{}, "debug", "DEBUG", "debug"},
		{"default mixed case", DefaultNaming{}, "Db_Password", "DB_PASSWORD", "db_password"},
		{"snake", SnakeCaseNaming{}, "DatabaseURL", "DATABASE_URL", "database_url"},
		{"snake keeps acronyms together", SnakeCaseNaming{}, "ApiKey2FA", "API_KEY2FA", "api_key2fa"},
		{"snake on snake", SnakeCaseNaming{}, "log_level", "LOG_LEVEL", "log_level"},
		{"prefix", PrefixNaming("APP", DefaultNaming{}), "debug", "APP_DEBUG", "debug"},
		{"prefix trailing underscore", PrefixNaming("APP_", SnakeCaseNaming{}), "LogLevel", "APP_LOG_LEVEL", "log_level"},
		{"prefix nil base", PrefixNaming("APP", nil), "debug", "APP_DEBUG", "debug"},
		{"empty prefix", PrefixNaming("", nil), "debug", "DEBUG", "debug"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.naming.EnvKey(tt.field); got != tt.wantEnv {
				t.Fatalf("EnvKey(%q) = %q, want %q", tt.field, got, tt.wantEnv)
			}
			if got := tt.naming.FileName(tt.field); got != tt.wantFile {
				t.Fatalf("FileName(%q) = %q, want %q", tt.field, got, tt.wantFile)
			}
		})
	}
}

func TestFieldSpec_EnvKey(t *testing.T) {
	f := FieldSpec{Name: "debug"}
	if got := f.EnvKey(nil); got != "DEBUG" {
		t.Fatalf("nil naming: got %q", got)
	}
	if got := f.EnvKey(PrefixNaming("APP", nil)); got != "APP_DEBUG" {
		t.Fatalf("prefixed: got %q", got)
	}
	f.Override.EnvName = "VERBOSE"
	if got := f.EnvKey(PrefixNaming("APP", nil)); got != "VERBOSE" {
		t.Fatalf("explicit name: got %q", got)
	}
}
