package readenv

import "strings"

// NamingStrategy derives lookup keys from field names for fields that do not
// override them. EnvKey is used for both the environment and the dotenv map.
type NamingStrategy interface {
	EnvKey(field string) string
	FileName(field string) string
}

// DefaultNaming upper-cases field names for environment and dotenv keys and
// lower-cases them for secret file names: debug -> DEBUG, /run/secrets/debug.
type DefaultNaming struct{}

func (DefaultNaming) EnvKey(field string) string   { return strings.ToUpper(field) }
func (DefaultNaming) FileName(field string) string { return strings.ToLower(field) }

// SnakeCaseNaming splits Go-style names on lower-to-upper transitions:
// DatabaseURL -> DATABASE_URL, /run/secrets/database_url.
type SnakeCaseNaming struct{}

func (SnakeCaseNaming) EnvKey(field string) string { return toScreamingSnake(field) }
func (SnakeCaseNaming) FileName(field string) string {
	return strings.ToLower(toScreamingSnake(field))
}

type prefixNaming struct {
	prefix string
	base   NamingStrategy
}

func (p prefixNaming) EnvKey(field string) string   { return p.prefix + "_" + p.base.EnvKey(field) }
func (p prefixNaming) FileName(field string) string { return p.base.FileName(field) }

// PrefixNaming prepends prefix and an underscore to the environment keys of
// base (DefaultNaming if nil). File names are left unchanged.
func PrefixNaming(prefix string, base NamingStrategy) NamingStrategy {
	if base == nil {
		base = DefaultNaming{}
	}
	if prefix == "" {
		return base
	}
	return prefixNaming{prefix: strings.TrimSuffix(prefix, "_"), base: base}
}

func toScreamingSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if i > 0 && isBoundary(rune(s[i-1]), r) {
			b.WriteByte('_')
		}
		b.WriteRune(toUpper(r))
	}
	return b.String()
}

// isBoundary splits only on lower->upper transitions, so ApiKey2FA becomes
// API_KEY2FA.
func isBoundary(prev, curr rune) bool {
	return (prev >= 'a' && prev <= 'z') && (curr >= 'A' && curr <= 'Z')
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - 'a' + 'A'
	}
	return r
}
