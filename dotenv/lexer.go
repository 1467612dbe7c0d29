package dotenv

import (
	"fmt"
	"strings"
)

// token is one word produced by the lexer. Only an unquoted '=' is an
// assignment operator; a quoted "=" is plain text.
type token struct {
	text   string
	assign bool
}

// tokenize splits text into words using POSIX shell quoting rules:
//   - unquoted blanks and newlines separate words;
//   - single quotes preserve their content verbatim, newlines included;
//   - inside double quotes a backslash escapes only '"' and '\';
//   - outside quotes a backslash escapes the following character;
//   - '#' outside quotes starts a comment that runs to the end of the line;
//   - an unquoted '=' is always a word of its own.
//
// Quoted and unquoted runs with no blank between them join into one word, so
// `"a b"c` yields `a bc`. An empty quoted string yields an empty word.
func tokenize(text string) ([]token, error) {
	var (
		tokens []token
		word   strings.Builder
		inWord bool
		line   = 1
	)

	flush := func() {
		if !inWord {
			return
		}
		tokens = append(tokens, token{text: word.String()})
		word.Reset()
		inWord = false
	}

	rs := []rune(text)
	for i := 0; i < len(rs); i++ {
		c := rs[i]
		switch c {
		case '\n':
			line++
			flush()

		case ' ', '\t', '\r':
			flush()

		case '#':
			flush()
			for i+1 < len(rs) && rs[i+1] != '\n' {
				i++
			}

		case '=':
			flush()
			tokens = append(tokens, token{text: "=", assign: true})

		case '\\':
			if i+1 >= len(rs) {
				return nil, fmt.Errorf("%w: line %d: no character after escape", ErrParse, line)
			}
			i++
			if rs[i] == '\n' {
				line++
			}
			word.WriteRune(rs[i])
			inWord = true

		case '\'', '"':
			start := line
			inWord = true
			closed := false
			for i++; i < len(rs); i++ {
				r := rs[i]
				if r == c {
					closed = true
					break
				}
				if r == '\n' {
					line++
				}
				if c == '"' && r == '\\' && i+1 < len(rs) && (rs[i+1] == '"' || rs[i+1] == '\\') {
					i++
					r = rs[i]
				}
				word.WriteRune(r)
			}
			if !closed {
				return nil, fmt.Errorf("%w: line %d: no closing quotation %q", ErrParse, start, c)
			}

		default:
			word.WriteRune(c)
			inWord = true
		}
	}
	flush()

	return tokens, nil
}
