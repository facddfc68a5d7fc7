// Package bash splits the command line bash hands to a completion command
// into words, the way bash itself would before expansion.
package bash

import (
	"fmt"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

// TokenizeError reports a completion line that cannot be split into words,
// typically because of an unterminated quote.
type TokenizeError struct {
	Line string
	Err  error
}

func (e *TokenizeError) Error() string {
	return fmt.Sprintf("failed to split completion line %q: %v", e.Line, e.Err)
}

func (e *TokenizeError) Unwrap() error {
	return e.Err
}

// SplitCompletionLine splits line into words, removing quotes and escapes
// without expanding anything. Control and redirection operators such as ">",
// "|" or "2>&1" are kept as ordinary words. When line ends with unescaped
// whitespace, an empty word is appended to stand for the word about to be
// typed; an empty or blank line yields a single empty word.
func SplitCompletionLine(line string) ([]string, error) {
	src := escapeOperators(line)
	words := make([]string, 0, 8)
	end := 0

	err := syntax.NewParser().Words(strings.NewReader(src), func(w *syntax.Word) bool {
		words = append(words, unquote(src, w))
		end = int(w.End().Offset())
		return true
	})
	if err != nil {
		return nil, &TokenizeError{Line: line, Err: err}
	}

	if len(words) == 0 {
		return []string{""}, nil
	}

	if end < len(src) && strings.TrimSpace(src[end:]) == "" {
		words = append(words, "")
	}
	return words, nil
}

// operatorChars start the control and redirection operators the parser
// refuses in a word list.
const operatorChars = "|&;<>()"

// escapeOperators backslash-escapes the operator characters that are outside
// quotes and substitutions, turning them into literal word characters.
// Whitespace is left untouched so word boundaries do not move.
func escapeOperators(line string) string {
	if !strings.ContainsAny(line, operatorChars) {
		return line
	}

	var b strings.Builder
	var quote byte
	depth := 0
	backtick := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '\\' && quote != '\'':
			b.WriteByte(c)
			if i+1 < len(line) {
				i++
				b.WriteByte(line[i])
			}
			continue
		case quote == '\'':
			if c == '\'' {
				quote = 0
			}
		case c == '\'' && quote == 0:
			quote = c
		case c == '"':
			if quote == '"' {
				quote = 0
			} else {
				quote = c
			}
		case c == '`':
			backtick = !backtick
		case c == '$' && i+1 < len(line) && (line[i+1] == '(' || line[i+1] == '{'):
			depth++
			b.WriteByte(c)
			i++
			b.WriteByte(line[i])
			continue
		case depth > 0 && (c == '(' || c == '{'):
			depth++
		case depth > 0 && (c == ')' || c == '}'):
			depth--
		case quote == 0 && depth == 0 && !backtick && strings.IndexByte(operatorChars, c) >= 0:
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// TruncateAtPoint returns the part of line before the cursor at byte offset
// point, or line itself when point is not a valid offset.
func TruncateAtPoint(line string, point int) string {
	if point < 0 || point > len(line) {
		return line
	}
	return line[:point]
}

// unquote returns the value of w as seen by the invoked program, with
// expansions left as typed.
func unquote(src string, w *syntax.Word) string {
	var b strings.Builder
	for _, part := range w.Parts {
		switch part := part.(type) {
		case *syntax.Lit:
			b.WriteString(unescape(part.Value, func(byte) bool { return true }))
		case *syntax.SglQuoted:
			if part.Dollar {
				b.WriteString(source(src, part))
				continue
			}
			b.WriteString(part.Value)
		case *syntax.DblQuoted:
			if part.Dollar {
				b.WriteString(source(src, part))
				continue
			}
			for _, inner := range part.Parts {
				if lit, ok := inner.(*syntax.Lit); ok {
					b.WriteString(unescape(lit.Value, escapableInDoubleQuotes))
					continue
				}
				b.WriteString(source(src, inner))
			}
		default:
			b.WriteString(source(src, part))
		}
	}
	return b.String()
}

// unescape drops the backslash before characters accepted by escapable and
// removes escaped newlines.
func unescape(s string, escapable func(byte) bool) string {
	if !strings.Contains(s, `\`) {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		next := s[i+1]
		switch {
		case next == '\n':
			i++
		case escapable(next):
			b.WriteByte(next)
			i++
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func escapableInDoubleQuotes(c byte) bool {
	return c == '$' || c == '`' || c == '"' || c == '\\'
}

func source(src string, node syntax.Node) string {
	start, end := int(node.Pos().Offset()), int(node.End().Offset())
	if start < 0 || end > len(src) || start > end {
		return ""
	}
	return src[start:end]
}
