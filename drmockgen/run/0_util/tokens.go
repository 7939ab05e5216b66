package cxxutil

import (
	"strings"
)

// Tokenize splits C++ source text into preprocessing tokens. Whitespace and comments are dropped,
// punctuators are matched longest first, string and character literals are kept whole.
func Tokenize(src string) []string {
	var tokens []string

	for i := 0; i < len(src); {
		c := src[i]

		switch {
		case isSpace(c):
			i++
		case strings.HasPrefix(src[i:], "//"):
			i = skipLine(src, i)
		case strings.HasPrefix(src[i:], "/*"):
			i = skipBlockComment(src, i)
		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}

			tokens = append(tokens, src[i:j])
			i = j
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])):
			j := scanNumber(src, i)
			tokens = append(tokens, src[i:j])
			i = j
		case c == '"' || c == '\'':
			j := scanQuoted(src, i, c)
			tokens = append(tokens, src[i:j])
			i = j
		default:
			p := matchPunctuator(src[i:])
			tokens = append(tokens, p)
			i += len(p)
		}
	}

	return tokens
}

// JoinTokens joins tokens with single spaces.
func JoinTokens(tokens []string) string {
	return strings.Join(tokens, " ")
}

// unexported variables.
var (
	//nolint:gochecknoglobals // ordered longest first
	punctuators = []string{
		"<<=", ">>=", "<=>", "->*", "...",
		"::", "->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
		"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", ".*", "##",
	}
)

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func matchPunctuator(rest string) string {
	for _, p := range punctuators {
		if strings.HasPrefix(rest, p) {
			return p
		}
	}

	return rest[:1]
}

// scanNumber consumes a pp-number, including digit separators and signed exponents.
func scanNumber(src string, i int) int {
	j := i + 1

	for j < len(src) {
		c := src[j]

		switch {
		case isIdentPart(c) || c == '.' || c == '\'':
			j++
		case (c == '+' || c == '-') && strings.ContainsRune("eEpP", rune(src[j-1])):
			j++
		default:
			return j
		}
	}

	return j
}

// scanQuoted consumes a string or character literal opened by quote. An unterminated literal runs
// to the end of the line.
func scanQuoted(src string, i int, quote byte) int {
	j := i + 1

	for j < len(src) {
		switch src[j] {
		case '\\':
			j += 2
		case quote:
			return j + 1
		case '\n':
			return j
		default:
			j++
		}
	}

	return len(src)
}

func skipBlockComment(src string, i int) int {
	end := strings.Index(src[i+2:], "*/")
	if end < 0 {
		return len(src)
	}

	return i + 2 + end + 2
}

func skipLine(src string, i int) int {
	end := strings.IndexByte(src[i:], '\n')
	if end < 0 {
		return len(src)
	}

	return i + end + 1
}
