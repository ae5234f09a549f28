package parser

import (
	"bytes"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// normalizeNewlines turns "\r\n" and lone "\r" line endings into "\n"
func normalizeNewlines(src []byte) []byte {
	if bytes.IndexByte(src, '\r') < 0 {
		return src
	}
	src = bytes.ReplaceAll(src, []byte("\r\n"), []byte("\n"))
	return bytes.ReplaceAll(src, []byte("\r"), []byte("\n"))
}

// Sanitize rewrites keyword-value tuples, which generated stubs emit as
// default values such as "= (r=0.0, g=0.0)", into dict(...) calls so that the
// source becomes valid Python. A parenthesis is rewritten only when it is not
// a call or a parameter list (the previous significant character is not an
// identifier character or a closing bracket) and its first item has the form
// "name =". String literals and comments are left untouched. Newlines are
// never added or removed.
func Sanitize(src []byte) []byte {
	src = bytes.TrimPrefix(src, utf8BOM)

	var out bytes.Buffer
	out.Grow(len(src) + len(src)/64)

	var prev byte // last significant byte outside strings and comments
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '#':
			end := bytes.IndexByte(src[i:], '\n')
			if end < 0 {
				end = len(src) - i
			}
			out.Write(src[i : i+end])
			i += end
			continue

		case c == '"' || c == '\'':
			end := skipString(src, i)
			out.Write(src[i:end])
			prev = c
			i = end
			continue

		case c == '(' && !continuesExpression(prev) && startsKeywordValue(src[i+1:]):
			out.WriteString("dict(")
			prev = c
			i++
			continue
		}

		out.WriteByte(c)
		if !isSpace(c) {
			prev = c
		}
		i++
	}

	return out.Bytes()
}

// continuesExpression reports whether a "(" after b would be a call,
// a parameter list, or a subscript call.
func continuesExpression(b byte) bool {
	return isIdentByte(b) || b == ')' || b == ']'
}

// startsKeywordValue matches `\s*[A-Za-z_]\w*\s*=` at the start of rest
func startsKeywordValue(rest []byte) bool {
	i := 0
	for i < len(rest) && isSpace(rest[i]) {
		i++
	}
	if i >= len(rest) || !isIdentStart(rest[i]) {
		return false
	}
	for i < len(rest) && isIdentByte(rest[i]) {
		i++
	}
	for i < len(rest) && isSpace(rest[i]) {
		i++
	}
	return i < len(rest) && rest[i] == '='
}

// skipString returns the offset just past the string literal starting at i.
// Unterminated literals run to the end of the line (or of the input for
// triple quotes); the parser reports them.
func skipString(src []byte, i int) int {
	q := src[i]
	if i+2 < len(src) && src[i+1] == q && src[i+2] == q {
		delim := []byte{q, q, q}
		for j := i + 3; j < len(src); j++ {
			if src[j] == '\\' {
				j++
				continue
			}
			if bytes.HasPrefix(src[j:], delim) {
				return j + 3
			}
		}
		return len(src)
	}

	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j + 1
		case '\n':
			return j
		}
	}
	return len(src)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}
