package codegen

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// escapeCommon writes the escapes every target shares and hands any other
// control character, and any byte that is not valid UTF-8, to other.
func escapeCommon(s string, other func(b *strings.Builder, r rune, invalid byte)) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size == 1:
			other(&b, r, s[i])
		case r == '\\':
			b.WriteString(`\\`)
		case r == '"':
			b.WriteString(`\"`)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f || r == '\uFEFF':
			other(&b, r, 0)
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

// goQuote renders s as an interpreted Go string literal that evaluates to
// exactly the bytes of s.
func goQuote(s string) string {
	return `"` + escapeCommon(s, func(b *strings.Builder, r rune, invalid byte) {
		switch {
		case r == utf8.RuneError:
			fmt.Fprintf(b, `\x%02x`, invalid)
		case r > 0xff:
			fmt.Fprintf(b, `\u%04x`, r)
		default:
			fmt.Fprintf(b, `\x%02x`, r)
		}
	}) + `"`
}

// javaQuote renders s as a Java string literal. Java strings hold UTF-16,
// so bytes that are not valid UTF-8 become U+FFFD.
func javaQuote(s string) string {
	return `"` + escapeCommon(s, func(b *strings.Builder, r rune, invalid byte) {
		switch {
		case r == utf8.RuneError:
			b.WriteString(`\ufffd`)
		case r > 0xff:
			fmt.Fprintf(b, `\u%04x`, r)
		default:
			fmt.Fprintf(b, `\%03o`, r)
		}
	}) + `"`
}

// commentText makes s safe inside a line comment of any target. Line
// breaks would end the comment, and Java decodes \uXXXX even there, so
// control characters, separators and backslashes become '_'.
func commentText(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, r == 0x7f, r == '\\', r == utf8.RuneError,
			r == '\u0085', r == '\u2028', r == '\u2029', r == '\ufeff':
			return '_'
		}
		return r
	}, s)
}
