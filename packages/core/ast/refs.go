package ast

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Reference is one $name occurrence inside a path or body.
type Reference struct {
	Name   string
	Offset int // byte offset of the '$'
}

// References scans text for $name occurrences. A name is the longest run of
// letters, digits and underscores after '$'; a '$' not followed by one is
// skipped.
func References(text string) []Reference {
	var refs []Reference
	for i := 0; i < len(text); {
		idx := strings.IndexByte(text[i:], '$')
		if idx < 0 {
			break
		}
		start := i + idx
		end := start + 1
		for end < len(text) {
			r, size := utf8.DecodeRuneInString(text[end:])
			if !isNameRune(r) {
				break
			}
			end += size
		}
		if end > start+1 {
			refs = append(refs, Reference{Name: text[start+1 : end], Offset: start})
		}
		i = end
	}
	return refs
}

// Substitute replaces every literal "$name" with the rendered value in a
// single left-to-right scan, so inserted values are never substituted again.
// When several declared names match at one '$', the earliest declared wins.
func Substitute(text string, vars *Variables) string {
	if text == "" || vars.Len() == 0 || !strings.Contains(text, "$") {
		return text
	}
	all := vars.All()
	var b strings.Builder
	for {
		idx := strings.IndexByte(text, '$')
		if idx < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:idx])
		text = text[idx+1:]
		matched := false
		for _, v := range all {
			if strings.HasPrefix(text, v.Name) {
				b.WriteString(v.Value.String())
				text = text[len(v.Name):]
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte('$')
		}
	}
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsName reports whether s is a valid bare identifier.
func IsName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && unicode.IsDigit(r) {
			return false
		}
		if !isNameRune(r) {
			return false
		}
	}
	return true
}
