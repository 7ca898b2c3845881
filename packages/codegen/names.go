package codegen

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// words splits a test name into runs of letters and digits.
func words(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// goTestName turns a test name into an exported Go test function name:
// "get user by id" becomes TestGetUserById.
func goTestName(name string) string {
	parts := words(name)
	if len(parts) == 0 {
		return "TestUnnamed"
	}
	title := cases.Title(language.AmericanEnglish, cases.NoLower)
	var b strings.Builder
	b.WriteString("Test")
	for _, p := range parts {
		b.WriteString(title.String(p))
	}
	return b.String()
}

// javaTestName keeps the name as written and replaces anything that cannot
// appear in a Java identifier with an underscore.
func javaTestName(name string) string {
	return "test_" + strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return '_'
	}, name)
}
