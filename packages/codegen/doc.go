// Package codegen turns a checked program into test-suite source text.
//
// Generation happens in two steps. The program is first lowered into a
// Suite, where variables are substituted and every assertion of a test is
// attached to every request of that test. A Target then renders the Suite
// through text/template:
//
//   - go: a _test.go file using net/http, testing and testify
//   - junit: a JUnit 5 class using java.net.http
//
// String literals are written by the target's quote function, which
// escapes backslash, double quote, newline, carriage return, tab and any
// other control character.
package codegen
