// Package parser turns apitestc source (.test files) into an ast.Program.
//
// The lexer produces typed tokens with line and column positions:
//   - keywords (config, base_url, header, var, test, request, expect,
//     status, contains, range, body) and the methods GET, POST, PUT, DELETE
//   - identifiers and $name variable references
//   - double-quoted strings with \" \\ \n \t \r escapes
//   - integers, and the punctuation { } : , =
//
// Whitespace and comments (# or // to end of line) are skipped.
//
// The parser is single pass and stops at the first LexError or ParseError.
// It does not resolve variable references; see package checker.
package parser
