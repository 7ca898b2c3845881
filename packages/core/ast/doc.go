// Package ast defines the in-memory model of a compiled apitestc program.
//
// A Program is an ordered list of top-level items:
//   - Config: shared base URL and default headers
//   - Variable: a named text or integer value referenced as $name
//   - TestCase: a named group of requests and response assertions
//
// The parser builds these values; the checker and the code generator only
// read them.
package ast
