package parser

import (
	"fmt"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
)

// LexError reports a malformed token. Lexing stops at the first one.
type LexError struct {
	File    string
	Pos     ast.Pos
	Message string
}

func (e *LexError) Error() string {
	return location(e.File, e.Pos) + ": " + e.Message
}

// ParseError reports input that does not match the grammar.
type ParseError struct {
	File     string
	Pos      ast.Pos
	Message  string
	Expected string
}

func (e *ParseError) Error() string {
	return location(e.File, e.Pos) + ": " + e.Message
}

func location(file string, pos ast.Pos) string {
	if file != "" {
		return fmt.Sprintf("%s:%d:%d", file, pos.Line, pos.Column)
	}
	return fmt.Sprintf("line %d, column %d", pos.Line, pos.Column)
}
