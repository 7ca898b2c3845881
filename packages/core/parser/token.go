package parser

import (
	"fmt"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
)

type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdentifier
	TokenVariableRef
	TokenString
	TokenInteger
	TokenMethod
	TokenLeftBrace
	TokenRightBrace
	TokenColon
	TokenComma
	TokenEquals

	TokenConfig
	TokenBaseURL
	TokenHeader
	TokenVar
	TokenTest
	TokenRequest
	TokenExpect
	TokenStatus
	TokenContains
	TokenRange
	TokenBody
)

var keywords = map[string]TokenType{
	"config":   TokenConfig,
	"base_url": TokenBaseURL,
	"header":   TokenHeader,
	"var":      TokenVar,
	"test":     TokenTest,
	"request":  TokenRequest,
	"expect":   TokenExpect,
	"status":   TokenStatus,
	"contains": TokenContains,
	"range":    TokenRange,
	"body":     TokenBody,
}

var tokenNames = map[TokenType]string{
	TokenEOF:         "EOF",
	TokenIdentifier:  "IDENT",
	TokenVariableRef: "VARREF",
	TokenString:      "STRING",
	TokenInteger:     "INT",
	TokenMethod:      "METHOD",
	TokenLeftBrace:   "LBRACE",
	TokenRightBrace:  "RBRACE",
	TokenColon:       "COLON",
	TokenComma:       "COMMA",
	TokenEquals:      "EQUALS",
	TokenConfig:      "CONFIG",
	TokenBaseURL:     "BASE_URL",
	TokenHeader:      "HEADER",
	TokenVar:         "VAR",
	TokenTest:        "TEST",
	TokenRequest:     "REQUEST",
	TokenExpect:      "EXPECT",
	TokenStatus:      "STATUS",
	TokenContains:    "CONTAINS",
	TokenRange:       "RANGE",
	TokenBody:        "BODY",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

func (t TokenType) IsKeyword() bool {
	return t >= TokenConfig && t <= TokenBody
}

type Token struct {
	Type  TokenType
	Value string // decoded literal, identifier or keyword text
	Int   int64  // set for TokenInteger
	Pos   ast.Pos
}

func (t Token) String() string {
	switch t.Type {
	case TokenString:
		return fmt.Sprintf("%s %q", t.Type, t.Value)
	case TokenEOF, TokenLeftBrace, TokenRightBrace, TokenColon, TokenComma, TokenEquals:
		return t.Type.String()
	default:
		return fmt.Sprintf("%s %s", t.Type, t.Value)
	}
}

// describe renders the token for "expected X, got Y" messages.
func (t Token) describe() string {
	switch {
	case t.Type == TokenEOF:
		return "end of file"
	case t.Type == TokenString:
		return fmt.Sprintf("string %q", t.Value)
	case t.Type == TokenInteger:
		return "integer " + t.Value
	case t.Type == TokenIdentifier:
		return "identifier " + t.Value
	case t.Type == TokenVariableRef:
		return "variable reference " + t.Value
	case t.Type == TokenMethod:
		return "method " + t.Value
	case t.Type.IsKeyword():
		return fmt.Sprintf("keyword %q", t.Value)
	default:
		return fmt.Sprintf("%q", t.Value)
	}
}
