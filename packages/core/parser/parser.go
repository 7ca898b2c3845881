package parser

import (
	"fmt"
	"io"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
)

type Parser struct {
	lexer    *Lexer
	curToken Token
	file     string
}

func NewParser(input, filename string) *Parser {
	return &Parser{
		lexer: NewLexer(input, WithFilename(filename)),
		file:  filename,
	}
}

func Parse(input, filename string) (*ast.Program, error) {
	return NewParser(input, filename).ParseProgram()
}

func ParseReader(r io.Reader, filename string) (*ast.Program, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(string(content), filename)
}

// ParseProgram parses the whole input. The first LexError or ParseError
// aborts parsing and is returned as is.
func (p *Parser) ParseProgram() (*ast.Program, error) {
	p.lexer.Reset()
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	prog := &ast.Program{File: p.file}
	for p.curToken.Type != TokenEOF {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		prog.Items = append(prog.Items, item)
	}
	return prog, nil
}

func (p *Parser) nextToken() error {
	tok, err := p.lexer.Next()
	if err != nil {
		return err
	}
	p.curToken = tok
	return nil
}

func (p *Parser) errorf(expected string) error {
	return &ParseError{
		File:     p.file,
		Pos:      p.curToken.Pos,
		Message:  fmt.Sprintf("expected %s, got %s", expected, p.curToken.describe()),
		Expected: expected,
	}
}

// expect consumes a token of the given type or fails describing what was
// expected.
func (p *Parser) expect(tt TokenType, expected string) (Token, error) {
	if p.curToken.Type != tt {
		return Token{}, p.errorf(expected)
	}
	tok := p.curToken
	return tok, p.nextToken()
}

func (p *Parser) skipOptional(tt TokenType) error {
	if p.curToken.Type == tt {
		return p.nextToken()
	}
	return nil
}

func (p *Parser) parseItem() (ast.Item, error) {
	switch p.curToken.Type {
	case TokenConfig:
		return p.parseConfig()
	case TokenVar:
		return p.parseVariable()
	case TokenTest:
		return p.parseTest()
	default:
		return nil, p.errorf("config block, var declaration or test block")
	}
}

type configEntryKind int

const (
	configBaseURL configEntryKind = iota
	configHeader
)

// configEntry is one line of a config block before it is folded into
// an ast.Config.
type configEntry struct {
	kind  configEntryKind
	name  string
	value string
}

func (p *Parser) parseConfig() (*ast.Config, error) {
	cfg := &ast.Config{Pos: p.curToken.Pos}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokenLeftBrace, "'{' after config"); err != nil {
		return nil, err
	}

	for p.curToken.Type != TokenRightBrace {
		entry, err := p.parseConfigEntry()
		if err != nil {
			return nil, err
		}
		switch entry.kind {
		case configBaseURL:
			cfg.BaseURL = entry.value
			cfg.HasBaseURL = true
		case configHeader:
			cfg.Headers.Set(entry.name, entry.value)
		}
	}
	return cfg, p.nextToken()
}

func (p *Parser) parseConfigEntry() (configEntry, error) {
	switch p.curToken.Type {
	case TokenBaseURL:
		if err := p.nextToken(); err != nil {
			return configEntry{}, err
		}
		if err := p.skipOptional(TokenColon); err != nil {
			return configEntry{}, err
		}
		url, err := p.expect(TokenString, "base URL string")
		if err != nil {
			return configEntry{}, err
		}
		return configEntry{kind: configBaseURL, value: url.Value}, nil
	case TokenHeader:
		name, value, err := p.parseHeaderPair()
		if err != nil {
			return configEntry{}, err
		}
		return configEntry{kind: configHeader, name: name, value: value}, nil
	default:
		return configEntry{}, p.errorf("base_url, header or '}' in config block")
	}
}

// parseHeaderPair parses `header "Name" [:] "Value"`.
func (p *Parser) parseHeaderPair() (string, string, error) {
	if err := p.nextToken(); err != nil {
		return "", "", err
	}
	name, err := p.expect(TokenString, "header name string")
	if err != nil {
		return "", "", err
	}
	if err := p.skipOptional(TokenColon); err != nil {
		return "", "", err
	}
	value, err := p.expect(TokenString, "header value string")
	if err != nil {
		return "", "", err
	}
	return name.Value, value.Value, nil
}

func (p *Parser) parseVariable() (*ast.Variable, error) {
	v := &ast.Variable{Pos: p.curToken.Pos}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenIdentifier, "variable name")
	if err != nil {
		return nil, err
	}
	v.Name = name.Value
	if _, err := p.expect(TokenEquals, "'=' after variable name"); err != nil {
		return nil, err
	}

	switch p.curToken.Type {
	case TokenString:
		v.Value = ast.TextValue(p.curToken.Value)
	case TokenInteger:
		v.Value = ast.IntValue(p.curToken.Int)
	default:
		return nil, p.errorf("string or integer value")
	}
	return v, p.nextToken()
}

func (p *Parser) parseTest() (*ast.TestCase, error) {
	tc := &ast.TestCase{Pos: p.curToken.Pos}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenString, "test name string")
	if err != nil {
		return nil, err
	}
	tc.Name = name.Value
	if _, err := p.expect(TokenLeftBrace, "'{' after test name"); err != nil {
		return nil, err
	}

	for p.curToken.Type != TokenRightBrace {
		switch p.curToken.Type {
		case TokenRequest:
			if len(tc.Assertions) > 0 {
				return nil, &ParseError{
					File:     p.file,
					Pos:      p.curToken.Pos,
					Message:  fmt.Sprintf("requests must precede assertions in test %q", tc.Name),
					Expected: "expect or '}'",
				}
			}
			req, err := p.parseRequest()
			if err != nil {
				return nil, err
			}
			tc.Requests = append(tc.Requests, req)
		case TokenExpect:
			a, err := p.parseAssertion()
			if err != nil {
				return nil, err
			}
			tc.Assertions = append(tc.Assertions, a)
		default:
			return nil, p.errorf("request, expect or '}' in test block")
		}
	}
	return tc, p.nextToken()
}

type requestEntryKind int

const (
	requestHeader requestEntryKind = iota
	requestBody
)

// requestEntry is a header or body line of a request before folding.
type requestEntry struct {
	kind  requestEntryKind
	name  string
	value string
	pos   ast.Pos
}

func (p *Parser) parseRequest() (*ast.Request, error) {
	req := &ast.Request{Pos: p.curToken.Pos}
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	method, err := p.expect(TokenMethod, "HTTP method (GET, POST, PUT, DELETE)")
	if err != nil {
		return nil, err
	}
	req.Method = ast.Method(method.Value)
	path, err := p.expect(TokenString, "request path string")
	if err != nil {
		return nil, err
	}
	req.Path = path.Value

	for p.curToken.Type == TokenHeader || p.curToken.Type == TokenBody {
		entry, err := p.parseRequestEntry()
		if err != nil {
			return nil, err
		}
		switch entry.kind {
		case requestHeader:
			req.Headers.Set(entry.name, entry.value)
		case requestBody:
			if req.HasBody {
				return nil, &ParseError{
					File:     p.file,
					Pos:      entry.pos,
					Message:  "request already has a body",
					Expected: "header, request, expect or '}'",
				}
			}
			req.Body = entry.value
			req.HasBody = true
		}
	}
	return req, nil
}

func (p *Parser) parseRequestEntry() (requestEntry, error) {
	pos := p.curToken.Pos
	if p.curToken.Type == TokenHeader {
		name, value, err := p.parseHeaderPair()
		if err != nil {
			return requestEntry{}, err
		}
		return requestEntry{kind: requestHeader, name: name, value: value, pos: pos}, nil
	}

	if err := p.nextToken(); err != nil {
		return requestEntry{}, err
	}
	body, err := p.expect(TokenString, "body string")
	if err != nil {
		return requestEntry{}, err
	}
	return requestEntry{kind: requestBody, value: body.Value, pos: pos}, nil
}

func (p *Parser) parseAssertion() (ast.Assertion, error) {
	pos := p.curToken.Pos
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	switch p.curToken.Type {
	case TokenStatus:
		return p.parseStatusAssertion(pos)
	case TokenHeader:
		return p.parseHeaderAssertion(pos)
	case TokenBody:
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokenContains, "'contains' after expect body"); err != nil {
			return nil, err
		}
		sub, err := p.expect(TokenString, "substring")
		if err != nil {
			return nil, err
		}
		return &ast.BodyContains{Substring: sub.Value, Pos: pos}, nil
	default:
		return nil, p.errorf("status, header or body after expect")
	}
}

func (p *Parser) parseStatusAssertion(pos ast.Pos) (ast.Assertion, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}

	if p.curToken.Type != TokenRange {
		code, err := p.expect(TokenInteger, "status code or 'range'")
		if err != nil {
			return nil, err
		}
		return &ast.StatusEquals{Status: int(code.Int), Pos: pos}, nil
	}

	if err := p.nextToken(); err != nil {
		return nil, err
	}
	start, err := p.expect(TokenInteger, "range start status code")
	if err != nil {
		return nil, err
	}
	if err := p.skipOptional(TokenComma); err != nil {
		return nil, err
	}
	end, err := p.expect(TokenInteger, "range end status code")
	if err != nil {
		return nil, err
	}
	return &ast.StatusInRange{Start: int(start.Int), End: int(end.Int), Pos: pos}, nil
}

func (p *Parser) parseHeaderAssertion(pos ast.Pos) (ast.Assertion, error) {
	if err := p.nextToken(); err != nil {
		return nil, err
	}
	name, err := p.expect(TokenString, "header name string")
	if err != nil {
		return nil, err
	}

	if p.curToken.Type == TokenContains {
		if err := p.nextToken(); err != nil {
			return nil, err
		}
		sub, err := p.expect(TokenString, "substring")
		if err != nil {
			return nil, err
		}
		return &ast.HeaderContains{Name: name.Value, Substring: sub.Value, Pos: pos}, nil
	}

	if err := p.skipOptional(TokenColon); err != nil {
		return nil, err
	}
	value, err := p.expect(TokenString, "header value string or 'contains'")
	if err != nil {
		return nil, err
	}
	return &ast.HeaderEquals{Name: name.Value, Value: value.Value, Pos: pos}, nil
}
