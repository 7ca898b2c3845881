package parser

import (
	"fmt"
	"iter"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
)

type Lexer struct {
	input   string
	file    string
	pos     int // offset of ch
	readPos int
	ch      rune
	line    int
	column  int
	err     error
}

type LexerOption func(*Lexer)

// WithFilename sets the file name reported in LexErrors.
func WithFilename(name string) LexerOption {
	return func(l *Lexer) {
		l.file = name
	}
}

func NewLexer(input string, opts ...LexerOption) *Lexer {
	l := &Lexer{input: input}
	for _, opt := range opts {
		opt(l)
	}
	l.Reset()
	return l
}

// Reset rewinds the lexer to the start of its input.
func (l *Lexer) Reset() {
	l.pos = 0
	l.readPos = 0
	l.ch = 0
	l.line = 1
	l.column = 0
	l.err = nil
	l.readChar()
}

// Tokenize lexes the whole input, including the trailing EOF token.
func Tokenize(input string, opts ...LexerOption) ([]Token, error) {
	var tokens []Token
	for tok, err := range NewLexer(input, opts...).All() {
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// All yields every token through EOF, or stops at the first error. Each
// call starts over from the beginning of the input.
func (l *Lexer) All() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		l.Reset()
		for {
			tok, err := l.Next()
			if err != nil {
				yield(Token{}, err)
				return
			}
			if !yield(tok, nil) || tok.Type == TokenEOF {
				return
			}
		}
	}
}

// Next returns the next token. Once an error is returned, every later call
// returns the same error.
func (l *Lexer) Next() (Token, error) {
	if l.err != nil {
		return Token{}, l.err
	}
	l.skipWhitespaceAndComments()

	pos := l.position()
	if l.atEOF() {
		return Token{Type: TokenEOF, Pos: pos}, nil
	}

	switch ch := l.ch; {
	case ch == '{':
		return l.single(TokenLeftBrace, pos), nil
	case ch == '}':
		return l.single(TokenRightBrace, pos), nil
	case ch == ':':
		return l.single(TokenColon, pos), nil
	case ch == ',':
		return l.single(TokenComma, pos), nil
	case ch == '=':
		return l.single(TokenEquals, pos), nil
	case ch == '"':
		return l.readString(pos)
	case ch == '$':
		return l.readVariableRef(pos)
	case isDigit(ch) || (ch == '-' && isDigit(l.peekChar())):
		return l.readInteger(pos)
	case isLetter(ch):
		return l.readWord(pos), nil
	default:
		return Token{}, l.fail(pos, fmt.Sprintf("unexpected character %q", ch))
	}
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.pos = l.readPos
	l.column++
	if l.readPos >= len(l.input) {
		l.ch = 0
		return
	}
	r, width := utf8.DecodeRuneInString(l.input[l.readPos:])
	l.ch = r
	l.readPos += width
}

func (l *Lexer) peekChar() rune {
	if l.readPos >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPos:])
	return r
}

func (l *Lexer) atEOF() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) position() ast.Pos {
	return ast.Pos{Line: l.line, Column: l.column}
}

func (l *Lexer) fail(pos ast.Pos, msg string) error {
	l.err = &LexError{File: l.file, Pos: pos, Message: msg}
	return l.err
}

func (l *Lexer) single(tt TokenType, pos ast.Pos) Token {
	tok := Token{Type: tt, Value: string(l.ch), Pos: pos}
	l.readChar()
	return tok
}

func (l *Lexer) skipWhitespaceAndComments() {
	for !l.atEOF() {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == '#', l.ch == '/' && l.peekChar() == '/':
			for !l.atEOF() && l.ch != '\n' {
				l.readChar()
			}
		default:
			return
		}
	}
}

func (l *Lexer) readString(start ast.Pos) (Token, error) {
	l.readChar()
	var builder strings.Builder
	for {
		if l.atEOF() {
			return Token{}, l.fail(start, "unterminated string literal")
		}
		switch l.ch {
		case '"':
			l.readChar()
			return Token{Type: TokenString, Value: builder.String(), Pos: start}, nil
		case '\\':
			escPos := l.position()
			l.readChar()
			if l.atEOF() {
				return Token{}, l.fail(start, "unterminated string literal")
			}
			switch l.ch {
			case '"':
				builder.WriteByte('"')
			case '\\':
				builder.WriteByte('\\')
			case 'n':
				builder.WriteByte('\n')
			case 't':
				builder.WriteByte('\t')
			case 'r':
				builder.WriteByte('\r')
			default:
				return Token{}, l.fail(escPos, fmt.Sprintf("unknown escape sequence \\%c", l.ch))
			}
			l.readChar()
		default:
			// copy the raw bytes so invalid UTF-8 survives unchanged
			builder.WriteString(l.input[l.pos:l.readPos])
			l.readChar()
		}
	}
}

func (l *Lexer) readVariableRef(start ast.Pos) (Token, error) {
	l.readChar()
	name := l.readIdentifier()
	if name == "" {
		return Token{}, l.fail(start, "'$' must be followed by a variable name")
	}
	return Token{Type: TokenVariableRef, Value: "$" + name, Pos: start}, nil
}

func (l *Lexer) readInteger(start ast.Pos) (Token, error) {
	from := l.pos
	if l.ch == '-' {
		l.readChar()
	}
	for isDigit(l.ch) {
		l.readChar()
	}
	if isLetter(l.ch) {
		for isLetter(l.ch) || isDigit(l.ch) {
			l.readChar()
		}
		return Token{}, l.fail(start, fmt.Sprintf("invalid integer literal %q", l.input[from:l.pos]))
	}
	text := l.input[from:l.pos]
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, l.fail(start, fmt.Sprintf("integer literal %s out of range", text))
	}
	return Token{Type: TokenInteger, Value: text, Int: n, Pos: start}, nil
}

func (l *Lexer) readWord(start ast.Pos) Token {
	word := l.readIdentifier()
	if tt, ok := keywords[word]; ok {
		return Token{Type: tt, Value: word, Pos: start}
	}
	if _, ok := ast.ParseMethod(word); ok {
		return Token{Type: TokenMethod, Value: word, Pos: start}
	}
	return Token{Type: TokenIdentifier, Value: word, Pos: start}
}

func (l *Lexer) readIdentifier() string {
	from := l.pos
	for !l.atEOF() && (isLetter(l.ch) || unicode.IsDigit(l.ch)) {
		l.readChar()
	}
	return l.input[from:l.pos]
}

func isLetter(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isDigit(ch rune) bool {
	return ch >= '0' && ch <= '9'
}
