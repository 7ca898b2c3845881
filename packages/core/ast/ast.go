package ast

import "strconv"

type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Item is a top-level program entry: *Config, *Variable or *TestCase.
type Item interface {
	Position() Pos
	item()
}

type Header struct {
	Name  string
	Value string
}

// Headers is an ordered header mapping with unique names.
type Headers []Header

// Set replaces the value of an existing name in place, or appends.
func (h *Headers) Set(name, value string) {
	for i := range *h {
		if (*h)[i].Name == name {
			(*h)[i].Value = value
			return
		}
	}
	*h = append(*h, Header{Name: name, Value: value})
}

func (h Headers) Get(name string) (string, bool) {
	for _, hdr := range h {
		if hdr.Name == name {
			return hdr.Value, true
		}
	}
	return "", false
}

type Config struct {
	BaseURL    string
	HasBaseURL bool
	Headers    Headers
	Pos        Pos
}

func (c *Config) Position() Pos { return c.Pos }
func (*Config) item()           {}

type Method string

const (
	MethodGet    Method = "GET"
	MethodPost   Method = "POST"
	MethodPut    Method = "PUT"
	MethodDelete Method = "DELETE"
)

// TakesBody reports whether a body is meaningful for the method.
func (m Method) TakesBody() bool {
	return m == MethodPost || m == MethodPut
}

func ParseMethod(s string) (Method, bool) {
	switch m := Method(s); m {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
		return m, true
	}
	return "", false
}

type Request struct {
	Method  Method
	Path    string
	Headers Headers
	Body    string
	HasBody bool
	Pos     Pos
}

type TestCase struct {
	Name       string
	Requests   []*Request
	Assertions []Assertion
	Pos        Pos
}

func (t *TestCase) Position() Pos { return t.Pos }
func (*TestCase) item()           {}
