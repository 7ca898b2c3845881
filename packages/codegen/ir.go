package codegen

import (
	"strconv"
	"time"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
)

// Suite is the target-independent form of one generated file. Strings are
// raw, already substituted values; targets quote them while rendering.
type Suite struct {
	Package        string
	ClassName      string
	Source         string
	Version        string
	BaseURL        string
	DefaultHeaders []ast.Header
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	Tests          []Func
}

// UsesBody reports whether any call sends a body.
func (s *Suite) UsesBody() bool {
	for _, f := range s.Tests {
		for _, c := range f.Calls {
			if c.HasBody {
				return true
			}
		}
	}
	return false
}

func (s *Suite) HasChecks() bool {
	return s.CheckCount() > 0
}

func (s *Suite) CheckCount() int {
	n := 0
	for _, f := range s.Tests {
		for _, c := range f.Calls {
			n += len(c.Checks)
		}
	}
	return n
}

// Func is one generated test procedure.
type Func struct {
	Name  string // name from the source file
	Ident string // identifier in the target language
	Calls []Call
}

// Call is one HTTP request followed by the checks run against its
// response.
type Call struct {
	Index        int // 1-based position within the test
	Method       ast.Method
	Path         string
	BaseRelative bool
	Body         string
	HasBody      bool
	Headers      []ast.Header
	Checks       []Check
}

func (c Call) UsesResponse() bool {
	for _, chk := range c.Checks {
		if chk.Kind != CheckBodyContains {
			return true
		}
	}
	return false
}

func (c Call) UsesBody() bool {
	for _, chk := range c.Checks {
		if chk.Kind == CheckBodyContains {
			return true
		}
	}
	return false
}

type CheckKind int

const (
	CheckStatusEquals CheckKind = iota
	CheckStatusInRange
	CheckHeaderEquals
	CheckHeaderContains
	CheckBodyContains
)

type Check struct {
	Kind   CheckKind
	Status int
	Start  int
	End    int
	Name   string // header name
	Text   string // expected header value or substring
}

func buildSuite(cfg *ast.Config, vars *ast.Variables, tests []*ast.TestCase, o *Options) *Suite {
	s := &Suite{
		Package:        o.Package,
		ClassName:      o.ClassName,
		Source:         commentText(o.Source),
		Version:        commentText(o.Version),
		BaseURL:        o.FallbackBaseURL,
		ConnectTimeout: o.ConnectTimeout,
		RequestTimeout: o.RequestTimeout,
	}
	if cfg != nil {
		if cfg.HasBaseURL {
			s.BaseURL = cfg.BaseURL
		}
		s.DefaultHeaders = append(s.DefaultHeaders, cfg.Headers...)
	}

	for _, tc := range tests {
		checks := buildChecks(tc.Assertions)
		f := Func{Name: tc.Name}
		for i, req := range tc.Requests {
			f.Calls = append(f.Calls, buildCall(i+1, req, vars, checks))
		}
		s.Tests = append(s.Tests, f)
	}
	return s
}

// buildCall copies every check of the test into the call, so each
// assertion runs once per request.
func buildCall(index int, req *ast.Request, vars *ast.Variables, checks []Check) Call {
	path := ast.Substitute(req.Path, vars)
	c := Call{
		Index:        index,
		Method:       req.Method,
		Path:         path,
		BaseRelative: len(path) > 0 && path[0] == '/',
		Checks:       append([]Check(nil), checks...),
	}
	if req.Method.TakesBody() && req.HasBody {
		c.Body = ast.Substitute(req.Body, vars)
		c.HasBody = true
	}
	for _, h := range req.Headers {
		c.Headers = append(c.Headers, ast.Header{Name: h.Name, Value: ast.Substitute(h.Value, vars)})
	}
	return c
}

func buildChecks(assertions []ast.Assertion) []Check {
	checks := make([]Check, 0, len(assertions))
	for _, a := range assertions {
		switch a := a.(type) {
		case *ast.StatusEquals:
			checks = append(checks, Check{Kind: CheckStatusEquals, Status: a.Status})
		case *ast.StatusInRange:
			checks = append(checks, Check{Kind: CheckStatusInRange, Start: a.Start, End: a.End})
		case *ast.HeaderEquals:
			checks = append(checks, Check{Kind: CheckHeaderEquals, Name: a.Name, Text: a.Value})
		case *ast.HeaderContains:
			checks = append(checks, Check{Kind: CheckHeaderContains, Name: a.Name, Text: a.Substring})
		case *ast.BodyContains:
			checks = append(checks, Check{Kind: CheckBodyContains, Text: a.Substring})
		}
	}
	return checks
}

// assignIdents names every Func with the target's naming scheme. Clashes,
// including clashes with reserved names, get a numeric suffix.
func (s *Suite) assignIdents(name func(string) string, reserved ...string) {
	used := make(map[string]bool, len(s.Tests)+len(reserved))
	for _, r := range reserved {
		used[r] = true
	}
	for i := range s.Tests {
		base := name(s.Tests[i].Name)
		ident := base
		for n := 2; used[ident]; n++ {
			ident = base + "_" + strconv.Itoa(n)
		}
		used[ident] = true
		s.Tests[i].Ident = ident
	}
}
