package codegen

import (
	"bytes"
	"time"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
)

const (
	DefaultFallbackBaseURL = "http://localhost:8080"
	DefaultConnectTimeout  = 5 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
	DefaultPackage         = "apitest"
	DefaultClassName       = "GeneratedTests"
)

// Options controls what the Generator writes.
type Options struct {
	Target          *Target
	Package         string // Go package clause
	ClassName       string // JUnit class name
	FallbackBaseURL string // used when the program sets no base_url
	ConnectTimeout  time.Duration
	RequestTimeout  time.Duration
	Source          string // input file named in the header comment
	Version         string
}

type Option func(*Options)

func WithTarget(t *Target) Option {
	return func(o *Options) {
		if t != nil {
			o.Target = t
		}
	}
}

func WithPackage(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.Package = name
		}
	}
}

func WithClassName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.ClassName = name
		}
	}
}

func WithFallbackBaseURL(url string) Option {
	return func(o *Options) {
		if url != "" {
			o.FallbackBaseURL = url
		}
	}
}

// WithTimeouts sets the connect and per-request timeouts. Zero keeps the
// current value.
func WithTimeouts(connect, request time.Duration) Option {
	return func(o *Options) {
		if connect > 0 {
			o.ConnectTimeout = connect
		}
		if request > 0 {
			o.RequestTimeout = request
		}
	}
}

func WithSource(file string) Option {
	return func(o *Options) {
		o.Source = file
	}
}

func WithVersion(v string) Option {
	return func(o *Options) {
		o.Version = v
	}
}

// Generator turns checked programs into test-suite source text. It holds
// no state between calls.
type Generator struct {
	opts Options
}

func New(opts ...Option) *Generator {
	g := &Generator{
		opts: Options{
			Target:          Go,
			Package:         DefaultPackage,
			ClassName:       DefaultClassName,
			FallbackBaseURL: DefaultFallbackBaseURL,
			ConnectTimeout:  DefaultConnectTimeout,
			RequestTimeout:  DefaultRequestTimeout,
		},
	}
	for _, opt := range opts {
		opt(&g.opts)
	}
	return g
}

func (g *Generator) Target() *Target {
	return g.opts.Target
}

// Generate renders tests with the base URL and default headers of cfg and
// the values of vars. cfg and vars may be nil. The program is expected to
// have passed the checker; Generate does not validate it.
func (g *Generator) Generate(cfg *ast.Config, vars *ast.Variables, tests []*ast.TestCase) ([]byte, error) {
	s := g.Suite(cfg, vars, tests)
	var buf bytes.Buffer
	if err := g.opts.Target.Render(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateProgram renders every test of prog using its last config block.
func (g *Generator) GenerateProgram(prog *ast.Program) ([]byte, error) {
	return g.Generate(prog.Config(), prog.Variables(), prog.Tests())
}

// Suite builds the intermediate form Generate renders, with target
// identifiers assigned.
func (g *Generator) Suite(cfg *ast.Config, vars *ast.Variables, tests []*ast.TestCase) *Suite {
	s := buildSuite(cfg, vars, tests, &g.opts)
	s.assignIdents(g.opts.Target.Ident, g.opts.Target.Reserved...)
	return s
}
