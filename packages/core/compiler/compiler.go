package compiler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/abdul-hamid-achik/apitestc/packages/codegen"
	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
	"github.com/abdul-hamid-achik/apitestc/packages/core/checker"
	"github.com/abdul-hamid-achik/apitestc/packages/core/parser"
	"github.com/taybart/log"
)

type Stage string

const (
	StageLex      Stage = "lex"
	StageParse    Stage = "parse"
	StageCheck    Stage = "check"
	StageGenerate Stage = "generate"
)

// SemanticError is returned when the checker finds at least one error.
// Report also carries the warnings.
type SemanticError struct {
	File    string
	Program *ast.Program
	Report  *checker.Report
}

func (e *SemanticError) Error() string {
	errs := e.Report.Errors()
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File + ": ")
	}
	fmt.Fprintf(&b, "%d semantic error", len(errs))
	if len(errs) != 1 {
		b.WriteString("s")
	}
	for _, d := range errs {
		b.WriteString("\n  " + d.String())
	}
	return b.String()
}

// GenerateError wraps a failure of the target's renderer or formatter.
type GenerateError struct {
	Target string
	Err    error
}

func (e *GenerateError) Error() string {
	return fmt.Sprintf("generating %s output: %v", e.Target, e.Err)
}

func (e *GenerateError) Unwrap() error { return e.Err }

// StageOf reports which stage produced err, or "" when err did not come
// from Compile.
func StageOf(err error) Stage {
	var (
		lexErr   *parser.LexError
		parseErr *parser.ParseError
		semErr   *SemanticError
		genErr   *GenerateError
	)
	switch {
	case errors.As(err, &lexErr):
		return StageLex
	case errors.As(err, &parseErr):
		return StageParse
	case errors.As(err, &semErr):
		return StageCheck
	case errors.As(err, &genErr):
		return StageGenerate
	}
	return ""
}

type Options struct {
	Codegen []codegen.Option

	// TraceTokens logs every token at verbose level before parsing.
	TraceTokens bool
}

type Result struct {
	Program *ast.Program
	Report  *checker.Report
	Output  []byte
	Target  *codegen.Target
}

// Compile runs the lexer, parser, checker and generator over input. Lex and
// parse errors stop at the first problem; a SemanticError lists them all.
func Compile(input, filename string, opts Options) (*Result, error) {
	if opts.TraceTokens {
		if err := traceTokens(input, filename); err != nil {
			return nil, err
		}
	}

	start := time.Now()
	prog, err := parser.Parse(input, filename)
	if err != nil {
		return nil, err
	}
	log.Verbosef("parsed %s: %d items in %s\n", displayName(filename), len(prog.Items), time.Since(start))

	start = time.Now()
	report := checker.Check(prog)
	log.Verbosef("checked %s: %d errors, %d warnings in %s\n",
		displayName(filename), len(report.Errors()), len(report.Warnings()), time.Since(start))
	if !report.Valid() {
		return nil, &SemanticError{File: filename, Program: prog, Report: report}
	}

	genOpts := make([]codegen.Option, 0, len(opts.Codegen)+1)
	if filename != "" {
		genOpts = append(genOpts, codegen.WithSource(filepath.Base(filename)))
	}
	gen := codegen.New(append(genOpts, opts.Codegen...)...)

	start = time.Now()
	out, err := gen.GenerateProgram(prog)
	if err != nil {
		return nil, &GenerateError{Target: gen.Target().Name, Err: err}
	}
	log.Verbosef("generated %d bytes of %s in %s\n", len(out), gen.Target().Name, time.Since(start))

	return &Result{
		Program: prog,
		Report:  report,
		Output:  out,
		Target:  gen.Target(),
	}, nil
}

func traceTokens(input, filename string) error {
	for tok, err := range parser.NewLexer(input, parser.WithFilename(filename)).All() {
		if err != nil {
			return err
		}
		log.Verbosef("%s%s %s%s\n", log.Gray, tok.Pos, tok, log.Rtd)
	}
	return nil
}

func displayName(filename string) string {
	if filename == "" {
		return "<input>"
	}
	return filename
}
