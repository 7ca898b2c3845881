package output

import (
	"errors"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
	"github.com/abdul-hamid-achik/apitestc/packages/core/checker"
	"github.com/abdul-hamid-achik/apitestc/packages/core/compiler"
)

// Stages outside the compiler, for failures reading the input or writing
// the generated file.
const (
	StageRead  compiler.Stage = "read"
	StageWrite compiler.Stage = "write"
)

// Outcome is everything a formatter reports about one compilation.
type Outcome struct {
	File     string
	Stage    compiler.Stage // stage that failed, empty on success
	Err      error
	Program  *ast.Program // nil when lexing or parsing failed
	Errors   []checker.Diagnostic
	Warnings []checker.Diagnostic
	Target   string
	Output   string // path written, empty when nothing was written
	Skipped  bool   // no test cases, so nothing was generated
}

// NewOutcome collects the result of compiler.Compile.
func NewOutcome(file string, res *compiler.Result, err error) *Outcome {
	o := &Outcome{File: file, Err: err, Stage: compiler.StageOf(err)}
	if res != nil {
		o.Program = res.Program
		o.Warnings = res.Report.Warnings()
		o.Target = res.Target.Name
	}
	var semErr *compiler.SemanticError
	if errors.As(err, &semErr) {
		o.Program = semErr.Program
		o.Errors = semErr.Report.Errors()
		o.Warnings = semErr.Report.Warnings()
	}
	return o
}

func (o *Outcome) Valid() bool {
	return o.Err == nil
}

// Checks is the number of assertion checks in the generated suite: every
// assertion of a test counts once per request.
func (o *Outcome) Checks() int {
	if o.Program == nil {
		return 0
	}
	n := 0
	for _, tc := range o.Program.Tests() {
		n += len(tc.Requests) * len(tc.Assertions)
	}
	return n
}
