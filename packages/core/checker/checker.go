package checker

import (
	"fmt"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
)

const (
	MinRequests   = 1
	MinAssertions = 2
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

type Rule string

const (
	RuleMissingRequest         Rule = "missing-request"
	RuleInsufficientAssertions Rule = "insufficient-assertions"
	RuleUndefinedVariable      Rule = "undefined-variable"
	RuleDuplicateConfig        Rule = "duplicate-config"

	// Warnings never affect Valid.
	RuleDuplicateVariable    Rule = "duplicate-variable"
	RuleAssertionsPerRequest Rule = "assertions-per-request"
	RuleBodyIgnored          Rule = "body-ignored"
	RuleDuplicateTest        Rule = "duplicate-test"
	RuleEmptyTestName        Rule = "empty-test-name"
	RuleInvalidRange         Rule = "invalid-range"
	RuleInvalidStatus        Rule = "invalid-status"
)

// Diagnostic is one violation or warning. Test and Field are empty when the
// problem is not tied to a test case.
type Diagnostic struct {
	Severity Severity
	Rule     Rule
	Test     string
	Field    string
	Pos      ast.Pos
	Message  string
}

func (d Diagnostic) String() string {
	return d.Pos.String() + ": " + d.Message
}

type Report struct {
	errors   []Diagnostic
	warnings []Diagnostic
}

func (r *Report) Valid() bool {
	return len(r.errors) == 0
}

// Errors returns a copy of the violations in the order they were found.
func (r *Report) Errors() []Diagnostic {
	return append([]Diagnostic(nil), r.errors...)
}

func (r *Report) Warnings() []Diagnostic {
	return append([]Diagnostic(nil), r.warnings...)
}

// Count returns how many errors and warnings were reported for rule.
func (r *Report) Count(rule Rule) int {
	n := 0
	for _, d := range r.errors {
		if d.Rule == rule {
			n++
		}
	}
	for _, d := range r.warnings {
		if d.Rule == rule {
			n++
		}
	}
	return n
}

// Check validates prog. It reads prog only.
func Check(prog *ast.Program) *Report {
	vars := prog.Variables()

	var diags []Diagnostic
	diags = append(diags, checkConfigs(prog.Configs())...)
	diags = append(diags, checkVariables(vars)...)
	diags = append(diags, checkTestNames(prog.Tests())...)
	for _, tc := range prog.Tests() {
		diags = append(diags, checkTestCase(tc, vars)...)
	}

	report := &Report{}
	for _, d := range diags {
		if d.Severity == SeverityWarning {
			report.warnings = append(report.warnings, d)
		} else {
			report.errors = append(report.errors, d)
		}
	}
	return report
}

func checkConfigs(configs []*ast.Config) []Diagnostic {
	var diags []Diagnostic
	for i, cfg := range configs {
		if i == 0 {
			continue
		}
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Rule:     RuleDuplicateConfig,
			Pos:      cfg.Pos,
			Message:  fmt.Sprintf("only one config block is allowed (first declared at %s)", configs[0].Pos),
		})
	}
	return diags
}

func checkVariables(vars *ast.Variables) []Diagnostic {
	var diags []Diagnostic
	for _, shadowed := range vars.Shadowed() {
		winner, _ := vars.Lookup(shadowed.Name)
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Rule:     RuleDuplicateVariable,
			Field:    "var " + shadowed.Name,
			Pos:      shadowed.Pos,
			Message:  fmt.Sprintf("variable %q is redeclared at %s; the last declaration wins", shadowed.Name, winner.Pos),
		})
	}
	return diags
}

func checkTestNames(tests []*ast.TestCase) []Diagnostic {
	var diags []Diagnostic
	seen := make(map[string]*ast.TestCase)
	for _, tc := range tests {
		if tc.Name == "" {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Rule:     RuleEmptyTestName,
				Pos:      tc.Pos,
				Message:  "test name must not be empty",
			})
			continue
		}
		if first, ok := seen[tc.Name]; ok {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Rule:     RuleDuplicateTest,
				Test:     tc.Name,
				Pos:      tc.Pos,
				Message:  fmt.Sprintf("Test '%s': duplicate test name (first declared at %s); the generated name gets a suffix", tc.Name, first.Pos),
			})
			continue
		}
		seen[tc.Name] = tc
	}
	return diags
}

func checkTestCase(tc *ast.TestCase, vars *ast.Variables) []Diagnostic {
	var diags []Diagnostic

	if len(tc.Requests) < MinRequests {
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Rule:     RuleMissingRequest,
			Test:     tc.Name,
			Pos:      tc.Pos,
			Message:  fmt.Sprintf("Test '%s': must have at least %d request", tc.Name, MinRequests),
		})
	}

	if len(tc.Assertions) < MinAssertions {
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Rule:     RuleInsufficientAssertions,
			Test:     tc.Name,
			Pos:      tc.Pos,
			Message:  fmt.Sprintf("Test '%s': must have at least %d assertions (found %d)", tc.Name, MinAssertions, len(tc.Assertions)),
		})
	}

	if len(tc.Requests) > 1 && len(tc.Assertions) > 0 {
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Rule:     RuleAssertionsPerRequest,
			Test:     tc.Name,
			Pos:      tc.Pos,
			Message: fmt.Sprintf("Test '%s': all %d assertions are checked after each of the %d requests",
				tc.Name, len(tc.Assertions), len(tc.Requests)),
		})
	}

	for i, req := range tc.Requests {
		diags = append(diags, checkRequest(tc.Name, i+1, req, vars)...)
	}
	for _, a := range tc.Assertions {
		diags = append(diags, checkAssertion(tc.Name, a)...)
	}
	return diags
}

func checkRequest(test string, index int, req *ast.Request, vars *ast.Variables) []Diagnostic {
	var diags []Diagnostic
	diags = append(diags, undefinedVariables(test, "path", req.Path, req.Pos, vars)...)
	if req.HasBody {
		diags = append(diags, undefinedVariables(test, "body", req.Body, req.Pos, vars)...)
		if !req.Method.TakesBody() {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Rule:     RuleBodyIgnored,
				Test:     test,
				Field:    "body",
				Pos:      req.Pos,
				Message:  fmt.Sprintf("Test '%s', request %d: body is ignored for %s requests", test, index, req.Method),
			})
		}
	}
	return diags
}

// undefinedVariables reports one diagnostic per occurrence, so a name
// referenced twice is reported twice.
func undefinedVariables(test, field, text string, pos ast.Pos, vars *ast.Variables) []Diagnostic {
	var diags []Diagnostic
	for _, ref := range ast.References(text) {
		if _, ok := vars.Lookup(ref.Name); ok {
			continue
		}
		diags = append(diags, Diagnostic{
			Severity: SeverityError,
			Rule:     RuleUndefinedVariable,
			Test:     test,
			Field:    field,
			Pos:      pos,
			Message:  fmt.Sprintf("Test '%s', %s: undefined variable '$%s'", test, field, ref.Name),
		})
	}
	return diags
}

func checkAssertion(test string, a ast.Assertion) []Diagnostic {
	var diags []Diagnostic
	invalidStatus := func(code int) {
		diags = append(diags, Diagnostic{
			Severity: SeverityWarning,
			Rule:     RuleInvalidStatus,
			Test:     test,
			Field:    "expect",
			Pos:      a.Position(),
			Message:  fmt.Sprintf("Test '%s', expect %s: %d is not an HTTP status code (100-599)", test, a, code),
		})
	}

	switch a := a.(type) {
	case *ast.StatusEquals:
		if !validStatus(a.Status) {
			invalidStatus(a.Status)
		}
	case *ast.StatusInRange:
		if !validStatus(a.Start) {
			invalidStatus(a.Start)
		}
		if !validStatus(a.End) {
			invalidStatus(a.End)
		}
		if a.Start > a.End {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Rule:     RuleInvalidRange,
				Test:     test,
				Field:    "expect",
				Pos:      a.Pos,
				Message:  fmt.Sprintf("Test '%s', expect %s: range start is greater than range end", test, a),
			})
		}
	}
	return diags
}

func validStatus(code int) bool {
	return code >= 100 && code <= 599
}
