package checker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
	"github.com/abdul-hamid-achik/apitestc/packages/core/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(input, "check.test")
	require.NoError(t, err)
	return prog
}

func TestCheck_MinimalValidTest(t *testing.T) {
	prog := mustParse(t, `
var id = 42
test "GetUser" {
  request GET "/users/$id"
  expect status 200
  expect body contains "name"
}`)
	report := Check(prog)
	assert.True(t, report.Valid())
	assert.Empty(t, report.Errors())
	assert.Empty(t, report.Warnings())
}

func TestCheck_MissingRequest(t *testing.T) {
	for _, assertions := range []int{0, 1, 2, 5} {
		t.Run(fmt.Sprintf("%d assertions", assertions), func(t *testing.T) {
			var b strings.Builder
			b.WriteString(`test "NoRequests" {`)
			for i := 0; i < assertions; i++ {
				b.WriteString(" expect status 200")
			}
			b.WriteString(" }")

			report := Check(mustParse(t, b.String()))
			assert.False(t, report.Valid())
			assert.Equal(t, 1, report.Count(RuleMissingRequest))
		})
	}
}

func TestCheck_InsufficientAssertions(t *testing.T) {
	for _, n := range []int{0, 1} {
		t.Run(fmt.Sprintf("%d assertions", n), func(t *testing.T) {
			input := `test "Few" { request GET "/"` + strings.Repeat(" expect status 200", n) + " }"
			report := Check(mustParse(t, input))

			require.Equal(t, 1, report.Count(RuleInsufficientAssertions))
			var msg string
			for _, d := range report.Errors() {
				if d.Rule == RuleInsufficientAssertions {
					msg = d.Message
				}
			}
			assert.Equal(t, fmt.Sprintf("Test 'Few': must have at least 2 assertions (found %d)", n), msg)
		})
	}
}

func TestCheck_UndefinedVariableInPath(t *testing.T) {
	prog := mustParse(t, `
test "Lookup" {
  request GET "/users/$foo"
  expect status 200
  expect status 201
}`)
	report := Check(prog)
	require.False(t, report.Valid())

	errs := report.Errors()
	require.Len(t, errs, 1)
	d := errs[0]
	assert.Equal(t, RuleUndefinedVariable, d.Rule)
	assert.Equal(t, "Lookup", d.Test)
	assert.Equal(t, "path", d.Field)
	assert.Equal(t, ast.Pos{Line: 3, Column: 3}, d.Pos)
	assert.Contains(t, d.Message, "$foo")
	assert.Contains(t, d.Message, "Lookup")
	assert.Equal(t, "3:3: Test 'Lookup', path: undefined variable '$foo'", d.String())
}

func TestCheck_UndefinedVariablePerOccurrence(t *testing.T) {
	prog := mustParse(t, `
var id = 1
test "Repeat" {
  request POST "/a/$x/$x/$id" body "{\"x\": \"$x\", \"y\": \"$y\"}"
  request GET "/b/$x"
  expect status 200
  expect status 200
}`)
	report := Check(prog)
	assert.Equal(t, 5, report.Count(RuleUndefinedVariable))

	fields := []string{}
	for _, d := range report.Errors() {
		fields = append(fields, d.Field)
	}
	assert.Equal(t, []string{"path", "path", "body", "body", "path"}, fields)
}

func TestCheck_BareDollarIgnored(t *testing.T) {
	prog := mustParse(t, `test "Price" { request POST "/pay" body "costs 5 $" expect status 200 expect status 201 }`)
	assert.True(t, Check(prog).Valid())
}

func TestCheck_HeaderValuesAreNotScanned(t *testing.T) {
	prog := mustParse(t, `test "H" { request GET "/" header "X" "$nope" expect status 200 expect status 201 }`)
	assert.True(t, Check(prog).Valid())
}

func TestCheck_AccumulatesAcrossTests(t *testing.T) {
	prog := mustParse(t, `
test "A" { }
test "B" { request GET "/$missing" expect status 200 }
test "C" { request GET "/" expect status 200 expect status 201 }
`)
	report := Check(prog)
	assert.False(t, report.Valid())
	assert.Equal(t, 1, report.Count(RuleMissingRequest))
	assert.Equal(t, 2, report.Count(RuleInsufficientAssertions))
	assert.Equal(t, 1, report.Count(RuleUndefinedVariable))
	assert.Len(t, report.Errors(), 4)

	tests := []string{}
	for _, d := range report.Errors() {
		tests = append(tests, d.Test)
	}
	assert.Equal(t, []string{"A", "A", "B", "B"}, tests)
}

func TestCheck_DuplicateConfig(t *testing.T) {
	report := Check(mustParse(t, `config {} config {}`))
	assert.False(t, report.Valid())
	require.Len(t, report.Errors(), 1)
	assert.Equal(t, RuleDuplicateConfig, report.Errors()[0].Rule)
	assert.Equal(t, ast.Pos{Line: 1, Column: 11}, report.Errors()[0].Pos)
}

func TestCheck_SuspiciousInputStaysValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rule  Rule
	}{
		{"duplicate test", `test "A" { request GET "/" expect status 200 expect status 201 } test "A" { request GET "/" expect status 200 expect status 201 }`, RuleDuplicateTest},
		{"empty name", `test "" { request GET "/" expect status 200 expect status 201 }`, RuleEmptyTestName},
		{"reversed range", `test "A" { request GET "/" expect status range 500 200 expect status 201 }`, RuleInvalidRange},
		{"status too low", `test "A" { request GET "/" expect status 99 expect status 201 }`, RuleInvalidStatus},
		{"status too high", `test "A" { request GET "/x" expect status 999 expect body contains "a" }`, RuleInvalidStatus},
		{"range bound too high", `test "A" { request GET "/" expect status range 200 600 expect status 201 }`, RuleInvalidStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := Check(mustParse(t, tt.input))
			assert.True(t, report.Valid(), "%v", report.Errors())
			assert.Empty(t, report.Errors())

			warnings := report.Warnings()
			require.Len(t, warnings, 1)
			assert.Equal(t, tt.rule, warnings[0].Rule)
			assert.Equal(t, SeverityWarning, warnings[0].Severity)
		})
	}
}

func TestCheck_Warnings(t *testing.T) {
	prog := mustParse(t, `
var id = 1
var id = 2
test "Multi" {
  request GET "/a" body "ignored"
  request DELETE "/b"
  expect status 200
  expect status 204
}`)
	report := Check(prog)
	assert.True(t, report.Valid(), "warnings must not invalidate: %v", report.Errors())

	warnings := report.Warnings()
	require.Len(t, warnings, 3)
	assert.Equal(t, RuleDuplicateVariable, warnings[0].Rule)
	assert.Equal(t, ast.Pos{Line: 2, Column: 1}, warnings[0].Pos)
	assert.Equal(t, RuleAssertionsPerRequest, warnings[1].Rule)
	assert.Contains(t, warnings[1].Message, "all 2 assertions are checked after each of the 2 requests")
	assert.Equal(t, RuleBodyIgnored, warnings[2].Rule)
}

func TestCheck_DoesNotMutate(t *testing.T) {
	prog := mustParse(t, `var id = 1 test "T" { request GET "/$id" expect status 200 }`)
	before := len(prog.Items)
	tc := prog.Tests()[0]
	path := tc.Requests[0].Path

	Check(prog)
	Check(prog)

	assert.Len(t, prog.Items, before)
	assert.Equal(t, path, tc.Requests[0].Path)
	assert.Len(t, tc.Assertions, 1)
}

func TestReport_CopiesAreIndependent(t *testing.T) {
	report := Check(mustParse(t, `test "A" {}`))
	errs := report.Errors()
	require.NotEmpty(t, errs)
	errs[0].Message = "changed"
	assert.NotEqual(t, "changed", report.Errors()[0].Message)
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
}
