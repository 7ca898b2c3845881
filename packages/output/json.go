package output

import (
	"encoding/json"
	"io"
	"os"

	"github.com/abdul-hamid-achik/apitestc/packages/core/checker"
)

// JSONOutput represents the complete JSON output structure
type JSONOutput struct {
	File     string           `json:"file"`
	Valid    bool             `json:"valid"`
	Stage    string           `json:"stage,omitempty"`
	Error    string           `json:"error,omitempty"`
	Errors   []JSONDiagnostic `json:"errors"`
	Warnings []JSONDiagnostic `json:"warnings"`
	Summary  *JSONSummary     `json:"summary,omitempty"`
	Target   string           `json:"target,omitempty"`
	Output   string           `json:"output,omitempty"`
	Skipped  bool             `json:"skipped,omitempty"`
}

// JSONSummary describes the parsed program
type JSONSummary struct {
	Config    bool       `json:"config"`
	BaseURL   string     `json:"baseUrl,omitempty"`
	Variables int        `json:"variables"`
	Tests     []JSONTest `json:"tests"`
	Checks    int        `json:"checks"`
}

// JSONTest represents a single test case
type JSONTest struct {
	Name       string `json:"name"`
	Line       int    `json:"line"`
	Requests   int    `json:"requests"`
	Assertions int    `json:"assertions"`
}

// JSONDiagnostic represents a checker error or warning
type JSONDiagnostic struct {
	Rule    string `json:"rule"`
	Test    string `json:"test,omitempty"`
	Field   string `json:"field,omitempty"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
}

// JSONFormatter writes one JSON document per run on Flush
type JSONFormatter struct {
	writer io.Writer
	output *JSONOutput
}

type JSONOption func(*JSONFormatter)

func NewJSONFormatter(opts ...JSONOption) *JSONFormatter {
	f := &JSONFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func JSONWithWriter(w io.Writer) JSONOption {
	return func(f *JSONFormatter) {
		f.writer = w
	}
}

func (f *JSONFormatter) FormatResult(o *Outcome) {
	out := &JSONOutput{
		File:     o.File,
		Valid:    o.Valid(),
		Stage:    string(o.Stage),
		Errors:   diagnostics(o.Errors),
		Warnings: diagnostics(o.Warnings),
		Target:   o.Target,
		Output:   o.Output,
		Skipped:  o.Skipped,
	}
	if o.Err != nil {
		out.Error = o.Err.Error()
	}

	if prog := o.Program; prog != nil {
		summary := &JSONSummary{
			Variables: prog.Variables().Len(),
			Tests:     make([]JSONTest, 0),
			Checks:    o.Checks(),
		}
		if cfg := prog.Config(); cfg != nil {
			summary.Config = true
			summary.BaseURL = cfg.BaseURL
		}
		for _, tc := range prog.Tests() {
			summary.Tests = append(summary.Tests, JSONTest{
				Name:       tc.Name,
				Line:       tc.Pos.Line,
				Requests:   len(tc.Requests),
				Assertions: len(tc.Assertions),
			})
		}
		out.Summary = summary
	}
	f.output = out
}

// FormatError records a failure that happened outside compilation, such
// as an unreadable input file.
func (f *JSONFormatter) FormatError(err error) {
	if f.output == nil {
		f.output = &JSONOutput{Errors: []JSONDiagnostic{}, Warnings: []JSONDiagnostic{}}
	}
	f.output.Valid = false
	f.output.Error = err.Error()
}

func (f *JSONFormatter) FormatHeader(version string) {
	// No header needed for JSON output
}

// Flush writes the accumulated JSON output
func (f *JSONFormatter) Flush() error {
	if f.output == nil {
		return nil
	}
	encoder := json.NewEncoder(f.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(f.output)
}

func diagnostics(ds []checker.Diagnostic) []JSONDiagnostic {
	out := make([]JSONDiagnostic, 0, len(ds))
	for _, d := range ds {
		out = append(out, JSONDiagnostic{
			Rule:    string(d.Rule),
			Test:    d.Test,
			Field:   d.Field,
			Line:    d.Pos.Line,
			Column:  d.Pos.Column,
			Message: d.Message,
		})
	}
	return out
}
