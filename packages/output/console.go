package output

import (
	"fmt"
	"io"
	"os"

	"github.com/abdul-hamid-achik/apitestc/packages/core/ast"
	"github.com/fatih/color"
)

type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) FormatResult(o *Outcome) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintf(f.writer, "\n%s\n\n", bold("Compiling: "+o.File))

	if o.Program == nil {
		fmt.Fprintf(f.writer, "  %s %v\n\n", red("✗"), o.Err)
		return
	}

	f.summary(o.Program, green, red, cyan)

	for _, w := range o.Warnings {
		fmt.Fprintf(f.writer, "  %s %s\n", yellow("⚠"), w)
	}
	for _, e := range o.Errors {
		fmt.Fprintf(f.writer, "  %s %s\n", red("✗"), e)
	}
	if len(o.Warnings)+len(o.Errors) > 0 {
		fmt.Fprintf(f.writer, "\n")
	}

	switch {
	case len(o.Errors) > 0:
		fmt.Fprintf(f.writer, "%s\n", red(fmt.Sprintf("✗ Validation failed: %s", plural(len(o.Errors), "error"))))
	case o.Err != nil:
		fmt.Fprintf(f.writer, "%s %v\n", red("✗"), o.Err)
	case o.Skipped:
		fmt.Fprintf(f.writer, "%s\n", yellow("⚠ Skipping code generation (no test cases)"))
	default:
		fmt.Fprintf(f.writer, "%s %s %s\n", green("✓"), "Generated "+o.Output,
			cyan(fmt.Sprintf("(%s, %s, %s)", o.Target, plural(len(o.Program.Tests()), "test"), plural(o.Checks(), "check"))))
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) summary(prog *ast.Program, green, red, cyan func(a ...any) string) {
	if cfg := prog.Config(); cfg != nil {
		fmt.Fprintf(f.writer, "  Config:    %s\n", green("✓ present"))
		if f.verbose {
			if cfg.HasBaseURL {
				fmt.Fprintf(f.writer, "    base_url %q\n", cfg.BaseURL)
			}
			for _, h := range cfg.Headers {
				fmt.Fprintf(f.writer, "    header %q %q\n", h.Name, h.Value)
			}
		}
	} else {
		fmt.Fprintf(f.writer, "  Config:    %s\n", red("✗ not found"))
	}

	vars := prog.Variables()
	fmt.Fprintf(f.writer, "  Variables: %d\n", vars.Len())
	if f.verbose {
		for _, v := range vars.All() {
			fmt.Fprintf(f.writer, "    %s = %s\n", v.Name, formatValue(v.Value))
		}
	}

	tests := prog.Tests()
	fmt.Fprintf(f.writer, "  Tests:     %d\n", len(tests))
	for _, tc := range tests {
		fmt.Fprintf(f.writer, "    %s %s\n", tc.Name,
			cyan(fmt.Sprintf("(%s, %s)", plural(len(tc.Requests), "request"), plural(len(tc.Assertions), "assertion"))))
		if !f.verbose {
			continue
		}
		for _, req := range tc.Requests {
			fmt.Fprintf(f.writer, "      - %s %s\n", req.Method, req.Path)
		}
		for _, a := range tc.Assertions {
			fmt.Fprintf(f.writer, "      - expect %s\n", a)
		}
	}
	fmt.Fprintf(f.writer, "\n")
}

func (f *ConsoleFormatter) FormatError(err error) {
	red := color.New(color.FgRed).SprintFunc()
	fmt.Fprintf(f.writer, "%s %v\n", red("Error:"), err)
}

func (f *ConsoleFormatter) FormatHeader(version string) {
	bold := color.New(color.Bold).SprintFunc()
	fmt.Fprintf(f.writer, "%s %s\n", bold("apitestc"), version)
}

// formatValue shows text values quoted and integers bare.
func formatValue(v ast.Value) string {
	if v.Kind() == ast.KindText {
		return fmt.Sprintf("%q", v.String())
	}
	return v.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
