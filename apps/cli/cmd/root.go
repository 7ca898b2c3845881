package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abdul-hamid-achik/apitestc/packages/codegen"
	"github.com/abdul-hamid-achik/apitestc/packages/core/compiler"
	"github.com/abdul-hamid-achik/apitestc/packages/core/config"
	"github.com/abdul-hamid-achik/apitestc/packages/output"
	"github.com/spf13/cobra"
	"github.com/taybart/log"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

const usageLine = "Usage: apitestc <input.test>"

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apitestc <input.test>",
		Short: "Compile API test specs into runnable test suites.",
		Long: `apitestc reads a .test file describing HTTP requests and the
assertions their responses must satisfy, validates it, and writes an
executable test suite (Go testing by default, or JUnit 5).

Settings come from .apitestc.yaml or .apitestc.json next to the input
file or in the working directory, and from APITESTC_* environment
variables (a .env file in the same places may set them too).

Example:
  apitestc users.test`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return &UsageError{Err: err}
			}
			return nil
		},
		RunE:          compileCommand,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI with args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	err := root.Execute()

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "Error: %v\n%s\n", usageErr.Err, usageLine)
	}
	return exitCode(err)
}

func compileCommand(cmd *cobra.Command, args []string) error {
	input := args[0]

	cfg, cfgPath, err := config.Load(filepath.Dir(input), ".")
	if err != nil {
		err = &ConfigError{Path: cfgPath, Err: err}
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	setupLogging(cfg, cmd.ErrOrStderr())
	if cfgPath != "" {
		log.Verbosef("using config %s\n", cfgPath)
	}

	formatter, err := output.New(cfg.Format, cmd.OutOrStdout(), cfg.GetVerbose(), cfg.GetNoColor())
	if err != nil {
		err = &ConfigError{Path: cfgPath, Err: err}
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	if f, ok := formatter.(output.Flushable); ok {
		defer f.Flush()
	}
	if cfg.GetVerbose() {
		formatter.FormatHeader(version)
	}

	target, err := codegen.LookupTarget(cfg.Target)
	if err != nil {
		err = &ConfigError{Path: cfgPath, Err: err}
		formatter.FormatError(err)
		return err
	}

	data, err := os.ReadFile(input)
	if err != nil {
		err = &IOError{Op: "read", Path: input, Err: err}
		formatter.FormatResult(&output.Outcome{File: input, Stage: output.StageRead, Err: err})
		return err
	}

	connect, request := cfg.Timeouts()
	res, err := compiler.Compile(string(data), input, compiler.Options{
		TraceTokens: cfg.GetVerbose(),
		Codegen: []codegen.Option{
			codegen.WithTarget(target),
			codegen.WithPackage(cfg.Package),
			codegen.WithClassName(cfg.ClassName),
			codegen.WithFallbackBaseURL(cfg.FallbackBaseURL),
			codegen.WithTimeouts(connect, request),
			codegen.WithVersion(version),
		},
	})
	outcome := output.NewOutcome(input, res, err)
	if err != nil {
		formatter.FormatResult(outcome)
		return err
	}

	if len(res.Program.Tests()) == 0 {
		outcome.Skipped = true
		formatter.FormatResult(outcome)
		return nil
	}

	outPath := cfg.OutputPath(input, target.FileName)
	if err := writeOutput(outPath, res.Output); err != nil {
		outcome.Err = err
		outcome.Stage = output.StageWrite
		formatter.FormatResult(outcome)
		return err
	}
	outcome.Output = outPath
	formatter.FormatResult(outcome)
	return nil
}

func writeOutput(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// setupLogging sends the verbose trace to w so it never mixes with the
// report on stdout.
func setupLogging(cfg *config.Config, w io.Writer) {
	log.SetOutputWriter(w)
	log.SetPlain()
	log.SetLevel(log.WARN)
	if cfg.GetVerbose() {
		log.SetLevel(log.VERBOSE)
	}
	if cfg.GetNoColor() {
		log.UseColors(false)
	}
	log.Verbosef("apitestc %s (built %s)\n", version, buildTime)
}
