package cmd

// Exit codes for apitestc CLI
const (
	// ExitSuccess indicates the suite was generated, or there was nothing
	// to generate
	ExitSuccess = 0

	// ExitFailure indicates any failure: bad usage, unreadable input or
	// config, a lex, parse or semantic error, or an unwritable output file
	ExitFailure = 1
)

func exitCode(err error) int {
	if err != nil {
		return ExitFailure
	}
	return ExitSuccess
}
