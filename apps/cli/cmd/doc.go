// Package cmd implements the apitestc command line using Cobra.
//
// The command takes exactly one argument, the .test file to compile:
//
//	apitestc users.test
//
// It loads the configuration, compiles the file and writes the generated
// suite next to it. The process exits with 0 on success and 1 on any
// failure.
package cmd
