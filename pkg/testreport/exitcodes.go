// Package testreport provides public constants for tools wrapping the
// testreport CLI.
package testreport

// Exit codes returned by the testreport CLI.
// These constants allow external tools to check exit codes symbolically
// rather than using magic numbers.
const (
	// ExitSuccess indicates every input was parsed and no test failed.
	ExitSuccess = 0

	// ExitTestsFailed indicates at least one input reported failed tests
	// (or a count discrepancy under --strict).
	ExitTestsFailed = 1

	// ExitParseError indicates an input could not be parsed (malformed XML,
	// truncated run, unreadable file, unsupported status in JUnit output).
	ExitParseError = 2

	// ExitConfigError indicates invalid configuration or command-line usage.
	ExitConfigError = 3

	// ExitRuntimeError indicates any other failure, such as an unwritable output file.
	ExitRuntimeError = 4
)
