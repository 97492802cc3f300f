// Package errors provides structured error types and exit codes for testreport.
package errors

import (
	"fmt"
	"strings"
)

// Exit codes returned by the testreport CLI.
const (
	ExitSuccess      = 0 // All tests passed (failed == 0)
	ExitTestsFailed  = 1 // At least one test failed
	ExitParseError   = 2 // Result document could not be used (malformed, truncated, unreadable)
	ExitConfigError  = 3 // Invalid configuration or command-line usage
	ExitRuntimeError = 4 // Anything else (e.g. writing the report failed)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindValidation
	KindIO
	KindMalformedDocument
	KindEmptyResult
	KindCountMismatch
	KindUnsupportedStatus
)

// String returns the taxonomy name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindConfig:
		return "Config"
	case KindValidation:
		return "Validation"
	case KindIO:
		return "IO"
	case KindMalformedDocument:
		return "MalformedDocument"
	case KindEmptyResult:
		return "EmptyResult"
	case KindCountMismatch:
		return "CountMismatch"
	case KindUnsupportedStatus:
		return "UnsupportedCaseStatus"
	default:
		return "Runtime"
	}
}

// ReportError is the base error type for testreport.
type ReportError struct {
	Kind    ErrorKind
	Message string
	File    string // Input file if known
	Line    int    // 1-based line in the input document, 0 if unknown
	Offset  int64  // Byte offset in the input document, -1 if unknown
	Cause   error  // Underlying error

	sentinel bool
}

// Sentinels for errors.Is. They match any ReportError of the same kind.
var (
	ErrMalformedDocument     = &ReportError{Kind: KindMalformedDocument, Message: "malformed document", Offset: -1, sentinel: true}
	ErrEmptyResult           = &ReportError{Kind: KindEmptyResult, Message: "empty result", Offset: -1, sentinel: true}
	ErrCountMismatch         = &ReportError{Kind: KindCountMismatch, Message: "count mismatch", Offset: -1, sentinel: true}
	ErrUnsupportedCaseStatus = &ReportError{Kind: KindUnsupportedStatus, Message: "unsupported case status", Offset: -1, sentinel: true}
)

func (e *ReportError) Error() string {
	var b strings.Builder
	if e.File != "" {
		b.WriteString(e.File)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	switch {
	case e.Line > 0 && e.Offset >= 0:
		fmt.Fprintf(&b, " (line %d, offset %d)", e.Line, e.Offset)
	case e.Line > 0:
		fmt.Fprintf(&b, " (line %d)", e.Line)
	case e.Offset > 0:
		fmt.Fprintf(&b, " (offset %d)", e.Offset)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *ReportError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is the sentinel for e's kind.
func (e *ReportError) Is(target error) bool {
	t, ok := target.(*ReportError)
	if !ok {
		return false
	}
	if t.sentinel {
		return t.Kind == e.Kind
	}
	return t == e
}

// ExitCode returns the appropriate exit code for this error.
func (e *ReportError) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindIO, KindMalformedDocument, KindEmptyResult, KindUnsupportedStatus:
		return ExitParseError
	case KindCountMismatch:
		return ExitTestsFailed
	default:
		return ExitRuntimeError
	}
}

// WithFile returns a copy of e annotated with the input file name.
func (e *ReportError) WithFile(file string) *ReportError {
	c := *e
	c.File = file
	c.sentinel = false
	return &c
}

// New creates a new runtime error.
func New(message string) *ReportError {
	return &ReportError{
		Kind:    KindRuntime,
		Message: message,
		Offset:  -1,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *ReportError {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *ReportError {
	return &ReportError{
		Kind:    KindConfig,
		Message: message,
		Offset:  -1,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *ReportError {
	return Config(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *ReportError {
	return &ReportError{
		Kind:    KindRuntime,
		Message: message,
		Offset:  -1,
		Cause:   err,
	}
}

// IO creates an error for an input that could not be read.
func IO(file string, err error) *ReportError {
	return &ReportError{
		Kind:    KindIO,
		Message: "cannot read result document",
		File:    file,
		Offset:  -1,
		Cause:   err,
	}
}

// Malformed creates a MalformedDocument error. line and offset may be 0 and -1
// when the position is not known.
func Malformed(message string, line int, offset int64, cause error) *ReportError {
	return &ReportError{
		Kind:    KindMalformedDocument,
		Message: message,
		Line:    line,
		Offset:  offset,
		Cause:   cause,
	}
}

// EmptyResult creates an EmptyResult error for a run that states total
// tests but contains no test cases.
func EmptyResult(statedTotal int) *ReportError {
	return &ReportError{
		Kind:    KindEmptyResult,
		Message: fmt.Sprintf("document states %d tests but contains no test cases (truncated test run?)", statedTotal),
		Offset:  -1,
	}
}

// CountMismatch creates a CountMismatch diagnostic.
func CountMismatch(format string, args ...interface{}) *ReportError {
	return &ReportError{
		Kind:    KindCountMismatch,
		Message: fmt.Sprintf(format, args...),
		Offset:  -1,
	}
}

// UnsupportedStatus creates an UnsupportedCaseStatus error.
func UnsupportedStatus(caseName, status string) *ReportError {
	return &ReportError{
		Kind:    KindUnsupportedStatus,
		Message: fmt.Sprintf("test case %q has unsupported status %q", caseName, status),
		Offset:  -1,
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if re, ok := err.(*ReportError); ok {
		return re.ExitCode()
	}
	return ExitRuntimeError
}
