// Package results holds the parsed form of one test run: the run summary,
// the suite tree and the flat sequence of test cases.
package results

import (
	"strings"
)

// Status is the outcome of a single test case.
type Status int

const (
	// StatusUnknown marks a status label outside the closed set. The raw
	// label is kept in Case.RawStatus and passed through by renderers.
	StatusUnknown Status = iota
	StatusPassed
	StatusFailed
	StatusSkipped
	StatusInconclusive
)

// String returns the canonical label of the status.
func (s Status) String() string {
	switch s {
	case StatusPassed:
		return "Passed"
	case StatusFailed:
		return "Failed"
	case StatusSkipped:
		return "Skipped"
	case StatusInconclusive:
		return "Inconclusive"
	default:
		return "Unknown"
	}
}

// ParseStatus maps a result attribute to a Status. Matching is case
// insensitive. The second return value is false for labels outside the
// closed set.
func ParseStatus(label string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "passed":
		return StatusPassed, true
	case "failed":
		return StatusFailed, true
	case "skipped":
		return StatusSkipped, true
	case "inconclusive":
		return StatusInconclusive, true
	default:
		return StatusUnknown, false
	}
}

// Outcome is the overall result of a test run.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomePassed
	OutcomeFailed
	OutcomeInconclusive
)

// String returns the canonical label of the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomePassed:
		return "Passed"
	case OutcomeFailed:
		return "Failed"
	case OutcomeInconclusive:
		return "Inconclusive"
	default:
		return "Unknown"
	}
}

// ParseOutcome maps a test-run result attribute to an Outcome. NUnit may
// append a site in parentheses (e.g. "Failed(Child)"); it is ignored.
func ParseOutcome(label string) (Outcome, bool) {
	l := strings.TrimSpace(label)
	if i := strings.IndexByte(l, '('); i >= 0 {
		l = l[:i]
	}
	if i := strings.IndexByte(l, ':'); i >= 0 {
		l = l[:i]
	}
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "passed":
		return OutcomePassed, true
	case "failed":
		return OutcomeFailed, true
	case "inconclusive":
		return OutcomeInconclusive, true
	default:
		return OutcomeUnknown, false
	}
}

// Run is the root summary record of one test execution.
type Run struct {
	Total        int
	Passed       int
	Failed       int
	Skipped      int
	Inconclusive int
	Duration     float64 // seconds
	Result       Outcome
	RawResult    string // result attribute as written in the document
	StartTime    string // start-time attribute, verbatim
	EndTime      string // end-time attribute, verbatim
}

// Consistent reports whether Total equals the sum of the per-status counts.
func (r Run) Consistent() bool {
	return r.Total == r.Passed+r.Failed+r.Skipped+r.Inconclusive
}

// ResultLabel returns the label to display for the run's overall result.
func (r Run) ResultLabel() string {
	if r.Result == OutcomeUnknown && r.RawResult != "" {
		return r.RawResult
	}
	return r.Result.String()
}

// Case is one leaf test outcome.
type Case struct {
	Name       string
	FullName   string
	ClassName  string
	Status     Status
	RawStatus  string // result attribute as written in the document
	Label      string // optional NUnit label (e.g. "Error", "Ignored")
	Duration   float64
	Asserts    int
	Message    string // failure message (Failed)
	StackTrace string // failure stack trace (Failed)
	Reason     string // reason message (Skipped, Inconclusive)
	Output     string // captured test output, if any
}

// DisplayName returns the fully-qualified name, falling back to the short name.
func (c Case) DisplayName() string {
	if c.FullName != "" {
		return c.FullName
	}
	return c.Name
}

// StatusLabel returns the label to display for the case's status. Unknown
// statuses are passed through as written.
func (c Case) StatusLabel() string {
	if c.Status == StatusUnknown && c.RawStatus != "" {
		return c.RawStatus
	}
	return c.Status.String()
}

// Detail returns the free-text message attached to the case: the failure
// message for failed cases and the reason otherwise.
func (c Case) Detail() string {
	if c.Status == StatusFailed || c.Message != "" {
		return c.Message
	}
	return c.Reason
}
