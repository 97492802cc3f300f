// Package junit converts parsed NUnit results into JUnit XML for tools that
// only understand the JUnit schema.
package junit

import (
	"encoding/xml"
	"strconv"
	"time"

	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/results"
)

// TestSuites is the root element of the JUnit document.
type TestSuites struct {
	XMLName  xml.Name    `xml:"testsuites"`
	Name     string      `xml:"name,attr,omitempty"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Errors   int         `xml:"errors,attr"`
	Skipped  int         `xml:"skipped,attr"`
	Time     string      `xml:"time,attr"`
	Suites   []TestSuite `xml:"testsuite"`
}

// TestSuite carries the aggregate counts of the converted run.
type TestSuite struct {
	Name       string     `xml:"name,attr"`
	Tests      int        `xml:"tests,attr"`
	Failures   int        `xml:"failures,attr"`
	Errors     int        `xml:"errors,attr"`
	Skipped    int        `xml:"skipped,attr"`
	Assertions int        `xml:"assertions,attr"`
	Time       string     `xml:"time,attr"`
	Timestamp  string     `xml:"timestamp,attr,omitempty"`
	Cases      []TestCase `xml:"testcase"`
}

// TestCase is one converted test case.
type TestCase struct {
	Name       string   `xml:"name,attr"`
	ClassName  string   `xml:"classname,attr"`
	Time       string   `xml:"time,attr"`
	Assertions int      `xml:"assertions,attr"`
	Failure    *Failure `xml:"failure,omitempty"`
	Skipped    *Skipped `xml:"skipped,omitempty"`
	SystemOut  *Output  `xml:"system-out,omitempty"`
}

// Failure marks a failed test case. Body holds the stack trace.
type Failure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr,omitempty"`
	Body    string `xml:",chardata"`
}

// Skipped marks a test case that did not run to a verdict.
type Skipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// Output holds captured test output.
type Output struct {
	Content string `xml:",chardata"`
}

// Options configures the conversion.
type Options struct {
	// SuiteName overrides the name of the generated testsuite. By default the
	// name of the first top-level NUnit suite is used.
	SuiteName string
}

const defaultSuiteName = "test-run"

// Convert translates doc into a JUnit document with exactly one testsuite.
// It fails with UnsupportedCaseStatus when a case has a status outside
// Passed, Failed, Skipped and Inconclusive.
func Convert(doc *results.Document, opts Options) (*TestSuites, error) {
	suite := TestSuite{
		Name:      suiteName(doc, opts),
		Time:      seconds(doc.Run.Duration),
		Timestamp: timestamp(doc.Run.StartTime),
		Cases:     []TestCase{},
	}

	for c := range doc.Cases() {
		tc := TestCase{
			Name:       c.Name,
			ClassName:  c.ClassName,
			Time:       seconds(c.Duration),
			Assertions: c.Asserts,
		}

		switch c.Status {
		case results.StatusPassed:
		case results.StatusFailed:
			tc.Failure = &Failure{Message: c.Message, Type: c.Label, Body: c.StackTrace}
			suite.Failures++
		case results.StatusSkipped, results.StatusInconclusive:
			tc.Skipped = &Skipped{Message: c.Reason}
			suite.Skipped++
		default:
			return nil, errors.UnsupportedStatus(c.DisplayName(), c.RawStatus)
		}

		if c.Output != "" {
			tc.SystemOut = &Output{Content: c.Output}
		}

		suite.Tests++
		suite.Assertions += c.Asserts
		suite.Cases = append(suite.Cases, tc)
	}

	return &TestSuites{
		Name:     suite.Name,
		Tests:    suite.Tests,
		Failures: suite.Failures,
		Errors:   suite.Errors,
		Skipped:  suite.Skipped,
		Time:     suite.Time,
		Suites:   []TestSuite{suite},
	}, nil
}

// Marshal renders the document with an XML header and two-space indentation.
func Marshal(ts *TestSuites) ([]byte, error) {
	body, err := xml.MarshalIndent(ts, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode JUnit XML")
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

func suiteName(doc *results.Document, opts Options) string {
	if opts.SuiteName != "" {
		return opts.SuiteName
	}
	if doc.Root != nil {
		for _, n := range doc.Root.Children {
			if s, ok := n.(*results.Suite); ok && s.Name != "" {
				return s.Name
			}
		}
	}
	return defaultSuiteName
}

func seconds(d float64) string {
	return strconv.FormatFloat(d, 'f', -1, 64)
}

// NUnit writes "2024-05-14 09:21:03Z"; JUnit consumers expect ISO 8601
// without a zone designator.
var timestampLayouts = []string{
	"2006-01-02 15:04:05Z",
	"2006-01-02 15:04:05.999999999Z",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func timestamp(start string) string {
	if start == "" {
		return ""
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, start); err == nil {
			return t.UTC().Format("2006-01-02T15:04:05")
		}
	}
	return start
}
