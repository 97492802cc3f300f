// Package nunit parses NUnit 3 test-result XML (as written by the NUnit
// console, Unity's Test Runner and the dotnet NUnit logger) into
// results.Document values.
package nunit

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/results"
)

// Element names of the NUnit 3 result schema.
const (
	elemRun   = "test-run"
	elemSuite = "test-suite"
	elemCase  = "test-case"
)

// leafElements never contain test suites or cases and are skipped whole.
// Any other unrecognized element is walked through so that cases nested
// under it are still found.
var leafElements = map[string]bool{
	"command-line": true,
	"filter":       true,
	"settings":     true,
	"properties":   true,
	"environment":  true,
	"failure":      true,
	"reason":       true,
	"output":       true,
	"assertions":   true,
	"attachments":  true,
}

type options struct {
	allowEmpty bool
	maxBytes   int64
}

// Option configures Parse.
type Option func(*options)

// AllowEmpty downgrades EmptyResult (no test cases although the summary
// states a nonzero total) from a fatal error to a document warning.
func AllowEmpty() Option {
	return func(o *options) { o.allowEmpty = true }
}

// MaxBytes rejects documents larger than n bytes. n <= 0 disables the limit.
func MaxBytes(n int64) Option {
	return func(o *options) { o.maxBytes = n }
}

type xmlFailure struct {
	Message    string `xml:"message"`
	StackTrace string `xml:"stack-trace"`
}

type xmlReason struct {
	Message string `xml:"message"`
}

type xmlCase struct {
	Name      string      `xml:"name,attr"`
	FullName  string      `xml:"fullname,attr"`
	ClassName string      `xml:"classname,attr"`
	Result    string      `xml:"result,attr"`
	Label     string      `xml:"label,attr"`
	Duration  string      `xml:"duration,attr"`
	Asserts   string      `xml:"asserts,attr"`
	Failure   *xmlFailure `xml:"failure"`
	Reason    *xmlReason  `xml:"reason"`
	Output    string      `xml:"output"`
}

// ParseReader reads a whole result document from r and parses it.
func ParseReader(r io.Reader, opts ...Option) (*results.Document, error) {
	o := buildOptions(opts)
	if o.maxBytes > 0 {
		r = io.LimitReader(r, o.maxBytes+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.IO("", err)
	}
	return parse(data, o)
}

// Parse parses one result document.
//
// It fails with a MalformedDocument error when data is not well-formed XML
// or has no test-run root element, and with an EmptyResult error when the
// run states a nonzero total but contains no test cases. Disagreements
// between the stated counts and the observed cases do not fail the parse;
// they are recorded as CountMismatch entries in Document.Warnings.
func Parse(data []byte, opts ...Option) (*results.Document, error) {
	return parse(data, buildOptions(opts))
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func parse(data []byte, o options) (*results.Document, error) {
	if o.maxBytes > 0 && int64(len(data)) > o.maxBytes {
		return nil, errors.Malformed(fmt.Sprintf("document exceeds the %d byte limit", o.maxBytes), 0, -1, nil)
	}

	data, err := normalizeEncoding(data)
	if err != nil {
		return nil, errors.Malformed("cannot decode document", 0, -1, err)
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = charsetReader

	doc := &results.Document{Root: &results.Suite{Name: elemRun}}
	stack := []*results.Suite{doc.Root}
	sawRun := false

	for {
		start := dec.InputOffset()
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, syntaxError(data, dec, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !sawRun && t.Name.Local != elemRun {
				return nil, errors.Malformed(
					fmt.Sprintf("root element is <%s>, expected <%s>", t.Name.Local, elemRun),
					lineAt(data, start), start, nil)
			}

			switch t.Name.Local {
			case elemRun:
				if sawRun {
					return nil, errors.Malformed("nested <test-run> element", lineAt(data, start), start, nil)
				}
				run, err := parseRun(t.Attr)
				if err != nil {
					return nil, errors.Malformed(err.Error(), lineAt(data, start), start, nil)
				}
				doc.Run = run
				sawRun = true

			case elemSuite:
				s := &results.Suite{
					Name:     attr(t.Attr, "name"),
					FullName: attr(t.Attr, "fullname"),
					Type:     attr(t.Attr, "type"),
				}
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, s)
				stack = append(stack, s)

			case elemCase:
				var xc xmlCase
				if err := dec.DecodeElement(&xc, &t); err != nil {
					return nil, syntaxError(data, dec, err)
				}
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, &results.Leaf{Case: toCase(xc)})

			default:
				if !leafElements[t.Name.Local] {
					continue
				}
				if err := dec.Skip(); err != nil {
					return nil, syntaxError(data, dec, err)
				}
			}

		case xml.EndElement:
			if t.Name.Local == elemSuite && len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}

	if !sawRun {
		return nil, errors.Malformed("document has no <test-run> element", 0, -1, nil)
	}

	if err := checkCounts(doc, o); err != nil {
		return nil, err
	}
	return doc, nil
}

// checkCounts compares the stated summary with the observed cases.
func checkCounts(doc *results.Document, o options) error {
	run := doc.Run
	cases := doc.CaseList()
	observed := len(cases)

	switch {
	case observed == 0 && run.Total > 0:
		empty := errors.EmptyResult(run.Total)
		if !o.allowEmpty {
			return empty
		}
		doc.Warnings = append(doc.Warnings, empty)
	case observed != run.Total:
		doc.Warnings = append(doc.Warnings, errors.CountMismatch(
			"stated total %d but %d test cases found", run.Total, observed))
	default:
		p, f, s, i, _ := results.Tally(cases)
		if p != run.Passed || f != run.Failed || s != run.Skipped || i != run.Inconclusive {
			doc.Warnings = append(doc.Warnings, errors.CountMismatch(
				"stated passed/failed/skipped/inconclusive %d/%d/%d/%d but observed %d/%d/%d/%d",
				run.Passed, run.Failed, run.Skipped, run.Inconclusive, p, f, s, i))
		}
	}

	if !run.Consistent() {
		doc.Warnings = append(doc.Warnings, errors.CountMismatch(
			"stated total %d does not equal passed+failed+skipped+inconclusive (%d)",
			run.Total, run.Passed+run.Failed+run.Skipped+run.Inconclusive))
	}
	return nil
}

func parseRun(attrs []xml.Attr) (results.Run, error) {
	var run results.Run
	counts := []struct {
		name string
		dst  *int
	}{
		{"total", &run.Total},
		{"passed", &run.Passed},
		{"failed", &run.Failed},
		{"skipped", &run.Skipped},
		{"inconclusive", &run.Inconclusive},
	}
	for _, c := range counts {
		v := strings.TrimSpace(attr(attrs, c.name))
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return run, fmt.Errorf("attribute %s=%q of <test-run> is not a non-negative integer", c.name, v)
		}
		*c.dst = n
	}

	if v := strings.TrimSpace(attr(attrs, "duration")); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return run, fmt.Errorf("attribute duration=%q of <test-run> is not a number", v)
		}
		run.Duration = d
	}

	run.RawResult = attr(attrs, "result")
	run.Result, _ = results.ParseOutcome(run.RawResult)
	run.StartTime = attr(attrs, "start-time")
	run.EndTime = attr(attrs, "end-time")
	return run, nil
}

func toCase(xc xmlCase) results.Case {
	c := results.Case{
		Name:      xc.Name,
		FullName:  xc.FullName,
		ClassName: xc.ClassName,
		RawStatus: xc.Result,
		Label:     xc.Label,
		Output:    strings.TrimSpace(xc.Output),
	}
	c.Status, _ = results.ParseStatus(xc.Result)

	if c.ClassName == "" && c.Name != "" && strings.HasSuffix(c.FullName, "."+c.Name) {
		c.ClassName = strings.TrimSuffix(c.FullName, "."+c.Name)
	}

	// Durations and assert counts are informational; unparsable values are
	// tolerated as zero.
	if d, err := strconv.ParseFloat(strings.TrimSpace(xc.Duration), 64); err == nil {
		c.Duration = d
	}
	if n, err := strconv.Atoi(strings.TrimSpace(xc.Asserts)); err == nil {
		c.Asserts = n
	}

	if xc.Failure != nil {
		c.Message = strings.TrimSpace(xc.Failure.Message)
		c.StackTrace = strings.TrimSpace(xc.Failure.StackTrace)
	}
	if xc.Reason != nil {
		c.Reason = strings.TrimSpace(xc.Reason.Message)
	}
	return c
}

func attr(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// syntaxError converts a decoder error into a MalformedDocument error,
// keeping the line number reported by encoding/xml when available.
func syntaxError(data []byte, dec *xml.Decoder, err error) error {
	offset := dec.InputOffset()
	if se, ok := err.(*xml.SyntaxError); ok {
		return errors.Malformed("malformed document", se.Line, offset, err)
	}
	return errors.Malformed("malformed document", lineAt(data, offset), offset, err)
}

// lineAt returns the 1-based line number of the byte at offset.
func lineAt(data []byte, offset int64) int {
	if offset < 0 {
		return 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte{'\n'}) + 1
}
