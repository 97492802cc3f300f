// Package report renders parsed test runs as plain text, Markdown, JSON,
// CI annotations and JUnit XML.
//
// Rendering is pure: renderers never perform I/O and produce byte-identical
// output for identical input.
package report

import (
	"strconv"

	"github.com/AndreyAkinshin/testreport/internal/analyze"
	"github.com/AndreyAkinshin/testreport/internal/results"
)

// DefaultMessageWidth is the rune budget for failure messages in the
// plain-text report.
const DefaultMessageWidth = 100

// Options configures report assembly and the renderers.
type Options struct {
	Inconclusive    analyze.InconclusivePolicy
	Slowest         int    // number of slowest tests to list; 0 omits the section
	MessageWidth    int    // plain text only; <= 0 means DefaultMessageWidth
	Color           bool   // plain text only
	AnnotationStyle AnnotationStyle
	PathPrefix      string // stripped from annotation file paths
	SuiteName       string // JUnit testsuite name override
}

// Data is everything a renderer needs: the run summary, the flat case
// list and the sections derived from it.
type Data struct {
	Run          results.Run
	Cases        []results.Case
	Failed       []results.Case
	Skipped      []results.Case
	Inconclusive []results.Case
	Slowest      []results.Case
	Warnings     []string
	Policy       analyze.InconclusivePolicy

	doc *results.Document
}

// Build assembles report data from a parsed document.
func Build(doc *results.Document, opts Options) *Data {
	cases := doc.CaseList()
	ex := analyze.Extract(cases, opts.Inconclusive)

	warnings := make([]string, 0, len(doc.Warnings))
	for _, w := range doc.Warnings {
		warnings = append(warnings, w.Error())
	}

	return &Data{
		Run:          doc.Run,
		Cases:        cases,
		Failed:       ex.Failed,
		Skipped:      ex.Skipped,
		Inconclusive: ex.Inconclusive,
		Slowest:      analyze.Slowest(cases, opts.Slowest),
		Warnings:     warnings,
		Policy:       opts.Inconclusive,
		doc:          doc,
	}
}

// Total returns the stated total, or the observed case count when the
// document understates it.
func (d *Data) Total() int {
	return max(d.Run.Total, len(d.Cases))
}

// FailedCount returns the number of failed tests, taking the larger of the
// stated and observed values so that a failure is never hidden.
func (d *Data) FailedCount() int {
	return max(d.Run.Failed, len(d.Failed))
}

// HasFailures reports whether the run failed.
func (d *Data) HasFailures() bool {
	return d.FailedCount() > 0
}

// Empty reports whether no tests ran.
func (d *Data) Empty() bool {
	return d.Run.Total == 0 && len(d.Cases) == 0
}

// Render builds report data from doc and renders it in the named format.
func Render(doc *results.Document, format string, opts Options) (string, error) {
	r, err := NewRegistry(opts).Lookup(format)
	if err != nil {
		return "", err
	}
	return r.Render(Build(doc, opts))
}

func formatSeconds(d float64) string {
	return strconv.FormatFloat(d, 'f', 3, 64) + "s"
}
