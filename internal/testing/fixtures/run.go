// Package fixtures builds NUnit result documents for tests.
package fixtures

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
)

// Case describes one test-case element.
type Case struct {
	Name       string
	FullName   string
	ClassName  string
	Result     string
	Duration   float64
	Asserts    int
	Message    string
	StackTrace string
	Reason     string
}

// Run builds a test-run document with a fluent API.
// Cases are placed in one fixture per distinct ClassName, in first-seen order.
type Run struct {
	total, passed, failed, skipped, inconclusive int
	duration                                     string
	result                                       string
	startTime, endTime                           string
	cases                                        []Case
}

// NewRun creates an empty passing run.
func NewRun() *Run {
	return &Run{
		duration:  "0",
		result:    "Passed",
		startTime: "2024-05-14 09:21:03Z",
		endTime:   "2024-05-14 09:21:05Z",
	}
}

// WithCounts sets the stated summary counts.
func (r *Run) WithCounts(total, passed, failed, skipped, inconclusive int) *Run {
	r.total, r.passed, r.failed, r.skipped, r.inconclusive = total, passed, failed, skipped, inconclusive
	return r
}

// WithDuration sets the duration attribute verbatim.
func (r *Run) WithDuration(d string) *Run {
	r.duration = d
	return r
}

// WithResult sets the overall result attribute.
func (r *Run) WithResult(result string) *Run {
	r.result = result
	return r
}

// WithCase appends a test case.
func (r *Run) WithCase(c Case) *Run {
	r.cases = append(r.cases, c)
	return r
}

// WithPassing appends n passing cases named Pass1..PassN in class Fixtures.Passing.
func (r *Run) WithPassing(n int) *Run {
	for i := 1; i <= n; i++ {
		name := fmt.Sprintf("Pass%d", i)
		r.cases = append(r.cases, Case{
			Name:      name,
			FullName:  "Fixtures.Passing." + name,
			ClassName: "Fixtures.Passing",
			Result:    "Passed",
			Duration:  0.01,
			Asserts:   1,
		})
	}
	return r
}

// WithCounted sets the stated counts from the cases added so far.
func (r *Run) WithCounted() *Run {
	r.total, r.passed, r.failed, r.skipped, r.inconclusive = 0, 0, 0, 0, 0
	for _, c := range r.cases {
		r.total++
		switch c.Result {
		case "Passed":
			r.passed++
		case "Failed":
			r.failed++
		case "Skipped":
			r.skipped++
		case "Inconclusive":
			r.inconclusive++
		}
	}
	if r.failed > 0 {
		r.result = "Failed"
	}
	return r
}

// XML renders the document.
func (r *Run) XML() []byte {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0" encoding="utf-8"?>` + "\n")
	fmt.Fprintf(&b, `<test-run id="2" result=%s total="%d" passed="%d" failed="%d" skipped="%d" inconclusive="%d" duration=%s start-time=%s end-time=%s>`+"\n",
		quote(r.result), r.total, r.passed, r.failed, r.skipped, r.inconclusive,
		quote(r.duration), quote(r.startTime), quote(r.endTime))

	var order []string
	byClass := make(map[string][]Case)
	for _, c := range r.cases {
		if _, ok := byClass[c.ClassName]; !ok {
			order = append(order, c.ClassName)
		}
		byClass[c.ClassName] = append(byClass[c.ClassName], c)
	}

	for _, class := range order {
		fmt.Fprintf(&b, `  <test-suite type="TestFixture" name=%s fullname=%s>`+"\n", quote(class), quote(class))
		for _, c := range byClass[class] {
			writeCase(&b, c)
		}
		b.WriteString("  </test-suite>\n")
	}
	b.WriteString("</test-run>\n")
	return b.Bytes()
}

func writeCase(b *bytes.Buffer, c Case) {
	fmt.Fprintf(b, `    <test-case name=%s fullname=%s classname=%s result=%s duration=%s asserts="%d">`+"\n",
		quote(c.Name), quote(c.FullName), quote(c.ClassName), quote(c.Result),
		quote(strconv.FormatFloat(c.Duration, 'f', -1, 64)), c.Asserts)
	if c.Message != "" || c.StackTrace != "" {
		b.WriteString("      <failure>\n")
		fmt.Fprintf(b, "        <message>%s</message>\n", escape(c.Message))
		if c.StackTrace != "" {
			fmt.Fprintf(b, "        <stack-trace>%s</stack-trace>\n", escape(c.StackTrace))
		}
		b.WriteString("      </failure>\n")
	}
	if c.Reason != "" {
		fmt.Fprintf(b, "      <reason><message>%s</message></reason>\n", escape(c.Reason))
	}
	b.WriteString("    </test-case>\n")
}

func quote(s string) string {
	return `"` + escape(s) + `"`
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
