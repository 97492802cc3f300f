package report

import (
	"encoding/json"
	"encoding/xml"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"github.com/AndreyAkinshin/testreport/internal/analyze"
	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/junit"
	"github.com/AndreyAkinshin/testreport/internal/nunit"
	"github.com/AndreyAkinshin/testreport/internal/results"
	"github.com/AndreyAkinshin/testreport/internal/schema"
	"github.com/AndreyAkinshin/testreport/internal/testing/fixtures"
)

const argumentMessage = "Expected: <System.ArgumentException> But was: no exception thrown"

var allFormats = []string{"text", "markdown", "json", "annotations", "junit"}

func parse(t *testing.T, run *fixtures.Run) *results.Document {
	t.Helper()
	doc, err := nunit.Parse(run.XML())
	if err != nil {
		t.Fatalf("nunit.Parse() error = %v", err)
	}
	return doc
}

func render(t *testing.T, doc *results.Document, format string, opts Options) string {
	t.Helper()
	out, err := Render(doc, format, opts)
	if err != nil {
		t.Fatalf("Render(%s) error = %v", format, err)
	}
	return out
}

// failingRun has 23 passing tests, one failure and one skip.
func failingRun() *fixtures.Run {
	return fixtures.NewRun().
		WithCounts(25, 23, 1, 1, 0).
		WithResult("Failed").
		WithDuration("2.137462").
		WithPassing(23).
		WithCase(fixtures.Case{
			Name:       "LoginRejectsEmptyPassword",
			FullName:   "Game.Tests.AuthTests.LoginRejectsEmptyPassword",
			ClassName:  "Game.Tests.AuthTests",
			Result:     "Failed",
			Duration:   0.034,
			Message:    argumentMessage,
			StackTrace: "at Game.Tests.AuthTests.LoginRejectsEmptyPassword() in AuthTests.cs:line 42",
		}).
		WithCase(fixtures.Case{
			Name:      "DropAll",
			FullName:  "Game.Tests.InventoryTests.DropAll",
			ClassName: "Game.Tests.InventoryTests",
			Result:    "Skipped",
			Reason:    "Flaky on CI",
		})
}

func TestRender_FailingRun(t *testing.T) {
	t.Parallel()
	doc := parse(t, failingRun())

	text := render(t, doc, "text", Options{})
	for _, want := range []string{
		"=== Test Run Summary ===",
		"Passed: 23, Failed: 1, Skipped: 1",
		"Failed Tests:",
		"1. Game.Tests.AuthTests.LoginRejectsEmptyPassword",
		argumentMessage,
		"Skipped Tests:",
		"Flaky on CI",
		"1 of 25 tests failed.",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text report missing %q:\n%s", want, text)
		}
	}

	var rep JSONReport
	if err := json.Unmarshal([]byte(render(t, doc, "json", Options{})), &rep); err != nil {
		t.Fatalf("JSON report does not decode: %v", err)
	}
	if len(rep.Failures) != 1 {
		t.Fatalf("len(failures) = %d, want 1", len(rep.Failures))
	}
	if rep.Failures[0].Message != argumentMessage {
		t.Errorf("failures[0].message = %q, want %q", rep.Failures[0].Message, argumentMessage)
	}
	if rep.Summary.Duration != 2.137462 {
		t.Errorf("summary.duration = %v, want 2.137462", rep.Summary.Duration)
	}
}

func TestRender_EmptyRun(t *testing.T) {
	t.Parallel()
	doc := parse(t, fixtures.NewRun().WithCounts(0, 0, 0, 0, 0))

	wants := map[string]string{
		"text":        "No tests ran.",
		"markdown":    "_No tests ran._",
		"json":        `"failures": []`,
		"annotations": "notice::No tests ran",
		"junit":       `tests="0"`,
	}
	for _, format := range allFormats {
		out := render(t, doc, format, Options{})
		if !strings.Contains(out, wants[format]) {
			t.Errorf("%s report missing %q:\n%s", format, wants[format], out)
		}
	}

	text := render(t, doc, "text", Options{})
	if !strings.Contains(text, "Passed: 0, Failed: 0, Skipped: 0, Inconclusive: 0, Total: 0") {
		t.Errorf("text report missing zero counts:\n%s", text)
	}
}

func TestRender_CountMismatchNotice(t *testing.T) {
	t.Parallel()
	doc := parse(t, fixtures.NewRun().WithCounts(5, 5, 0, 0, 0).WithPassing(3))
	if len(doc.Warnings) == 0 {
		t.Fatal("expected a count mismatch warning")
	}

	const notice = "stated total 5 but 3 test cases found"
	text := render(t, doc, "text", Options{})
	if !strings.Contains(text, "warning: "+notice) {
		t.Errorf("text report missing discrepancy notice:\n%s", text)
	}
	if !strings.Contains(text, "Observed: 3 test cases") {
		t.Errorf("text report missing observed count:\n%s", text)
	}
	if md := render(t, doc, "markdown", Options{}); !strings.Contains(md, "> "+notice) {
		t.Errorf("markdown report missing discrepancy notice:\n%s", md)
	}
	if ann := render(t, doc, "annotations", Options{}); !strings.Contains(ann, "warning::"+notice) {
		t.Errorf("annotations missing discrepancy notice:\n%s", ann)
	}

	var rep JSONReport
	if err := json.Unmarshal([]byte(render(t, doc, "json", Options{})), &rep); err != nil {
		t.Fatal(err)
	}
	if rep.Summary.ObservedCases != 3 || rep.Summary.Total != 5 {
		t.Errorf("summary = %+v, want total 5 and 3 observed", rep.Summary)
	}
	if len(rep.Warnings) == 0 || !strings.Contains(rep.Warnings[0], notice) {
		t.Errorf("warnings = %q", rep.Warnings)
	}
}

func TestRender_Idempotent(t *testing.T) {
	t.Parallel()
	doc := parse(t, failingRun())
	opts := Options{Slowest: 3, Inconclusive: analyze.SeparateInconclusive}

	for _, format := range allFormats {
		first := render(t, doc, format, opts)
		second := render(t, doc, format, opts)
		if first != second {
			t.Errorf("%s output differs between renders", format)
		}
	}
}

func TestRender_Concurrent(t *testing.T) {
	t.Parallel()
	c := results.Case{Name: "B", FullName: "A.B", ClassName: "A", Status: results.StatusFailed, Message: "boom"}
	d := &Data{
		Run:    results.Run{Total: 2, Passed: 1, Failed: 1, RawResult: "failed passed"},
		Cases:  []results.Case{{Name: "P", Status: results.StatusPassed}, c},
		Failed: []results.Case{c},
	}
	renderers := []Renderer{&TextRenderer{}, &MarkdownRenderer{}}
	want := make([]string, len(renderers))
	for i, r := range renderers {
		out, err := r.Render(d)
		if err != nil {
			t.Fatalf("%s: Render() error = %v", r.Format(), err)
		}
		want[i] = out
	}

	var g errgroup.Group
	for range 8 {
		for i, r := range renderers {
			g.Go(func() error {
				for range 50 {
					out, err := r.Render(d)
					if err != nil {
						return err
					}
					if out != want[i] {
						return fmt.Errorf("%s output changed under concurrent rendering", r.Format())
					}
				}
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		t.Error(err)
	}
}

func TestText_NoFailedSectionWhenGreen(t *testing.T) {
	t.Parallel()
	doc := parse(t, fixtures.NewRun().WithPassing(4).WithCounted())

	text := render(t, doc, "text", Options{})
	if strings.Contains(text, "Failed Tests") {
		t.Errorf("green run has a failed tests section:\n%s", text)
	}
	if !strings.Contains(text, "All 4 tests passed.") {
		t.Errorf("missing success verdict:\n%s", text)
	}
}

func TestText_TruncatesMessages(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("é", 150)
	d := &Data{
		Run:    results.Run{Total: 1, Failed: 1},
		Failed: []results.Case{{Name: "Long", Status: results.StatusFailed, Message: long}},
	}

	out, err := (&TextRenderer{Width: 20}).Render(d)
	if err != nil {
		t.Fatal(err)
	}
	want := "       " + strings.Repeat("é", 17) + "...\n"
	if !strings.Contains(out, want) {
		t.Errorf("truncated line not found, output:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 100, "short"},
		{"  multi\n  line\tmessage ", 100, "multi line message"},
		{"abcdefghij", 10, "abcdefghij"},
		{"abcdefghijk", 10, "abcdefg..."},
		{"日本語のメッセージです", 6, "日本語..."},
		{"abcdef", 0, "abcdef"},
		{"", 10, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestText_Sections(t *testing.T) {
	t.Parallel()
	d := &Data{
		Run: results.Run{Total: 3, Passed: 1, Skipped: 1, Inconclusive: 1, Duration: 2},
		Cases: []results.Case{
			{Name: "A", Status: results.StatusPassed, Duration: 1.5},
			{Name: "B", Status: results.StatusSkipped, Reason: "ignored"},
			{Name: "C", Status: results.StatusInconclusive, Reason: "no data", Duration: 0.5},
		},
	}

	grouped := &Data{Run: d.Run, Cases: d.Cases}
	ex := analyze.Extract(d.Cases, analyze.GroupInconclusive)
	grouped.Skipped = ex.Skipped
	grouped.Slowest = analyze.Slowest(d.Cases, 1)
	out, _ := (&TextRenderer{}).Render(grouped)
	for _, want := range []string{"1. B", "2. C", "[Inconclusive] no data", "Slowest Tests:", "1.500s  A", "No failures: 1 passed, 2 not run."} {
		if !strings.Contains(out, want) {
			t.Errorf("grouped output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Inconclusive Tests:") {
		t.Errorf("grouped output has a separate inconclusive section:\n%s", out)
	}

	separate := &Data{Run: d.Run, Cases: d.Cases, Policy: analyze.SeparateInconclusive}
	ex = analyze.Extract(d.Cases, analyze.SeparateInconclusive)
	separate.Skipped, separate.Inconclusive = ex.Skipped, ex.Inconclusive
	out, _ = (&TextRenderer{}).Render(separate)
	if !strings.Contains(out, "Inconclusive Tests:") || strings.Contains(out, "[Inconclusive]") {
		t.Errorf("separate output:\n%s", out)
	}
}

func TestText_TitleCasesLowercaseResult(t *testing.T) {
	t.Parallel()
	d := &Data{Run: results.Run{Total: 1, Passed: 1, RawResult: "warning"}, Cases: []results.Case{{Name: "A", Status: results.StatusPassed}}}
	out, _ := (&TextRenderer{}).Render(d)
	if !strings.Contains(out, "Result:   Warning") {
		t.Errorf("result label not title-cased:\n%s", out)
	}
}

func TestMarkdown(t *testing.T) {
	t.Parallel()
	doc := parse(t, failingRun())

	md := render(t, doc, "md", Options{Slowest: 2})
	for _, want := range []string{
		"## Test Results: Failed",
		"| Metric | Value |",
		"| Passed | 23 |",
		"| Failed | 1 |",
		"### Failed Tests (1)",
		"<summary><code>Game.Tests.AuthTests.LoginRejectsEmptyPassword</code></summary>",
		"```\n" + argumentMessage + "\n```",
		"### Skipped Tests (1)",
		"- `Game.Tests.InventoryTests.DropAll`: Flaky on CI",
		"### Slowest Tests",
		"| 1 | Game.Tests.AuthTests.LoginRejectsEmptyPassword | 0.034s |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if n := strings.Count(md, "<details>"); n != 1 {
		t.Errorf("got %d details blocks, want 1", n)
	}
}

func TestMarkdown_Escaping(t *testing.T) {
	t.Parallel()
	c := results.Case{
		Name:     "Pipe",
		FullName: "A.Pipe(\"a|b\")",
		Status:   results.StatusFailed,
		Message:  "see ```code``` here",
	}
	d := &Data{Run: results.Run{Total: 1, Failed: 1, RawResult: "Failed|Bad"}, Cases: []results.Case{c}, Failed: []results.Case{c}, Slowest: []results.Case{c}}

	md, err := (&MarkdownRenderer{}).Render(d)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`## Test Results: Failed\|Bad`,
		`<code>A.Pipe(&#34;a|b&#34;)</code>`,
		"````\nsee ```code``` here\n````",
		`| 1 | A.Pipe("a\|b") | 0.000s |`,
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestInlineCode(t *testing.T) {
	t.Parallel()
	tests := []struct{ in, want string }{
		{"plain", "`plain`"},
		{"a`b", "``a`b``"},
		{"`edge", "`` `edge ``"},
	}
	for _, tt := range tests {
		if got := inlineCode(tt.in); got != tt.want {
			t.Errorf("inlineCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestJSON_Shape(t *testing.T) {
	t.Parallel()
	doc := parse(t, fixtures.NewRun().WithPassing(2).WithCounted())

	out := render(t, doc, "json", Options{})
	if !strings.HasSuffix(out, "}\n") {
		t.Errorf("JSON report does not end with a newline")
	}

	var raw map[string]any
	if err := json.Unmarshal([]byte(out), &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"summary", "failures", "skipped", "warnings"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("JSON report missing %q", key)
		}
	}
	for _, key := range []string{"inconclusive", "slowest"} {
		if _, ok := raw[key]; ok {
			t.Errorf("JSON report has unexpected %q", key)
		}
	}
	if !strings.Contains(out, `"failures": []`) || !strings.Contains(out, `"skipped": []`) {
		t.Errorf("empty sections are not empty arrays:\n%s", out)
	}
}

func TestJSON_RoundTripsNumbers(t *testing.T) {
	t.Parallel()
	c := results.Case{Name: "Slow", FullName: "A.Slow", Status: results.StatusFailed, Duration: 0.1 + 0.2, Message: "<b>&"}
	d := &Data{
		Run:     results.Run{Total: 1, Failed: 1, Duration: 1234567.000001, Result: results.OutcomeFailed},
		Cases:   []results.Case{c},
		Failed:  []results.Case{c},
		Slowest: []results.Case{c},
	}

	out, err := (&JSONRenderer{}).Render(d)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"message": "<b>&"`) {
		t.Errorf("message was HTML-escaped:\n%s", out)
	}

	var got JSONReport
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(NewJSONReport(d), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestJSON_MatchesSchema(t *testing.T) {
	t.Parallel()
	doc := parse(t, failingRun().WithCase(fixtures.Case{
		Name: "Maybe", FullName: "A.Maybe", ClassName: "A", Result: "Inconclusive", Reason: "no data",
	}))

	for _, opts := range []Options{
		{},
		{Slowest: 5, Inconclusive: analyze.SeparateInconclusive},
	} {
		out := render(t, doc, "json", opts)
		if err := schema.ValidateReport([]byte(out)); err != nil {
			t.Errorf("JSON report does not match schema (opts %+v): %v", opts, err)
		}
	}
}

func TestJUnit(t *testing.T) {
	t.Parallel()
	doc := parse(t, failingRun())

	out := render(t, doc, "xml", Options{SuiteName: "EditMode"})
	var ts junit.TestSuites
	if err := xml.Unmarshal([]byte(out), &ts); err != nil {
		t.Fatalf("JUnit output is not valid XML: %v", err)
	}
	if len(ts.Suites) != 1 {
		t.Fatalf("got %d suites, want 1", len(ts.Suites))
	}
	s := ts.Suites[0]
	if s.Name != "EditMode" || s.Tests != 25 || s.Failures != 1 || s.Skipped != 1 {
		t.Errorf("suite = %s tests=%d failures=%d skipped=%d", s.Name, s.Tests, s.Failures, s.Skipped)
	}
}

func TestJUnit_HandBuiltData(t *testing.T) {
	t.Parallel()
	c := results.Case{Name: "A", ClassName: "X", Status: results.StatusPassed}
	out, err := (&JUnitRenderer{}).Render(&Data{Run: results.Run{Total: 1, Passed: 1}, Cases: []results.Case{c}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `<testcase name="A" classname="X"`) {
		t.Errorf("output:\n%s", out)
	}
}

func TestJUnit_UnsupportedStatus(t *testing.T) {
	t.Parallel()
	doc := parse(t, fixtures.NewRun().WithCase(fixtures.Case{Name: "W", ClassName: "A", Result: "Warning"}).WithCounts(1, 0, 0, 0, 0))

	_, err := Render(doc, "junit", Options{})
	if !stderrors.Is(err, errors.ErrUnsupportedCaseStatus) {
		t.Fatalf("Render(junit) error = %v, want UnsupportedCaseStatus", err)
	}

	// The other formats pass unknown statuses through.
	for _, format := range []string{"text", "markdown", "json", "annotations"} {
		if _, err := Render(doc, format, Options{}); err != nil {
			t.Errorf("Render(%s) error = %v", format, err)
		}
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()
	r := NewRegistry(Options{})

	tests := []struct {
		name string
		want Format
	}{
		{"text", FormatText},
		{"TXT", FormatText},
		{"plain", FormatText},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{" json ", FormatJSON},
		{"annotations", FormatAnnotations},
		{"ci", FormatAnnotations},
		{"github", FormatAnnotations},
		{"junit", FormatJUnit},
		{"xml", FormatJUnit},
	}
	for _, tt := range tests {
		rd := r.Get(tt.name)
		if rd == nil {
			t.Errorf("Get(%q) = nil", tt.name)
			continue
		}
		if rd.Format() != tt.want {
			t.Errorf("Get(%q).Format() = %q, want %q", tt.name, rd.Format(), tt.want)
		}
	}

	if diff := cmp.Diff([]string{"annotations", "json", "junit", "markdown", "text"}, r.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"plain", "text", "txt"}, r.Aliases(FormatText)); diff != "" {
		t.Errorf("Aliases(text) mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistry_Unknown(t *testing.T) {
	t.Parallel()
	r := NewRegistry(Options{})

	if r.Get("html") != nil {
		t.Error("Get(html) should be nil")
	}
	_, err := r.Lookup("html")
	if err == nil {
		t.Fatal("Lookup(html) should fail")
	}
	if code := errors.GetExitCode(err); code != errors.ExitConfigError {
		t.Errorf("exit code = %d, want %d", code, errors.ExitConfigError)
	}
	if !strings.Contains(err.Error(), "annotations, json, junit, markdown, text") {
		t.Errorf("error does not list formats: %v", err)
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()
	r := NewRegistry(Options{})
	custom := &TextRenderer{Width: 10}
	r.Register("Short", custom)
	if r.Get("short") != custom {
		t.Error("registered renderer not returned")
	}
}
