package report

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/AndreyAkinshin/testreport/internal/analyze"
	"github.com/AndreyAkinshin/testreport/internal/results"
)

// MarkdownRenderer renders a GitHub-flavored Markdown summary suitable for
// pull-request comments and job summaries.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Format() Format { return FormatMarkdown }

func (r *MarkdownRenderer) Render(d *Data) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "## Test Results: %s\n\n", cell(titleLabel(d.Run.ResultLabel())))

	b.WriteString("| Metric | Value |\n")
	b.WriteString("| --- | --- |\n")
	row := func(k, v string) {
		fmt.Fprintf(&b, "| %s | %s |\n", k, cell(v))
	}
	row("Total", strconv.Itoa(d.Run.Total))
	row("Passed", strconv.Itoa(d.Run.Passed))
	row("Failed", strconv.Itoa(d.Run.Failed))
	row("Skipped", strconv.Itoa(d.Run.Skipped))
	row("Inconclusive", strconv.Itoa(d.Run.Inconclusive))
	row("Duration", formatSeconds(d.Run.Duration))
	if d.Run.StartTime != "" {
		row("Started", d.Run.StartTime)
	}
	if d.Run.EndTime != "" {
		row("Finished", d.Run.EndTime)
	}
	if len(d.Cases) != d.Run.Total {
		row("Observed cases", strconv.Itoa(len(d.Cases)))
	}

	if len(d.Warnings) > 0 {
		b.WriteString("\n> [!WARNING]\n")
		for _, msg := range d.Warnings {
			fmt.Fprintf(&b, "> %s\n", strings.Join(strings.Fields(msg), " "))
		}
	}

	if d.Empty() {
		b.WriteString("\n_No tests ran._\n")
	}

	if len(d.Failed) > 0 {
		fmt.Fprintf(&b, "\n### Failed Tests (%d)\n", len(d.Failed))
		for _, c := range d.Failed {
			writeFailure(&b, c)
		}
	}

	if len(d.Skipped) > 0 {
		fmt.Fprintf(&b, "\n### Skipped Tests (%d)\n\n", len(d.Skipped))
		writeNotRun(&b, d.Skipped)
	}

	if d.Policy == analyze.SeparateInconclusive && len(d.Inconclusive) > 0 {
		fmt.Fprintf(&b, "\n### Inconclusive Tests (%d)\n\n", len(d.Inconclusive))
		writeNotRun(&b, d.Inconclusive)
	}

	if len(d.Slowest) > 0 {
		b.WriteString("\n### Slowest Tests\n\n")
		b.WriteString("| # | Test | Duration |\n")
		b.WriteString("| ---: | --- | ---: |\n")
		for i, c := range d.Slowest {
			fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, cell(c.DisplayName()), formatSeconds(c.Duration))
		}
	}

	return b.String(), nil
}

func writeFailure(b *strings.Builder, c results.Case) {
	fmt.Fprintf(b, "\n<details>\n<summary><code>%s</code></summary>\n", html.EscapeString(c.DisplayName()))
	if c.Message != "" {
		b.WriteString("\n**Message**\n\n")
		writeCodeBlock(b, c.Message)
	}
	if c.StackTrace != "" {
		b.WriteString("\n**Stack trace**\n\n")
		writeCodeBlock(b, c.StackTrace)
	}
	b.WriteString("\n</details>\n")
}

func writeNotRun(b *strings.Builder, list []results.Case) {
	for _, c := range list {
		reason := strings.Join(strings.Fields(c.Reason), " ")
		if c.Status != results.StatusSkipped {
			reason = strings.TrimSpace("_" + c.StatusLabel() + "_ " + reason)
		}
		if reason == "" {
			fmt.Fprintf(b, "- %s\n", inlineCode(c.DisplayName()))
		} else {
			fmt.Fprintf(b, "- %s: %s\n", inlineCode(c.DisplayName()), reason)
		}
	}
}

// writeCodeBlock writes s in a fenced block whose fence is longer than any
// backtick run inside s.
func writeCodeBlock(b *strings.Builder, s string) {
	fence := strings.Repeat("`", max(3, longestRun(s, '`')+1))
	fmt.Fprintf(b, "%s\n%s\n%s\n", fence, strings.TrimRight(s, "\n"), fence)
}

func inlineCode(s string) string {
	ticks := strings.Repeat("`", longestRun(s, '`')+1)
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return ticks + " " + s + " " + ticks
	}
	return ticks + s + ticks
}

func longestRun(s string, ch byte) int {
	longest, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == ch {
			cur++
			longest = max(longest, cur)
		} else {
			cur = 0
		}
	}
	return longest
}

// cell makes s safe for a single table cell.
func cell(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
