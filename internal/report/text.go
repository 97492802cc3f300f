package report

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/AndreyAkinshin/testreport/internal/analyze"
	"github.com/AndreyAkinshin/testreport/internal/output"
	"github.com/AndreyAkinshin/testreport/internal/results"
)

const textLabelWidth = 8

// TextRenderer renders a human-readable console summary.
type TextRenderer struct {
	Width int  // rune budget for messages; <= 0 means DefaultMessageWidth
	Color bool // ANSI colors
}

func (r *TextRenderer) Format() Format { return FormatText }

func (r *TextRenderer) Render(d *Data) (string, error) {
	var buf bytes.Buffer
	w := output.NewWithWriters(&buf, &buf, r.Color)
	width := r.Width
	if width <= 0 {
		width = DefaultMessageWidth
	}

	w.SummaryHeader("Test Run Summary")
	w.SummaryField("Result", titleLabel(d.Run.ResultLabel()), textLabelWidth)
	w.SummaryField("Duration", formatSeconds(d.Run.Duration), textLabelWidth)
	if d.Run.StartTime != "" {
		w.SummaryField("Started", d.Run.StartTime, textLabelWidth)
	}
	if d.Run.EndTime != "" {
		w.SummaryField("Finished", d.Run.EndTime, textLabelWidth)
	}
	w.SummaryField("Tests", countsLine(d.Run), textLabelWidth)
	if len(d.Cases) != d.Run.Total {
		w.SummaryField("Observed", fmt.Sprintf("%d test cases", len(d.Cases)), textLabelWidth)
	}

	if len(d.Warnings) > 0 {
		w.Println("")
		for _, msg := range d.Warnings {
			w.Notice("%s", msg)
		}
	}

	if len(d.Failed) > 0 {
		w.Println("")
		w.SummarySectionLabel("Failed Tests:")
		for i, c := range d.Failed {
			w.SummaryEntry(i+1, c.DisplayName(), truncate(c.Message, width), true)
		}
	}

	if len(d.Skipped) > 0 {
		w.Println("")
		w.SummarySectionLabel("Skipped Tests:")
		for i, c := range d.Skipped {
			detail := c.Reason
			if c.Status != results.StatusSkipped {
				detail = "[" + c.StatusLabel() + "] " + detail
			}
			w.SummaryEntry(i+1, c.DisplayName(), truncate(detail, width), false)
		}
	}

	if d.Policy == analyze.SeparateInconclusive && len(d.Inconclusive) > 0 {
		w.Println("")
		w.SummarySectionLabel("Inconclusive Tests:")
		for i, c := range d.Inconclusive {
			w.SummaryEntry(i+1, c.DisplayName(), truncate(c.Reason, width), false)
		}
	}

	if len(d.Slowest) > 0 {
		w.Println("")
		w.SummarySectionLabel("Slowest Tests:")
		for i, c := range d.Slowest {
			w.SummaryEntry(i+1, fmt.Sprintf("%s  %s", formatSeconds(c.Duration), c.DisplayName()), "", false)
		}
	}

	total := d.Total()
	switch {
	case d.Empty():
		w.FinalNeutral("No tests ran.")
	case d.HasFailures():
		w.FinalFailure("%d of %d tests failed.", d.FailedCount(), total)
	case d.Run.Skipped+d.Run.Inconclusive == 0 && len(d.Skipped)+len(d.Inconclusive) == 0:
		w.FinalSuccess("All %d tests passed.", total)
	default:
		notRun := max(d.Run.Skipped+d.Run.Inconclusive, len(d.Skipped)+len(d.Inconclusive))
		w.FinalSuccess("No failures: %d passed, %d not run.", d.Run.Passed, notRun)
	}

	return buf.String(), nil
}

func countsLine(r results.Run) string {
	return fmt.Sprintf("Passed: %d, Failed: %d, Skipped: %d, Inconclusive: %d, Total: %d",
		r.Passed, r.Failed, r.Skipped, r.Inconclusive, r.Total)
}

// titleLabel capitalizes labels written in lower case by non-standard
// producers ("failed" becomes "Failed"). A Caser is stateful, so each call
// builds its own.
func titleLabel(s string) string {
	if s == "" || strings.ToLower(s) != s {
		return s
	}
	return cases.Title(language.English).String(s)
}

// truncate collapses whitespace to single spaces and shortens s to at most
// width runes, ending in "..." when shortened.
func truncate(s string, width int) string {
	s = strings.Join(strings.Fields(s), " ")
	if width <= 3 || utf8.RuneCountInString(s) <= width {
		return s
	}
	runes := []rune(s)
	return string(runes[:width-3]) + "..."
}
