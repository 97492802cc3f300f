package report

import (
	"bytes"
	"encoding/json"

	"github.com/AndreyAkinshin/testreport/internal/analyze"
	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/results"
)

// JSONReport is the document written by the JSON renderer.
type JSONReport struct {
	Summary      JSONSummary   `json:"summary"`
	Failures     []JSONFailure `json:"failures"`
	Skipped      []JSONSkipped `json:"skipped"`
	Inconclusive []JSONSkipped `json:"inconclusive,omitempty"`
	Warnings     []string      `json:"warnings"`
	Slowest      []JSONTiming  `json:"slowest,omitempty"`
}

// JSONSummary mirrors the run summary.
type JSONSummary struct {
	Total         int     `json:"total"`
	Passed        int     `json:"passed"`
	Failed        int     `json:"failed"`
	Skipped       int     `json:"skipped"`
	Inconclusive  int     `json:"inconclusive"`
	Duration      float64 `json:"duration"`
	Result        string  `json:"result"`
	StartTime     string  `json:"start_time,omitempty"`
	EndTime       string  `json:"end_time,omitempty"`
	ObservedCases int     `json:"observed_cases"`
}

// JSONFailure describes one failed test.
type JSONFailure struct {
	Name       string  `json:"name"`
	FullName   string  `json:"fullname"`
	ClassName  string  `json:"classname"`
	Message    string  `json:"message"`
	StackTrace string  `json:"stack_trace"`
	Duration   float64 `json:"duration"`
}

// JSONSkipped describes one test that did not reach a verdict.
type JSONSkipped struct {
	Name      string `json:"name"`
	FullName  string `json:"fullname"`
	ClassName string `json:"classname"`
	Status    string `json:"status"`
	Reason    string `json:"reason"`
}

// JSONTiming is one entry of the slowest-tests list.
type JSONTiming struct {
	Name     string  `json:"name"`
	FullName string  `json:"fullname"`
	Duration float64 `json:"duration"`
}

// JSONRenderer renders a machine-readable report.
type JSONRenderer struct{}

func (r *JSONRenderer) Format() Format { return FormatJSON }

func (r *JSONRenderer) Render(d *Data) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewJSONReport(d)); err != nil {
		return "", errors.Wrap(err, "failed to encode JSON report")
	}
	return buf.String(), nil
}

// NewJSONReport converts report data into the JSON document model.
func NewJSONReport(d *Data) JSONReport {
	rep := JSONReport{
		Summary: JSONSummary{
			Total:         d.Run.Total,
			Passed:        d.Run.Passed,
			Failed:        d.Run.Failed,
			Skipped:       d.Run.Skipped,
			Inconclusive:  d.Run.Inconclusive,
			Duration:      d.Run.Duration,
			Result:        d.Run.ResultLabel(),
			StartTime:     d.Run.StartTime,
			EndTime:       d.Run.EndTime,
			ObservedCases: len(d.Cases),
		},
		Failures: make([]JSONFailure, 0, len(d.Failed)),
		Skipped:  make([]JSONSkipped, 0, len(d.Skipped)),
		Warnings: append([]string{}, d.Warnings...),
	}

	for _, c := range d.Failed {
		rep.Failures = append(rep.Failures, JSONFailure{
			Name:       c.Name,
			FullName:   c.FullName,
			ClassName:  c.ClassName,
			Message:    c.Message,
			StackTrace: c.StackTrace,
			Duration:   c.Duration,
		})
	}
	for _, c := range d.Skipped {
		rep.Skipped = append(rep.Skipped, skippedEntry(c))
	}
	if d.Policy == analyze.SeparateInconclusive {
		for _, c := range d.Inconclusive {
			rep.Inconclusive = append(rep.Inconclusive, skippedEntry(c))
		}
	}
	for _, c := range d.Slowest {
		rep.Slowest = append(rep.Slowest, JSONTiming{Name: c.Name, FullName: c.FullName, Duration: c.Duration})
	}
	return rep
}

func skippedEntry(c results.Case) JSONSkipped {
	return JSONSkipped{
		Name:      c.Name,
		FullName:  c.FullName,
		ClassName: c.ClassName,
		Status:    c.StatusLabel(),
		Reason:    c.Reason,
	}
}
