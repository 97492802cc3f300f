package cli

import (
	"strings"

	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/report"
)

var formatDescriptions = map[report.Format]string{
	report.FormatText:        "Human-readable summary for terminals",
	report.FormatMarkdown:    "Pull-request comments and job summaries",
	report.FormatJSON:        "Machine-readable report",
	report.FormatAnnotations: "One CI annotation line per failure",
	report.FormatJUnit:       "JUnit XML for CI test dashboards",
}

// cmdFormats lists the output formats and their aliases.
func (a *app) cmdFormats(args []string) int {
	if len(args) > 0 && !wantsHelp(args) {
		a.out.ErrorPrefix("formats: unexpected argument: %s", args[0])
		return errors.ExitConfigError
	}

	r := report.NewRegistry(report.Options{})
	var rows [][]string
	for _, name := range r.Names() {
		f := report.Format(name)
		var aliases []string
		for _, alias := range r.Aliases(f) {
			if alias != name {
				aliases = append(aliases, alias)
			}
		}
		rows = append(rows, []string{name, strings.Join(aliases, ", "), formatDescriptions[f]})
	}
	a.out.Table([]string{"FORMAT", "ALIASES", "DESCRIPTION"}, rows)
	return errors.ExitSuccess
}
