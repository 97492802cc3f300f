package cli

import (
	"strconv"

	"github.com/AndreyAkinshin/testreport/internal/analyze"
	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/output"
)

var slowestFlagDefs = []flagDef{
	{names: []string{"-n", "--count"}, kind: valueFlag},
	{names: []string{"--max-bytes"}, kind: valueFlag},
	{names: []string{"--allow-empty"}, kind: boolFlag},
}

// cmdSlowest prints a table of the slowest test cases of each input.
// The listing is informational: failed tests do not change the exit code.
func (a *app) cmdSlowest(args []string) int {
	if wantsHelp(args) {
		printSlowestUsage(a.out)
		return errors.ExitSuccess
	}

	flags, err := parseFlags(args, slowestFlagDefs)
	if err != nil {
		return a.reportError(errors.Config(err.Error()))
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return a.reportError(err)
	}
	count := int64(analyze.DefaultSlowest)
	if cfg.Slowest > 0 {
		count = int64(cfg.Slowest)
	}
	if n, ok, err := flags.integer("--count"); err != nil {
		return a.reportError(errors.Config(err.Error()))
	} else if ok {
		count = n
	}
	if count < 1 {
		return a.reportError(errors.Config("--count must be at least 1"))
	}
	if n, ok, err := flags.integer("--max-bytes"); err != nil {
		return a.reportError(errors.Config(err.Error()))
	} else if ok {
		cfg.MaxBytes = n
	}
	if v, ok := flags.boolean("--allow-empty"); ok {
		cfg.AllowEmpty = v
	}
	if err := checkInputs(flags.positional); err != nil {
		return a.reportError(err)
	}

	code := errors.ExitSuccess
	for i, in := range a.parseInputs(flags.positional, parseOptions(cfg)) {
		if in.err != nil {
			code = max(code, a.reportError(in.err))
			continue
		}
		if len(flags.positional) > 1 {
			if i > 0 {
				a.out.Println("")
			}
			a.out.Println("==> %s <==", in.name)
		}

		slowest := analyze.Slowest(in.doc.CaseList(), int(count))
		if len(slowest) == 0 {
			a.out.Println("No test cases.")
			continue
		}
		rows := make([][]string, 0, len(slowest))
		for j, c := range slowest {
			rows = append(rows, []string{
				strconv.Itoa(j + 1),
				strconv.FormatFloat(c.Duration, 'f', 3, 64) + "s",
				c.StatusLabel(),
				c.DisplayName(),
			})
		}
		a.out.Table([]string{"#", "DURATION", "STATUS", "TEST"}, rows)
	}
	return code
}

func printSlowestUsage(w *output.Writer) {
	w.HelpTitle("testreport slowest - list the slowest tests")
	w.HelpSection("Usage:")
	w.HelpUsage("testreport slowest [flags] <file>...")
	w.HelpSection("Flags:")
	w.HelpFlag("-n, --count=<n>", "Number of tests to list (default 10)", widthFlagWithValue)
	w.HelpFlag("--max-bytes=<n>", "Reject inputs larger than n bytes", widthFlagWithValue)
	w.HelpFlag("--allow-empty", "Accept runs that state tests but contain none", widthFlagWithValue)
	w.Println("")
}
