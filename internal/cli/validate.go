package cli

import (
	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/output"
)

var validateFlagDefs = []flagDef{
	{names: []string{"--strict"}, kind: boolFlag},
	{names: []string{"--allow-empty"}, kind: boolFlag},
	{names: []string{"--max-bytes"}, kind: valueFlag},
}

// cmdValidate parses each input and reports whether it is usable. Test
// failures do not affect the exit code; count warnings do under --strict.
func (a *app) cmdValidate(args []string) int {
	if wantsHelp(args) {
		printValidateUsage(a.out)
		return errors.ExitSuccess
	}

	flags, err := parseFlags(args, validateFlagDefs)
	if err != nil {
		return a.reportError(errors.Config(err.Error()))
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return a.reportError(err)
	}
	if v, ok := flags.boolean("--strict"); ok {
		cfg.StrictCounts = v
	}
	if v, ok := flags.boolean("--allow-empty"); ok {
		cfg.AllowEmpty = v
	}
	if n, ok, err := flags.integer("--max-bytes"); err != nil {
		return a.reportError(errors.Config(err.Error()))
	} else if ok {
		cfg.MaxBytes = n
	}
	if err := checkInputs(flags.positional); err != nil {
		return a.reportError(err)
	}

	code := errors.ExitSuccess
	for _, in := range a.parseInputs(flags.positional, parseOptions(cfg)) {
		if in.err != nil {
			code = max(code, a.reportError(in.err))
			continue
		}
		for _, w := range in.doc.Warnings {
			a.out.Warning("%s: %v", in.name, w)
		}
		if cfg.StrictCounts && len(in.doc.Warnings) > 0 {
			a.out.ErrorPrefix("%s: %d warning(s) under --strict", in.name, len(in.doc.Warnings))
			code = max(code, errors.ExitTestsFailed)
			continue
		}
		a.out.ValidationSuccess("%s: valid (%d test cases)", in.name, in.doc.CaseCount())
	}
	return code
}

func printValidateUsage(w *output.Writer) {
	w.HelpTitle("testreport validate - check that result files parse cleanly")
	w.HelpSection("Usage:")
	w.HelpUsage("testreport validate [flags] <file>...")
	w.HelpSection("Flags:")
	w.HelpFlag("--strict", "Treat count warnings as errors (exit 1)", widthFlagWithValue)
	w.HelpFlag("--allow-empty", "Accept runs that state tests but contain none", widthFlagWithValue)
	w.HelpFlag("--max-bytes=<n>", "Reject inputs larger than n bytes", widthFlagWithValue)
	w.Println("")
}
