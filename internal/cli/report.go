package cli

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/AndreyAkinshin/testreport/internal/analyze"
	"github.com/AndreyAkinshin/testreport/internal/config"
	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/output"
	"github.com/AndreyAkinshin/testreport/internal/report"
	"github.com/AndreyAkinshin/testreport/internal/schema"
)

var reportFlagDefs = []flagDef{
	{names: []string{"-f", "--format"}, kind: valueFlag},
	{names: []string{"-o", "--output"}, kind: valueFlag},
	{names: []string{"-n", "--slowest"}, kind: valueFlag},
	{names: []string{"--inconclusive"}, kind: valueFlag},
	{names: []string{"--width"}, kind: valueFlag},
	{names: []string{"--max-bytes"}, kind: valueFlag},
	{names: []string{"--annotation-style"}, kind: valueFlag},
	{names: []string{"--path-prefix"}, kind: valueFlag},
	{names: []string{"--suite-name"}, kind: valueFlag},
	{names: []string{"--strict"}, kind: boolFlag},
	{names: []string{"--allow-empty"}, kind: boolFlag},
	{names: []string{"--check"}, kind: boolFlag},
}

// reportSettings is the configuration after command-line overrides.
type reportSettings struct {
	cfg    *config.Config
	strict bool
	check  bool
	inputs []string
}

// cmdReport renders every input in the configured format. fixed, when
// set, forces the format (the junit command).
func (a *app) cmdReport(args []string, fixed report.Format) int {
	if wantsHelp(args) {
		printReportUsage(a.out, fixed)
		return errors.ExitSuccess
	}

	s, err := a.loadReportSettings(args, fixed)
	if err != nil {
		return a.reportError(err)
	}

	opts, err := reportOptions(s.cfg, a.out.Color() && s.cfg.Output == "")
	if err != nil {
		return a.reportError(err)
	}
	renderer, err := report.NewRegistry(opts).Lookup(s.cfg.Format)
	if err != nil {
		return a.reportError(err)
	}
	format := renderer.Format()

	if s.check && format != report.FormatJSON {
		return a.reportError(errors.Config("--check requires --format=json"))
	}
	if len(s.inputs) > 1 && (format == report.FormatJSON || format == report.FormatJUnit) {
		return a.reportError(errors.Configf("%s output takes exactly one input file, got %d", format, len(s.inputs)))
	}

	a.log.Debug("rendering",
		zap.String("format", string(format)),
		zap.Strings("inputs", s.inputs),
		zap.String("inconclusive", opts.Inconclusive.String()),
		zap.Int("slowest", opts.Slowest),
	)

	var (
		sections []string
		code     = errors.ExitSuccess
	)
	for _, in := range a.parseInputs(s.inputs, parseOptions(s.cfg)) {
		if in.err != nil {
			code = max(code, a.reportError(in.err))
			continue
		}

		d := report.Build(in.doc, opts)
		out, err := renderer.Render(d)
		if err != nil {
			code = max(code, a.reportError(withFile(err, in.name)))
			continue
		}
		if s.check {
			if err := schema.ValidateReport([]byte(out)); err != nil {
				code = max(code, a.reportError(errors.Wrap(err, in.name+": JSON report does not match schema")))
				continue
			}
		}

		if len(s.inputs) > 1 {
			out = sectionHeader(format, in.name) + out
		}
		sections = append(sections, out)
		code = max(code, inputExitCode(d, s.strict))
		if s.strict && len(d.Warnings) > 0 {
			a.out.Warning("%s: %d count warning(s) under --strict", in.name, len(d.Warnings))
		}
	}

	if len(sections) > 0 {
		if err := a.emit(s.cfg.Output, strings.Join(sections, separator(format))); err != nil {
			return max(code, a.reportError(err))
		}
	}
	return code
}

// loadReportSettings merges the configuration file with command flags.
func (a *app) loadReportSettings(args []string, fixed report.Format) (*reportSettings, error) {
	flags, err := parseFlags(args, reportFlagDefs)
	if err != nil {
		return nil, errors.Config(err.Error())
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	s := &reportSettings{cfg: cfg, inputs: flags.positional}

	if v, ok := flags.str("--format"); ok {
		if fixed != "" {
			return nil, errors.Configf("--format is not accepted by the %s command", fixed)
		}
		cfg.Format = v
	}
	if fixed != "" {
		cfg.Format = string(fixed)
	}
	if v, ok := flags.str("--output"); ok {
		cfg.Output = v
	}
	if v, ok := flags.str("--inconclusive"); ok {
		cfg.Inconclusive = v
	}
	if v, ok := flags.str("--annotation-style"); ok {
		cfg.Annotations.Style = v
	}
	if v, ok := flags.str("--path-prefix"); ok {
		cfg.Annotations.PathPrefix = v
	}
	if v, ok := flags.str("--suite-name"); ok {
		cfg.JUnit.SuiteName = v
	}

	ints := []struct {
		key string
		set func(int64)
	}{
		{"--slowest", func(n int64) { cfg.Slowest = int(n) }},
		{"--width", func(n int64) { cfg.MessageWidth = int(n) }},
		{"--max-bytes", func(n int64) { cfg.MaxBytes = n }},
	}
	for _, f := range ints {
		n, ok, err := flags.integer(f.key)
		if err != nil {
			return nil, errors.Config(err.Error())
		}
		if ok {
			f.set(n)
		}
	}

	if v, ok := flags.boolean("--strict"); ok {
		cfg.StrictCounts = v
	}
	if v, ok := flags.boolean("--allow-empty"); ok {
		cfg.AllowEmpty = v
	}
	s.strict = cfg.StrictCounts
	s.check, _ = flags.boolean("--check")

	warnings, err := config.Validate(cfg)
	if err != nil {
		return nil, errors.Config(err.Error())
	}
	for _, w := range warnings {
		a.out.Warning("%s", w)
	}

	if err := checkInputs(s.inputs); err != nil {
		return nil, err
	}
	return s, nil
}

// reportOptions converts a validated configuration into renderer options.
func reportOptions(cfg *config.Config, color bool) (report.Options, error) {
	policy, err := analyze.ParsePolicy(cfg.Inconclusive)
	if err != nil {
		return report.Options{}, errors.Config(err.Error())
	}
	style, err := report.ParseAnnotationStyle(cfg.Annotations.Style)
	if err != nil {
		return report.Options{}, errors.Config(err.Error())
	}
	return report.Options{
		Inconclusive:    policy,
		Slowest:         cfg.Slowest,
		MessageWidth:    cfg.MessageWidth,
		Color:           color,
		AnnotationStyle: style,
		PathPrefix:      cfg.Annotations.PathPrefix,
		SuiteName:       cfg.JUnit.SuiteName,
	}, nil
}

// inputExitCode is 1 when the run has failures, or count warnings under
// strict mode, and 0 otherwise.
func inputExitCode(d *report.Data, strict bool) int {
	if d.HasFailures() || (strict && len(d.Warnings) > 0) {
		return errors.ExitTestsFailed
	}
	return errors.ExitSuccess
}

func sectionHeader(format report.Format, name string) string {
	switch format {
	case report.FormatText:
		return fmt.Sprintf("==> %s <==\n", name)
	case report.FormatMarkdown:
		return fmt.Sprintf("# %s\n\n", name)
	default:
		return ""
	}
}

func separator(format report.Format) string {
	if format == report.FormatAnnotations {
		return ""
	}
	return "\n"
}

// emit writes the rendered report to path, or to stdout when path is
// empty or "-".
func (a *app) emit(path, content string) error {
	if path == "" || path == "-" {
		a.out.Print("%s", content)
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return errors.Wrap(err, "cannot write report")
	}
	a.log.Debug("wrote report", zap.String("path", path), zap.Int("bytes", len(content)))
	return nil
}

func printReportUsage(w *output.Writer, fixed report.Format) {
	if fixed == report.FormatJUnit {
		w.HelpTitle("testreport junit - convert NUnit results to JUnit XML")
		w.HelpSection("Usage:")
		w.HelpUsage("testreport junit [flags] <file>")
	} else {
		w.HelpTitle("testreport report - render NUnit results")
		w.HelpSection("Usage:")
		w.HelpUsage("testreport report [flags] <file>...")
	}

	w.HelpSection("Flags:")
	if fixed == "" {
		w.HelpFlag("-f, --format=<name>", "text, markdown, json, annotations, github or junit", widthFlagWithValue)
	}
	w.HelpFlag("-o, --output=<file>", "Write the report to a file instead of stdout", widthFlagWithValue)
	if fixed == "" {
		w.HelpFlag("-n, --slowest=<n>", "List the n slowest tests", widthFlagWithValue)
		w.HelpFlag("--inconclusive=<p>", "skipped (default) or separate", widthFlagWithValue)
		w.HelpFlag("--width=<n>", "Truncate plain-text messages to n characters", widthFlagWithValue)
		w.HelpFlag("--annotation-style=<s>", "plain (default) or github", widthFlagWithValue)
		w.HelpFlag("--path-prefix=<dir>", "Strip dir from annotation file paths", widthFlagWithValue)
		w.HelpFlag("--check", "Validate JSON output against its schema", widthFlagWithValue)
	}
	w.HelpFlag("--suite-name=<name>", "JUnit testsuite name", widthFlagWithValue)
	w.HelpFlag("--strict", "Exit 1 on count discrepancies", widthFlagWithValue)
	w.HelpFlag("--allow-empty", "Accept runs that state tests but contain none", widthFlagWithValue)
	w.HelpFlag("--max-bytes=<n>", "Reject inputs larger than n bytes", widthFlagWithValue)
	w.Println("")
}
