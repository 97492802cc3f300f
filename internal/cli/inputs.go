package cli

import (
	stderrors "errors"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AndreyAkinshin/testreport/internal/config"
	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/nunit"
	"github.com/AndreyAkinshin/testreport/internal/results"
)

// stdinName is the display name of standard input in messages and headers.
const stdinName = "<stdin>"

// loadConfig resolves the configuration file: --config, then the
// TESTREPORT_CONFIG environment variable, then a testreport.yaml found
// from the working directory upward. No file at all means defaults.
func (a *app) loadConfig() (*config.Config, error) {
	path := a.opts.ConfigPath
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		found, err := config.Find()
		if stderrors.Is(err, config.ErrNotFound) {
			a.log.Debug("no configuration file, using defaults")
			return config.Default(), nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "cannot locate configuration file")
		}
		path = found
	}

	cfg, warnings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		a.out.Warning("%s: %s", path, w)
	}
	a.log.Debug("loaded configuration", zap.String("path", path))
	return cfg, nil
}

// checkInputs rejects an empty input list and more than one stdin marker.
func checkInputs(inputs []string) error {
	if len(inputs) == 0 {
		return errors.Config("no input files (use - to read standard input)")
	}
	stdin := 0
	for _, in := range inputs {
		if in == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return errors.Config("standard input (-) may be given only once")
	}
	return nil
}

func displayName(input string) string {
	if input == "-" {
		return stdinName
	}
	return input
}

// parsedInput is the outcome of parsing one input file.
type parsedInput struct {
	name string
	doc  *results.Document
	err  error
}

// parseInputs parses every input concurrently and returns the outcomes in
// argument order. A failing input does not stop the others.
func (a *app) parseInputs(inputs []string, opts []nunit.Option) []parsedInput {
	parsed := make([]parsedInput, len(inputs))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, in := range inputs {
		g.Go(func() error {
			start := time.Now()
			doc, err := a.parseInput(in, opts)
			parsed[i] = parsedInput{name: displayName(in), doc: doc, err: err}
			if err != nil {
				a.log.Debug("parse failed", zap.String("file", displayName(in)), zap.Error(err))
				return nil
			}
			a.log.Debug("parsed input",
				zap.String("file", displayName(in)),
				zap.Int("cases", doc.CaseCount()),
				zap.Int("stated_total", doc.Run.Total),
				zap.Int("warnings", len(doc.Warnings)),
				zap.Duration("elapsed", time.Since(start)),
			)
			return nil
		})
	}
	_ = g.Wait()
	return parsed
}

func (a *app) parseInput(input string, opts []nunit.Option) (*results.Document, error) {
	name := displayName(input)
	if input == "-" {
		doc, err := nunit.ParseReader(a.stdin, opts...)
		return doc, withFile(err, name)
	}

	f, err := os.Open(input)
	if err != nil {
		return nil, errors.IO(name, err)
	}
	defer f.Close()

	doc, err := nunit.ParseReader(f, opts...)
	return doc, withFile(err, name)
}

// withFile attaches the input name to report errors.
func withFile(err error, name string) error {
	if err == nil {
		return nil
	}
	if re, ok := err.(*errors.ReportError); ok {
		return re.WithFile(name)
	}
	return err
}

// parseOptions translates the configuration into parser options.
func parseOptions(cfg *config.Config) []nunit.Option {
	var opts []nunit.Option
	if cfg.AllowEmpty {
		opts = append(opts, nunit.AllowEmpty())
	}
	if cfg.MaxBytes > 0 {
		opts = append(opts, nunit.MaxBytes(cfg.MaxBytes))
	}
	return opts
}

// reportError prints err and returns its exit code.
func (a *app) reportError(err error) int {
	a.out.ErrorPrefix("%v", err)
	code := errors.GetExitCode(err)
	if code == errors.ExitConfigError {
		a.out.Hint("Run 'testreport --help' for usage.")
	}
	return code
}
