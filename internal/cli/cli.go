// Package cli provides the testreport command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/output"
	"github.com/AndreyAkinshin/testreport/internal/report"
)

// Version is set at build time.
var Version = "dev"

// EnvConfig names the environment variable that points at a configuration
// file when --config is not given.
const EnvConfig = "TESTREPORT_CONFIG"

// wantsHelp returns true if args contain -h or --help before any -- separator.
func wantsHelp(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
		if arg == "--" {
			return false
		}
	}
	return false
}

// app carries the per-invocation state shared by all commands.
type app struct {
	out   *output.Writer
	stdin io.Reader
	log   *zap.Logger
	opts  *GlobalOptions
}

// Run executes the CLI with the process streams and returns an exit code.
func Run(args []string) int {
	return RunWith(args, os.Stdin, output.New())
}

// RunWith executes the CLI reading standard input from stdin and writing
// through w.
func RunWith(args []string, stdin io.Reader, w *output.Writer) int {
	if len(args) == 0 {
		printUsage(w)
		return errors.ExitSuccess
	}

	switch args[0] {
	case "-h", "--help", "help":
		printUsage(w)
		return errors.ExitSuccess
	case "--version", "version":
		w.Println("testreport %s", Version)
		return errors.ExitSuccess
	}

	opts, remaining, err := parseGlobalFlags(args)
	if err != nil {
		w.ErrorPrefix("%v", err)
		return errors.ExitConfigError
	}
	applyGlobalOptions(w, opts)

	log := newLogger(opts.Verbose, w.Err())
	defer func() { _ = log.Sync() }()

	if len(remaining) == 0 {
		printUsage(w)
		return errors.ExitSuccess
	}

	a := &app{out: w, stdin: stdin, log: log, opts: opts}
	cmd := remaining[0]
	cmdArgs := remaining[1:]

	switch cmd {
	case "report":
		return a.cmdReport(cmdArgs, "")
	case "junit":
		return a.cmdReport(cmdArgs, report.FormatJUnit)
	case "slowest":
		return a.cmdSlowest(cmdArgs)
	case "validate":
		return a.cmdValidate(cmdArgs)
	case "config":
		return a.cmdConfig(cmdArgs)
	case "formats":
		return a.cmdFormats(cmdArgs)
	case "completion":
		return a.cmdCompletion(cmdArgs)
	case "help":
		printUsage(w)
		return errors.ExitSuccess
	case "version":
		w.Println("testreport %s", Version)
		return errors.ExitSuccess
	default:
		// Bare file arguments: "testreport results.xml" is "testreport report results.xml".
		return a.cmdReport(remaining, "")
	}
}

// GlobalOptions holds parsed global flags.
type GlobalOptions struct {
	Quiet      bool
	Verbose    bool
	NoColor    bool
	ConfigPath string
}

// parseGlobalFlags extracts global flags from anywhere in the argument list.
// Everything after -- is left untouched so file names may start with a dash.
func parseGlobalFlags(args []string) (*GlobalOptions, []string, error) {
	opts := &GlobalOptions{}
	var remaining []string

	i := 0
	for i < len(args) {
		arg := args[i]

		switch {
		case arg == "-q" || arg == "--quiet":
			opts.Quiet = true
			i++
		case arg == "-v" || arg == "--verbose":
			opts.Verbose = true
			i++
		case arg == "--no-color":
			opts.NoColor = true
			i++
		case arg == "--config":
			if i+1 >= len(args) {
				return nil, nil, fmt.Errorf("--config requires a value")
			}
			opts.ConfigPath = args[i+1]
			i += 2
		case strings.HasPrefix(arg, "--config="):
			opts.ConfigPath = strings.TrimPrefix(arg, "--config=")
			if opts.ConfigPath == "" {
				return nil, nil, fmt.Errorf("--config requires a value")
			}
			i++
		case arg == "--":
			remaining = append(remaining, args[i:]...)
			i = len(args)
		default:
			remaining = append(remaining, arg)
			i++
		}
	}

	if opts.Quiet && opts.Verbose {
		return nil, nil, fmt.Errorf("--quiet and --verbose are mutually exclusive")
	}

	return opts, remaining, nil
}

func applyGlobalOptions(w *output.Writer, opts *GlobalOptions) {
	w.SetQuiet(opts.Quiet)
	if opts.NoColor {
		w.SetColor(false)
	}
}

const widthFlagWithValue = 24

func printUsage(w *output.Writer) {
	w.HelpTitle("testreport - summarize NUnit test results for humans and CI")

	w.HelpSection("Usage:")
	w.HelpUsage("testreport [report] [flags] <file>...   Render a report (default command)")
	w.HelpUsage("testreport <command> [flags] [args]")

	w.HelpSection("Commands:")
	w.HelpCommand("report", "Render a report in any format", 16)
	w.HelpCommand("junit", "Convert results to JUnit XML", 16)
	w.HelpCommand("slowest", "List the slowest tests", 16)
	w.HelpCommand("validate", "Check that result files parse cleanly", 16)
	w.HelpCommand("config validate", "Validate the configuration file", 16)
	w.HelpCommand("config show", "Print the effective configuration", 16)
	w.HelpCommand("formats", "List output formats and aliases", 16)
	w.HelpCommand("completion", "Generate shell completion (bash, zsh, fish)", 16)
	w.HelpCommand("version", "Show version information", 16)

	printGlobalFlags(w)

	w.HelpSection("Exit Codes:")
	w.HelpCommand("0", "All tests passed (or nothing to report)", 3)
	w.HelpCommand("1", "At least one test failed", 3)
	w.HelpCommand("2", "A result file could not be read or parsed", 3)
	w.HelpCommand("3", "Invalid flags or configuration", 3)
	w.HelpCommand("4", "Unexpected runtime error", 3)

	w.HelpSection("Examples:")
	w.HelpExample("testreport TestResults.xml", "Print a plain-text summary")
	w.HelpExample("testreport report --format=md -o summary.md TestResults.xml", "Write a Markdown summary")
	w.HelpExample("testreport report --format=github TestResults.xml", "Emit GitHub Actions annotations")
	w.HelpExample("testreport junit -o junit.xml TestResults.xml", "Convert to JUnit XML")
	w.HelpExample("cat TestResults.xml | testreport -", "Read from standard input")
	w.Println("")
}

func printGlobalFlags(w *output.Writer) {
	w.HelpSection("Global Flags:")
	w.HelpFlag("-q, --quiet", "Minimal output (errors only)", widthFlagWithValue)
	w.HelpFlag("-v, --verbose", "Debug logging on stderr", widthFlagWithValue)
	w.HelpFlag("--no-color", "Disable ANSI colors", widthFlagWithValue)
	w.HelpFlag("--config=<file>", "Use this configuration file", widthFlagWithValue)
	w.HelpFlag("-h, --help", "Show this help", widthFlagWithValue)
	w.HelpFlag("--version", "Show version", widthFlagWithValue)

	w.HelpSection("Environment:")
	w.HelpEnvVar(EnvConfig, "Configuration file used when --config is absent", 18)
	w.HelpEnvVar("NO_COLOR", "Disable ANSI colors", 18)
}
