package cli

import (
	"fmt"
	"strings"

	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/output"
	"github.com/AndreyAkinshin/testreport/internal/report"
)

// cmdCompletion generates shell completion scripts.
func (a *app) cmdCompletion(args []string) int {
	shell := ""
	alias := ""

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			printCompletionUsage(a.out)
			return errors.ExitSuccess
		case strings.HasPrefix(arg, "--alias="):
			alias = strings.TrimPrefix(arg, "--alias=")
		case arg == "--alias":
			a.out.ErrorPrefix("completion: --alias requires a value (--alias=<name>)")
			return errors.ExitConfigError
		case strings.HasPrefix(arg, "-"):
			a.out.ErrorPrefix("completion: unknown flag: %s", arg)
			printCompletionUsage(a.out)
			return errors.ExitConfigError
		default:
			if shell != "" {
				a.out.ErrorPrefix("completion: unexpected argument: %s", arg)
				return errors.ExitConfigError
			}
			shell = arg
		}
	}

	if shell == "" {
		a.out.ErrorPrefix("completion: shell required (bash, zsh, fish)")
		printCompletionUsage(a.out)
		return errors.ExitConfigError
	}

	cmdName := "testreport"
	if alias != "" {
		cmdName = alias
	}

	switch shell {
	case "bash":
		a.out.Print("%s", generateBashCompletion(cmdName))
	case "zsh":
		a.out.Print("%s", generateZshCompletion(cmdName))
	case "fish":
		a.out.Print("%s", generateFishCompletion(cmdName))
	default:
		a.out.ErrorPrefix("completion: unsupported shell %q (use bash, zsh, or fish)", shell)
		return errors.ExitConfigError
	}

	return errors.ExitSuccess
}

func printCompletionUsage(w *output.Writer) {
	w.HelpTitle("testreport completion - generate shell completion scripts")

	w.HelpSection("Usage:")
	w.HelpUsage("testreport completion <shell> [--alias=<name>]")

	w.HelpSection("Arguments:")
	w.HelpFlag("<shell>", "Shell type: bash, zsh, or fish", 10)

	w.HelpSection("Options:")
	w.HelpFlag("--alias=<name>", "Generate completion for command alias", 14)
	w.HelpFlag("-h, --help", "Show this help", 14)

	w.HelpSection("Installation:")
	w.Println("  Bash:  eval \"$(testreport completion bash)\"")
	w.Println("  Zsh:   eval \"$(testreport completion zsh)\"")
	w.Println("  Fish:  testreport completion fish | source")
	w.Println("")
}

type completionEntry struct {
	name string
	desc string
}

var completionCommands = []completionEntry{
	{"report", "Render a report in any format"},
	{"junit", "Convert results to JUnit XML"},
	{"slowest", "List the slowest tests"},
	{"validate", "Check that result files parse cleanly"},
	{"config", "Configuration utilities"},
	{"formats", "List output formats"},
	{"completion", "Generate shell completion"},
	{"version", "Show version information"},
	{"help", "Show help"},
}

var completionConfigSubcommands = []completionEntry{
	{"validate", "Validate the configuration file"},
	{"show", "Print the effective configuration"},
}

func commandNames() []string {
	names := make([]string, 0, len(completionCommands))
	for _, c := range completionCommands {
		names = append(names, c.name)
	}
	return names
}

// formatNames lists every accepted --format value.
func formatNames() []string {
	r := report.NewRegistry(report.Options{})
	var names []string
	for _, f := range r.Names() {
		names = append(names, r.Aliases(report.Format(f))...)
	}
	return names
}

func flagNames() []string {
	var names []string
	for _, d := range reportFlagDefs {
		names = append(names, d.key())
	}
	return append(names, "--quiet", "--verbose", "--no-color", "--config", "--help", "--version")
}

func generateBashCompletion(cmdName string) string {
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_") + "_completions"

	return fmt.Sprintf(`# testreport bash completion
# Add to ~/.bashrc: eval "$(testreport completion bash)"

%s() {
    local cur prev words cword
    _init_completion || return

    local commands="%s"
    local flags="%s"
    local formats="%s"

    case "${prev}" in
        %s)
            COMPREPLY=($(compgen -W "${commands} ${flags}" -- "${cur}"))
            COMPREPLY+=($(compgen -f -X '!*.xml' -- "${cur}"))
            return
            ;;
        config)
            COMPREPLY=($(compgen -W "validate show" -- "${cur}"))
            return
            ;;
        completion)
            COMPREPLY=($(compgen -W "bash zsh fish" -- "${cur}"))
            return
            ;;
        -f|--format)
            COMPREPLY=($(compgen -W "${formats}" -- "${cur}"))
            return
            ;;
        --inconclusive)
            COMPREPLY=($(compgen -W "skipped separate" -- "${cur}"))
            return
            ;;
        --annotation-style)
            COMPREPLY=($(compgen -W "plain github" -- "${cur}"))
            return
            ;;
        -o|--output|--config)
            _filedir
            return
            ;;
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=($(compgen -W "${flags}" -- "${cur}"))
        return
    fi

    _filedir xml
}

complete -F %s %s
`, funcName, strings.Join(commandNames(), " "), strings.Join(flagNames(), " "),
		strings.Join(formatNames(), " "), cmdName, funcName, cmdName)
}

func generateZshCompletion(cmdName string) string {
	funcName := "_" + strings.ReplaceAll(cmdName, "-", "_")

	var commands, subcommands strings.Builder
	for _, c := range completionCommands {
		fmt.Fprintf(&commands, "        '%s:%s'\n", c.name, c.desc)
	}
	for _, c := range completionConfigSubcommands {
		fmt.Fprintf(&subcommands, "        '%s:%s'\n", c.name, c.desc)
	}

	return fmt.Sprintf(`#compdef %s
# testreport zsh completion
# Add to ~/.zshrc: eval "$(testreport completion zsh)"

%s() {
    local -a commands config_subcommands flags

    commands=(
%s    )

    config_subcommands=(
%s    )

    flags=(
        '(-f --format)'{-f,--format=}'[Output format]:format:(%s)'
        '(-o --output)'{-o,--output=}'[Write the report to a file]:file:_files'
        '(-n --slowest)'{-n,--slowest=}'[List the n slowest tests]:count:'
        '--inconclusive=[Where to report inconclusive tests]:policy:(skipped separate)'
        '--width=[Message width]:width:'
        '--annotation-style=[Annotation style]:style:(plain github)'
        '--path-prefix=[Strip prefix from annotation paths]:dir:_files -/'
        '--suite-name=[JUnit testsuite name]:name:'
        '--max-bytes=[Reject larger inputs]:bytes:'
        '--strict[Exit 1 on count discrepancies]'
        '--allow-empty[Accept runs without test cases]'
        '--check[Validate JSON output]'
        '(-q --quiet)'{-q,--quiet}'[Minimal output]'
        '(-v --verbose)'{-v,--verbose}'[Debug logging]'
        '--no-color[Disable colors]'
        '--config=[Configuration file]:file:_files'
        '--help[Show help]'
        '--version[Show version]'
    )

    if (( CURRENT == 2 )); then
        _describe -t commands 'command' commands
        _files -g '*.xml'
        return
    fi

    case "${words[2]}" in
        config)
            _describe -t config-subcommands 'config subcommand' config_subcommands
            ;;
        completion)
            _values 'shell' bash zsh fish
            ;;
        *)
            _arguments -s $flags[@] '*:result file:_files -g "*.xml"'
            ;;
    esac
}

compdef %s %s
`, cmdName, funcName, commands.String(), subcommands.String(),
		strings.Join(formatNames(), " "), funcName, cmdName)
}

func generateFishCompletion(cmdName string) string {
	var sb strings.Builder

	sb.WriteString("# testreport fish completion\n# Add to config: testreport completion fish | source\n\n")

	for _, c := range completionCommands {
		fmt.Fprintf(&sb, "complete -c %s -n '__fish_use_subcommand' -a '%s' -d '%s'\n", cmdName, c.name, c.desc)
	}

	sb.WriteString("\n# Flags\n")
	fmt.Fprintf(&sb, "complete -c %s -s f -l format -d 'Output format' -xa '%s'\n", cmdName, strings.Join(formatNames(), " "))
	fmt.Fprintf(&sb, "complete -c %s -s o -l output -d 'Write the report to a file' -r\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -s n -l slowest -d 'List the n slowest tests' -x\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l inconclusive -d 'Where to report inconclusive tests' -xa 'skipped separate'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l width -d 'Message width' -x\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l annotation-style -d 'Annotation style' -xa 'plain github'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l path-prefix -d 'Strip prefix from annotation paths' -r\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l suite-name -d 'JUnit testsuite name' -x\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l max-bytes -d 'Reject larger inputs' -x\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l strict -d 'Exit 1 on count discrepancies'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l allow-empty -d 'Accept runs without test cases'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l check -d 'Validate JSON output'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -s q -l quiet -d 'Minimal output'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -s v -l verbose -d 'Debug logging'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l no-color -d 'Disable colors'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l config -d 'Configuration file' -r\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l help -d 'Show help'\n", cmdName)
	fmt.Fprintf(&sb, "complete -c %s -l version -d 'Show version'\n", cmdName)

	sb.WriteString("\n# config subcommands\n")
	for _, c := range completionConfigSubcommands {
		fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from config' -a '%s' -d '%s'\n", cmdName, c.name, c.desc)
	}

	sb.WriteString("\n# completion subcommands\n")
	for _, shell := range []string{"bash", "zsh", "fish"} {
		fmt.Fprintf(&sb, "complete -c %s -n '__fish_seen_subcommand_from completion' -a '%s' -d 'Generate %s completion'\n", cmdName, shell, shell)
	}

	return sb.String()
}
