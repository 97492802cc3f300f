package cli

import (
	"gopkg.in/yaml.v3"

	"github.com/AndreyAkinshin/testreport/internal/config"
	"github.com/AndreyAkinshin/testreport/internal/errors"
	"github.com/AndreyAkinshin/testreport/internal/output"
)

// cmdConfig handles configuration utilities.
func (a *app) cmdConfig(args []string) int {
	if len(args) == 0 || wantsHelp(args) {
		printConfigUsage(a.out)
		if len(args) == 0 {
			return errors.ExitConfigError
		}
		return errors.ExitSuccess
	}

	switch args[0] {
	case "validate":
		return a.cmdConfigValidate(args[1:])
	case "show":
		return a.cmdConfigShow(args[1:])
	default:
		a.out.ErrorPrefix("config: unknown subcommand %q", args[0])
		printConfigUsage(a.out)
		return errors.ExitConfigError
	}
}

func (a *app) cmdConfigValidate(args []string) int {
	if len(args) > 0 {
		a.out.ErrorPrefix("config validate: unexpected argument: %s", args[0])
		return errors.ExitConfigError
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return a.reportError(err)
	}
	warnings, err := config.Validate(cfg)
	if err != nil {
		return a.reportError(errors.Config(err.Error()))
	}
	for _, w := range warnings {
		a.out.Warning("%s", w)
	}

	a.out.ValidationSuccess("configuration is valid")
	a.out.Info("  format:       %s", cfg.Format)
	a.out.Info("  inconclusive: %s", cfg.Inconclusive)
	return errors.ExitSuccess
}

// cmdConfigShow prints the effective configuration with defaults applied.
func (a *app) cmdConfigShow(args []string) int {
	if len(args) > 0 {
		a.out.ErrorPrefix("config show: unexpected argument: %s", args[0])
		return errors.ExitConfigError
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return a.reportError(err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return a.reportError(errors.Wrap(err, "cannot encode configuration"))
	}
	a.out.Print("%s", data)
	return errors.ExitSuccess
}

func printConfigUsage(w *output.Writer) {
	w.HelpTitle("testreport config - configuration utilities")

	w.HelpSection("Usage:")
	w.HelpUsage("testreport config <subcommand>")

	w.HelpSection("Subcommands:")
	w.HelpCommand("validate", "Validate the configuration file", 10)
	w.HelpCommand("show", "Print the effective configuration", 10)

	w.HelpSection("Configuration lookup:")
	w.Println("  --config=<file>, then $%s, then testreport.yaml in the", EnvConfig)
	w.Println("  working directory or a parent. Without a file, defaults apply.")
	w.Println("")
}
