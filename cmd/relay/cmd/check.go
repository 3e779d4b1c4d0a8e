package cmd

import (
	"fmt"

	"github.com/go-drift/relay/pkg/config"
)

func init() {
	RegisterCommand(&Command{
		Name:  "check",
		Short: "Validate relay.yaml",
		Long: `Load relay.yaml from a project directory, apply defaults and print the
resolved settings.

Without a directory, the nearest parent directory holding a go.mod is used.
A missing relay.yaml is not an error; the defaults are printed instead.`,
		Usage: "relay check [dir]",
		Run:   runCheck,
	})
}

func runCheck(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("check takes at most one directory")
	}

	var dir string
	if len(args) == 1 {
		dir = args[0]
	} else {
		root, err := config.FindProjectRoot()
		if err != nil {
			return err
		}
		dir = root
	}

	cfg, err := config.Resolve(dir)
	if err != nil {
		return err
	}

	module := cfg.ModulePath
	if module == "" {
		module = "(none)"
	}
	fmt.Fprintf(stdout, "Project: %s (%s)\n", cfg.AppName, module)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Dispatch:")
	fmt.Fprintf(stdout, "  %-16s %d\n", "hop budget:", cfg.HopBudget)
	fmt.Fprintf(stdout, "  %-16s %d\n", "max flush:", cfg.MaxFlush)
	fmt.Fprintf(stdout, "  %-16s %t\n", "recover panics:", cfg.RecoverPanics)
	fmt.Fprintf(stdout, "  %-16s %t\n", "diagnostics:", cfg.Diagnostics)
	fmt.Fprintln(stdout, "Display:")
	fmt.Fprintf(stdout, "  %-16s %g\n", "scale:", cfg.Scale)
	fmt.Fprintln(stdout, "Errors:")
	fmt.Fprintf(stdout, "  %-16s %t\n", "verbose:", cfg.Verbose)
	return nil
}
