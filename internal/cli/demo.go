package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ledger/internal/config"
	"github.com/roach88/ledger/internal/scenario"
)

// DemoOptions holds flags for the demo command.
type DemoOptions struct {
	SessionOptions
	Script bool // print the demo scenario instead of running it
}

// NewDemoCommand creates the demo command.
func NewDemoCommand(rootOpts *RootOptions, cfg config.Config) *cobra.Command {
	opts := &DemoOptions{SessionOptions: SessionOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the built-in demo session",
		Long: `Run the built-in demo session: six registrations (two of them
rejected), deposits, an overdraft, transfers, an unknown id and two limit
replacements.

Use --script to print the scenario YAML, e.g. as a starting point for your
own scripts.

Examples:
  ledger demo
  ledger demo --journal ./ledger.db
  ledger demo --script > my-scenario.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(opts, cmd)
		},
	}

	opts.addFlags(cmd, cfg.Journal, cfg.Metrics)
	cmd.Flags().BoolVar(&opts.Script, "script", false, "print the demo scenario YAML and exit")

	return cmd
}

func runDemo(opts *DemoOptions, cmd *cobra.Command) error {
	if opts.Script {
		_, err := cmd.OutOrStdout().Write(scenario.DemoYAML())
		return err
	}

	s, err := scenario.Demo()
	if err != nil {
		return WrapExitError(ExitCommandError, "built-in demo is invalid", err)
	}
	return executeScenario(cmd, &opts.SessionOptions, s)
}
