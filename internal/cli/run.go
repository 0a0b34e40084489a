package cli

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/ledger/internal/config"
	"github.com/roach88/ledger/internal/scenario"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions, cfg config.Config) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Run a scenario script",
		Long: `Run a YAML scenario against a fresh ledger.

The file is checked against the scenario schema, then every client and
step is applied in order. Step expectations and expect_balances are
checked; the final balances and the trace are printed.

Exit codes:
  0 - All expectations held
  1 - One or more expectations failed, or the scenario is invalid
  2 - Command error (unreadable file, journal cannot be opened)

Examples:
  ledger run ./scenarios/basic.yaml
  ledger run ./scenarios/basic.yaml --journal ./ledger.db
  ledger run ./scenarios/basic.yaml --metrics --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenarioFile(opts, args[0], cmd)
		},
	}

	opts.addFlags(cmd, cfg.Journal, cfg.Metrics)

	return cmd
}

func runScenarioFile(opts *SessionOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	s, err := scenario.ValidateFile(path)
	if err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			_ = formatter.Error(ErrCodeLoad, "cannot read scenario", err.Error())
			return WrapExitError(ExitCommandError, "cannot read scenario", err)
		}
		_ = formatter.Error(ErrCodeSchema, "invalid scenario", err.Error())
		return WrapExitError(ExitFailure, "invalid scenario", err)
	}
	formatter.VerboseLog("Loaded scenario %s from %s", s.Name, path)

	return executeScenario(cmd, opts, s)
}
