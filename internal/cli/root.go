package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/ledger/internal/config"
	"github.com/roach88/ledger/internal/ledger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	OnError string // "log" | "panic" | "ignore"

	// LogLevel applies when Verbose is off.
	LogLevel slog.Level
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command. cfg supplies flag defaults;
// flags given on the command line override it.
func NewRootCommand(cfg config.Config) *cobra.Command {
	opts := &RootOptions{}
	if level, err := cfg.Level(); err == nil {
		opts.LogLevel = level
	}

	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "In-memory account ledger",
		Long: `An in-memory account ledger: named clients, balances, deposits,
withdrawals and transfers, each guarded by a replaceable per-client limit.

Sessions are scripted as YAML scenarios; outcomes can be journaled to SQLite
and counted as Prometheus metrics.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if _, err := ledger.ParseUnhandledPolicy(opts.OnError); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", cfg.Format, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.OnError, "on-error", cfg.OnError, "unobserved ledger errors: log, panic or ignore")

	cmd.AddCommand(NewRunCommand(opts, cfg))
	cmd.AddCommand(NewDemoCommand(opts, cfg))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts, cfg))

	return cmd
}

// logger builds the structured logger for a command. Diagnostics go to
// stderr so JSON output on stdout stays parseable.
func (o *RootOptions) logger(cmd *cobra.Command) *slog.Logger {
	level := o.LogLevel
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))
}

// formatter builds the output formatter for a command.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

// unhandledPolicy parses OnError. Validated in PersistentPreRunE.
func (o *RootOptions) unhandledPolicy() ledger.UnhandledPolicy {
	p, _ := ledger.ParseUnhandledPolicy(o.OnError)
	return p
}
