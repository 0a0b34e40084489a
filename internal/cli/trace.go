package cli

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/ledger/internal/config"
	"github.com/roach88/ledger/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Journal  string
	Session  string // optional; defaults to the latest session
	Client   string // optional; filter to one client id
	Sessions bool   // list sessions instead of entries
}

// TraceResult holds the trace output.
type TraceResult struct {
	Session  string          `json:"session"`
	Client   string          `json:"client,omitempty"`
	Entries  []journal.Entry `json:"entries"`
	Stats    TraceStats      `json:"stats"`
	Sessions []string        `json:"sessions,omitempty"`
}

// TraceStats holds summary statistics for the trace.
type TraceStats struct {
	Total    int `json:"total"`
	Applied  int `json:"applied"`
	Rejected int `json:"rejected"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions, cfg config.Config) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show journaled outcomes",
		Long: `Show the outcomes recorded in a journal by run or demo.

Entries are listed in seq order for one session: the latest by default,
or the one named with --session. Use --client to keep only entries where
the client is the primary client or the counterparty.

Examples:
  ledger trace --journal ./ledger.db
  ledger trace --journal ./ledger.db --sessions
  ledger trace --journal ./ledger.db --session 0190... --client client-1 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", cfg.Journal, "path to SQLite journal (required)")
	cmd.Flags().StringVar(&opts.Session, "session", "", "session to show (default: latest)")
	cmd.Flags().StringVar(&opts.Client, "client", "", "filter to one client id")
	cmd.Flags().BoolVar(&opts.Sessions, "sessions", false, "list recorded sessions")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	formatter := opts.formatter(cmd)

	if opts.Journal == "" {
		return NewExitError(ExitCommandError, "--journal is required")
	}
	// Open would create an empty journal; a missing file is an error here.
	if _, err := os.Stat(opts.Journal); err != nil {
		_ = formatter.Error(ErrCodeJournal, "journal not found", opts.Journal)
		return WrapExitError(ExitCommandError, "journal not found", err)
	}

	j, err := journal.Open(opts.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	if opts.Sessions {
		sessions, err := j.Sessions(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to list sessions", err)
		}
		if opts.Format == "json" {
			return formatter.Success(TraceResult{Sessions: sessions, Entries: []journal.Entry{}})
		}
		for _, s := range sessions {
			fmt.Fprintln(cmd.OutOrStdout(), s)
		}
		return nil
	}

	session := opts.Session
	if session == "" {
		session, err = j.LatestSession(ctx)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to find latest session", err)
		}
		if session == "" {
			_ = formatter.Error(ErrCodeJournal, "journal is empty", opts.Journal)
			return NewExitError(ExitCommandError, "journal is empty")
		}
	}

	var entries []journal.Entry
	if opts.Client != "" {
		entries, err = j.EntriesForClient(ctx, session, opts.Client)
	} else {
		entries, err = j.Entries(ctx, session)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read journal", err)
	}

	if len(entries) == 0 {
		_ = formatter.Error(ErrCodeJournal, "no entries found", map[string]string{"session": session, "client": opts.Client})
		return NewExitError(ExitFailure, fmt.Sprintf("no entries for session %s", session))
	}

	result := TraceResult{Session: session, Client: opts.Client, Entries: entries}
	for _, e := range entries {
		result.Stats.Total++
		if e.OK() {
			result.Stats.Applied++
		} else {
			result.Stats.Rejected++
		}
	}

	if opts.Format == "json" {
		return formatter.Success(result)
	}
	writeTraceText(cmd.OutOrStdout(), result)
	return nil
}

func writeTraceText(w io.Writer, r TraceResult) {
	fmt.Fprintf(w, "Session: %s\n", r.Session)
	if r.Client != "" {
		fmt.Fprintf(w, "Client:  %s\n", r.Client)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, e := range r.Entries {
		outcome := "ok"
		if !e.OK() {
			outcome = e.Code
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%d\t%s\tbalance=%d\n",
			e.Seq, e.Command, e.ClientID, e.CounterpartyID, e.Amount, outcome, e.Balance)
	}
	tw.Flush()

	fmt.Fprintf(w, "\n%d entries: %d applied, %d rejected\n", r.Stats.Total, r.Stats.Applied, r.Stats.Rejected)
}
