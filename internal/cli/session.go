package cli

import (
	"bytes"
	"fmt"
	"io"
	"maps"
	"slices"
	"text/tabwriter"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/roach88/ledger/internal/journal"
	"github.com/roach88/ledger/internal/ledger"
	"github.com/roach88/ledger/internal/metrics"
	"github.com/roach88/ledger/internal/scenario"
)

// SessionOptions holds the flags shared by run and demo.
type SessionOptions struct {
	*RootOptions
	Journal string // SQLite journal path; empty disables journaling
	Session string // journal session id; empty means a fresh UUIDv7
	Metrics bool   // print Prometheus metrics after the run
}

// RunResult is the output of run and demo.
type RunResult struct {
	Scenario string                `json:"scenario"`
	Pass     bool                  `json:"pass"`
	Trace    []scenario.TraceEvent `json:"trace"`
	Balances map[string]int64      `json:"balances"`
	Errors   []string              `json:"errors,omitempty"`
	Journal  string                `json:"journal,omitempty"`
	Session  string                `json:"session,omitempty"`
	Metrics  string                `json:"metrics,omitempty"`
}

func (o *SessionOptions) addFlags(cmd *cobra.Command, journalDefault string, metricsDefault bool) {
	cmd.Flags().StringVar(&o.Journal, "journal", journalDefault, "append outcomes to this SQLite journal")
	cmd.Flags().StringVar(&o.Session, "session", "", "journal session id (default: new UUIDv7)")
	cmd.Flags().BoolVar(&o.Metrics, "metrics", metricsDefault, "print Prometheus metrics after the run")
}

// executeScenario runs s on a fresh ledger wired to the configured
// journal and metrics, then prints the result.
func executeScenario(cmd *cobra.Command, opts *SessionOptions, s *scenario.Scenario) error {
	formatter := opts.formatter(cmd)
	logger := opts.logger(cmd)

	ledgerOpts := []ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithUnhandledPolicy(opts.unhandledPolicy()),
	}

	out := RunResult{Scenario: s.Name}

	if opts.Journal != "" {
		var jopts []journal.Option
		if opts.Session != "" {
			jopts = append(jopts, journal.WithSession(opts.Session))
		}
		j, err := journal.Open(opts.Journal, jopts...)
		if err != nil {
			_ = formatter.Error(ErrCodeJournal, "failed to open journal", err.Error())
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if err := j.Close(); err != nil {
				logger.Error("error closing journal", "error", err)
			}
		}()
		// seq restarts at 1 on every run, so a second run cannot share a session.
		used, err := j.HasSession(cmd.Context(), "")
		if err != nil {
			_ = formatter.Error(ErrCodeJournal, "failed to read journal", err.Error())
			return WrapExitError(ExitCommandError, "failed to read journal", err)
		}
		if used {
			_ = formatter.Error(ErrCodeJournal, "session already recorded", j.Session())
			return NewExitError(ExitCommandError, fmt.Sprintf("session %s already recorded in %s", j.Session(), opts.Journal))
		}
		ledgerOpts = append(ledgerOpts, ledger.WithRecorder(j))
		out.Journal = opts.Journal
		out.Session = j.Session()
		formatter.VerboseLog("Journaling to %s (session %s)", opts.Journal, j.Session())
	}

	var reg *prometheus.Registry
	if opts.Metrics {
		reg = prometheus.NewRegistry()
		ledgerOpts = append(ledgerOpts, ledger.WithRecorder(metrics.New(reg)))
	}

	logger.Debug("running scenario", "name", s.Name, "clients", len(s.Clients), "steps", len(s.Steps))
	result, err := scenario.Run(cmd.Context(), s, ledgerOpts...)
	if err != nil {
		_ = formatter.Error(ErrCodeRun, "scenario could not run", err.Error())
		return WrapExitError(ExitFailure, "scenario could not run", err)
	}

	out.Pass = result.Pass
	out.Trace = result.Trace
	out.Balances = result.Balances
	out.Errors = result.Errors

	if reg != nil {
		var buf bytes.Buffer
		if err := metrics.WriteText(&buf, reg); err != nil {
			return WrapExitError(ExitCommandError, "failed to write metrics", err)
		}
		out.Metrics = buf.String()
	}

	switch {
	case opts.Format != "json":
		writeRunText(cmd.OutOrStdout(), out)
	case out.Pass:
		if err := formatter.Success(out); err != nil {
			return err
		}
	default:
		if err := formatter.Error(ErrCodeExpected, "expectations failed", out); err != nil {
			return err
		}
	}

	if !out.Pass {
		return NewExitError(ExitFailure, fmt.Sprintf("scenario %s: %d expectation(s) failed", s.Name, len(out.Errors)))
	}
	return nil
}

func writeRunText(w io.Writer, r RunResult) {
	fmt.Fprintf(w, "Scenario: %s\n\n", r.Scenario)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, ev := range r.Trace {
		amount := ""
		if ev.Amount != nil {
			amount = fmt.Sprintf("%d", *ev.Amount)
		}
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\t%s\t%s\tbalance=%d\n",
			ev.Seq, ev.Command, ev.Client, ev.To, amount, ev.Outcome, ev.Balance)
	}
	tw.Flush()

	fmt.Fprintln(w, "\nBalances:")
	for _, c := range sortedNames(r.Balances) {
		fmt.Fprintf(w, "  %s: %d\n", c, r.Balances[c])
	}

	if r.Journal != "" {
		fmt.Fprintf(w, "\nJournal: %s (session %s)\n", r.Journal, r.Session)
	}
	if r.Metrics != "" {
		fmt.Fprintf(w, "\n%s", r.Metrics)
	}

	fmt.Fprintln(w)
	if r.Pass {
		fmt.Fprintln(w, "✓ PASS")
		return
	}
	fmt.Fprintln(w, "✗ FAIL")
	for _, e := range r.Errors {
		fmt.Fprintf(w, "  %s\n", e)
	}
}

// sortedNames returns the keys of m in byte order.
func sortedNames(m map[string]int64) []string {
	return slices.Sorted(maps.Keys(m))
}
