package scenario

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/ledger/internal/canon"
	"github.com/roach88/ledger/internal/ledger"
)

// Snapshot returns the canonical JSON of a run: scenario name, trace and
// final balances. Identical runs produce identical bytes.
func Snapshot(name string, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, ev := range result.Trace {
		m := map[string]any{
			"seq":     ev.Seq,
			"command": ev.Command,
			"client":  ev.Client,
			"outcome": ev.Outcome,
			"balance": ev.Balance,
		}
		if ev.To != "" {
			m["to"] = ev.To
		}
		if ev.Amount != nil {
			m["amount"] = *ev.Amount
		}
		trace[i] = m
	}

	balances := make(map[string]any, len(result.Balances))
	for k, v := range result.Balances {
		balances[k] = v
	}

	return canon.Marshal(map[string]any{
		"scenario_name": name,
		"trace":         trace,
		"balances":      balances,
	})
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
func RunWithGolden(t *testing.T, s *Scenario, opts ...ledger.Option) (*Result, error) {
	t.Helper()

	result, err := Run(context.Background(), s, opts...)
	if err != nil {
		return nil, err
	}

	if err := AssertGolden(t, s.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result's snapshot against a golden
// file without re-running.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	data, err := Snapshot(name, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
