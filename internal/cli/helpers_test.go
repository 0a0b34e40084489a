package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ledger/internal/config"
)

func defaultConfig() config.Config {
	return config.Config{OnError: "log", LogLevel: "info", Format: "text"}
}

// execute runs the root command with args and returns stdout, stderr and
// the command error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeWithConfig(t, defaultConfig(), args...)
}

func executeWithConfig(t *testing.T, cfg config.Config, args ...string) (string, string, error) {
	t.Helper()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	cmd := NewRootCommand(cfg)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeScenario writes a scenario file into a temp dir and returns its path.
func writeScenario(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const passingScenario = `name: cli_pass
clients:
  - name: A
    balance: 100
  - name: B
    balance: 10
steps:
  - command: send
    client: A
    to: B
    amount: 30
    expect: { balance: 70 }
  - command: withdraw
    client: B
    amount: 100
    expect: { error: InsufficientFunds }
expect_balances:
  A: 70
  B: 40
`

const failingScenario = `name: cli_fail
clients:
  - name: A
    balance: 100
steps:
  - command: add
    client: A
    amount: 1
    expect: { balance: 100 }
`
