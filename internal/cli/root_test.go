package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ledger/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(defaultConfig())
	require.NotNil(t, cmd)
	assert.Equal(t, "ledger", cmd.Use)
	assert.Contains(t, cmd.Long, "account ledger")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(defaultConfig())
	commands := []string{"run", "demo", "validate", "trace"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand(defaultConfig())

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	onErrorFlag := cmd.PersistentFlags().Lookup("on-error")
	require.NotNil(t, onErrorFlag)
	assert.Equal(t, "log", onErrorFlag.DefValue)
}

func TestFlagDefaultsFromConfig(t *testing.T) {
	cfg := config.Config{OnError: "ignore", LogLevel: "warn", Format: "json", Journal: "/tmp/j.db", Metrics: true}
	cmd := NewRootCommand(cfg)

	assert.Equal(t, "json", cmd.PersistentFlags().Lookup("format").DefValue)
	assert.Equal(t, "ignore", cmd.PersistentFlags().Lookup("on-error").DefValue)

	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/j.db", runCmd.Flags().Lookup("journal").DefValue)
	assert.Equal(t, "true", runCmd.Flags().Lookup("metrics").DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, "demo", "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestInvalidOnError(t *testing.T) {
	_, _, err := execute(t, "demo", "--on-error", "crash")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown unhandled-error policy")
}
