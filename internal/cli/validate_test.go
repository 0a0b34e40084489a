package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Valid(t *testing.T) {
	path := writeScenario(t, "pass.yaml", passingScenario)

	stdout, _, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, "✓ "+path+" (cli_pass, 2 steps)")
}

func TestValidate_Invalid(t *testing.T) {
	good := writeScenario(t, "pass.yaml", passingScenario)
	bad := writeScenario(t, "bad.yaml", "name: bad\nsteps: [{command: deposit, client: A}]\n")

	stdout, _, err := execute(t, "validate", good, bad)
	require.Error(t, err)

	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, stdout, "✓ "+good)
	assert.Contains(t, stdout, "✗ "+bad)
	assert.Contains(t, stdout, "schema validation failed")
}

func TestValidate_JSON(t *testing.T) {
	bad := writeScenario(t, "bad.yaml", "name: bad\nsteps: [{command: add, client: A, amount: 1, typo: 1}]\n")

	stdout, _, err := execute(t, "validate", bad, "--format", "json")
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSchema, resp.Error.Code)
}

func TestValidate_NoArgs(t *testing.T) {
	_, _, err := execute(t, "validate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}
