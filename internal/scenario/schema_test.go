package scenario

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSchema_TestdataScenarios(t *testing.T) {
	for _, name := range []string{"basic", "recipient_limit", "failing"} {
		t.Run(name, func(t *testing.T) {
			data, err := os.ReadFile("testdata/scenarios/" + name + ".yaml")
			require.NoError(t, err)
			assert.NoError(t, ValidateSchema(data))
		})
	}
}

func TestValidateSchema_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown top-level field", "name: x\nsteps: [{command: get, client: A}]\nextra: 1"},
		{"unknown step field", "name: x\nsteps: [{command: get, client: A, expected: {}}]"},
		{"empty name", "name: \"\"\nsteps: [{command: get, client: A}]"},
		{"no steps", "name: x\nsteps: []"},
		{"bad command", "name: x\nsteps: [{command: deposit, client: A}]"},
		{"amount not an int", "name: x\nsteps: [{command: add, client: A, amount: five}]"},
		{"send without to", "name: x\nsteps: [{command: send, client: A, amount: 1}]"},
		{"add without amount", "name: x\nsteps: [{command: add, client: A}]"},
		{"register without balance", "name: x\nsteps: [{command: register, client: A}]"},
		{"client with zero balance", "name: x\nclients: [{name: A, balance: 0}]\nsteps: [{command: get, client: A}]"},
		{"unknown error code", "name: x\nsteps: [{command: get, client: A, expect: {error: Boom}}]"},
		{"negative expected balance", "name: x\nsteps: [{command: get, client: A}]\nexpect_balances: {A: -1}"},
		{"unknown limit bound", "name: x\nsteps: [{command: changeLimit, client: A, limit: {below: 1}}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSchema([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestValidateSchema_EmptyDocument(t *testing.T) {
	err := ValidateSchema([]byte(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")
}

func TestValidateSchema_BadYAML(t *testing.T) {
	err := ValidateSchema([]byte("name: [unclosed"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestValidateFile(t *testing.T) {
	s, err := ValidateFile("testdata/scenarios/recipient_limit.yaml")
	require.NoError(t, err)
	assert.Equal(t, "recipient_limit", s.Name)

	_, err = ValidateFile("testdata/scenarios/missing_to.yaml")
	assert.Error(t, err)
}
