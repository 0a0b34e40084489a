package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ledger/internal/ledger"
)

func TestLoad_Valid(t *testing.T) {
	s, err := Load("testdata/scenarios/basic.yaml")
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Name)
	require.Len(t, s.Clients, 1)
	assert.Equal(t, int64(100), s.Clients[0].Balance)
	require.Len(t, s.Steps, 3)
	assert.Equal(t, "add", s.Steps[0].Command)
	require.NotNil(t, s.Steps[0].Amount)
	assert.Equal(t, int64(5), *s.Steps[0].Amount)
	assert.Equal(t, "InsufficientFunds", s.Steps[1].Expect.Error)
	assert.Equal(t, map[string]int64{"A": 105}, s.ExpectBalances)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("testdata/scenarios/does_not_exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoad_UnknownField(t *testing.T) {
	_, err := Load("testdata/scenarios/unknown_field.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "steps: [{command: get, client: A}]",
			want: "name is required",
		},
		{
			name: "no steps",
			yaml: "name: x\nsteps: []",
			want: "at least one step",
		},
		{
			name: "unknown command",
			yaml: "name: x\nsteps: [{command: register2, client: A}]",
			want: `unknown command "register2"`,
		},
		{
			name: "missing client",
			yaml: "name: x\nsteps: [{command: get}]",
			want: "client is required",
		},
		{
			name: "add without amount",
			yaml: "name: x\nsteps: [{command: add, client: A}]",
			want: "amount is required for add",
		},
		{
			name: "send without to",
			yaml: "name: x\nsteps: [{command: send, client: A, amount: 1}]",
			want: "to is required for send",
		},
		{
			name: "register without balance",
			yaml: "name: x\nsteps: [{command: register, client: A}]",
			want: "balance is required for register",
		},
		{
			name: "to on withdraw",
			yaml: "name: x\nsteps: [{command: withdraw, client: A, to: B, amount: 1}]",
			want: "to is only valid for send",
		},
		{
			name: "limit on add",
			yaml: "name: x\nsteps: [{command: add, client: A, amount: 1, limit: {amount_below: 1}}]",
			want: "limit is only valid",
		},
		{
			name: "unknown error code",
			yaml: "name: x\nsteps: [{command: get, client: A, expect: {error: Boom}}]",
			want: `unknown error code "Boom"`,
		},
		{
			name: "duplicate client",
			yaml: "name: x\nclients: [{name: A, balance: 1}, {name: A, balance: 2}]\nsteps: [{command: get, client: A}]",
			want: `duplicate client "A"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLimit_Policy(t *testing.T) {
	var none *Limit
	assert.Nil(t, none.Policy())

	l := &Limit{AmountBelow: ledger.Bound(100), BalanceAfterAbove: ledger.Bound(700)}
	p := l.Policy()
	require.NotNil(t, p)

	assert.True(t, p.Evaluate(95, 800, 705))
	assert.False(t, p.Evaluate(100, 800, 700))
	assert.False(t, p.Evaluate(10, 705, 695))
}

func TestDemo_Parses(t *testing.T) {
	s, err := Demo()
	require.NoError(t, err)

	assert.Equal(t, "demo", s.Name)
	assert.Len(t, s.Steps, 23)
	assert.NoError(t, ValidateSchema(DemoYAML()))
}
