package canon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashDeterminism(t *testing.T) {
	obj := map[string]any{"command": "add", "seq": int64(1), "amount": int64(5)}
	reordered := map[string]any{"seq": int64(1), "amount": int64(5), "command": "add"}

	a, err := Hash(DomainEntry, obj)
	require.NoError(t, err)
	b, err := Hash(DomainEntry, reordered)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64, "SHA-256 hex is 64 characters")
}

func TestHashChangesWithInput(t *testing.T) {
	a, err := Hash(DomainEntry, map[string]any{"seq": int64(1)})
	require.NoError(t, err)
	b, err := Hash(DomainEntry, map[string]any{"seq": int64(2)})
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHashDomainSeparation(t *testing.T) {
	obj := map[string]any{"seq": int64(1)}

	a, err := Hash("ledger/entry/v1", obj)
	require.NoError(t, err)
	b, err := Hash("ledger/entry/v2", obj)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestHashKnownValue(t *testing.T) {
	data, err := Marshal(map[string]any{"a": 1})
	require.NoError(t, err)

	got, err := Hash("d", map[string]any{"a": 1})
	require.NoError(t, err)

	assert.Equal(t, hashWithDomain("d", data), got)
	assert.Equal(t, hashWithDomain("d", []byte(`{"a":1}`)), got)
}

func TestHashRejectsFloats(t *testing.T) {
	_, err := Hash(DomainEntry, map[string]any{"amount": 1.5})
	assert.Error(t, err)
}
