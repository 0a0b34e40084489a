package cli

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// journalDemo runs the demo twice into a fresh journal and returns its path.
func journalDemo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	for _, session := range []string{"first", "second"} {
		_, _, err := execute(t, "demo", "--journal", path, "--session", session, "--on-error", "ignore")
		require.NoError(t, err)
	}
	return path
}

func TestTrace_LatestSession(t *testing.T) {
	path := journalDemo(t)

	stdout, _, err := execute(t, "trace", "--journal", path)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Session: second")
	assert.Contains(t, stdout, "23 entries: 17 applied, 6 rejected")
}

func TestTrace_ExplicitSessionAndClient(t *testing.T) {
	path := journalDemo(t)

	stdout, _, err := execute(t, "trace", "--journal", path, "--session", "first", "--client", "client-4", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   TraceResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &resp))
	assert.Equal(t, "first", resp.Data.Session)

	// client-4 is Alan Whiter: registered, twice on the receiving end of a
	// send (one rejected), queried once.
	require.Len(t, resp.Data.Entries, 4)
	for _, e := range resp.Data.Entries {
		assert.True(t, e.ClientID == "client-4" || e.CounterpartyID == "client-4")
	}
}

func TestTrace_Sessions(t *testing.T) {
	path := journalDemo(t)

	stdout, _, err := execute(t, "trace", "--journal", path, "--sessions")
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, strings.Fields(stdout))
}

func TestTrace_MissingJournal(t *testing.T) {
	_, _, err := execute(t, "trace", "--journal", filepath.Join(t.TempDir(), "missing.db"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "journal not found")
}

func TestTrace_JournalRequired(t *testing.T) {
	_, _, err := execute(t, "trace")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestTrace_UnknownSession(t *testing.T) {
	path := journalDemo(t)

	_, _, err := execute(t, "trace", "--journal", path, "--session", "nope")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}
