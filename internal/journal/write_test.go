package journal

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/ledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntry_Deterministic(t *testing.T) {
	o := ledger.Outcome{Seq: 3, Command: ledger.CommandAdd, ClientID: "c-1", Name: "A", Amount: 5, Balance: 105}

	a, err := NewEntry("s", o)
	require.NoError(t, err)
	b, err := NewEntry("s", o)
	require.NoError(t, err)

	assert.Equal(t, a.ID, b.ID)
	assert.Len(t, a.ID, 64)
	assert.True(t, a.OK())
	assert.Empty(t, a.Message)
}

func TestNewEntry_IDDependsOnSessionAndSeq(t *testing.T) {
	o := ledger.Outcome{Seq: 1, Command: ledger.CommandGet, ClientID: "c-1"}

	a, err := NewEntry("s1", o)
	require.NoError(t, err)
	b, err := NewEntry("s2", o)
	require.NoError(t, err)
	o.Seq = 2
	c, err := NewEntry("s1", o)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestRecord_CapturesEveryOperation(t *testing.T) {
	ctx := context.Background()
	j := createTestJournal(t, WithSession("s"))
	l := newJournaledLedger(j)

	a, err := l.Register(ctx, "A", 100, nil)
	require.NoError(t, err)
	b, err := l.Register(ctx, "B", 50, nil)
	require.NoError(t, err)

	require.NoError(t, l.Deposit(ctx, a, 5))
	require.Error(t, l.Withdraw(ctx, b, 500))
	require.NoError(t, l.Transfer(ctx, a, b, 10))
	_, err = l.Balance(ctx, b)
	require.NoError(t, err)
	require.NoError(t, l.ChangeLimit(ctx, a, nil))

	entries, err := j.Entries(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 7)

	commands := make([]string, len(entries))
	for i, e := range entries {
		commands[i] = e.Command
		assert.Equal(t, int64(i+1), e.Seq)
		assert.Equal(t, "s", e.Session)
	}
	assert.Equal(t, []string{"register", "register", "add", "withdraw", "send", "get", "changeLimit"}, commands)

	withdraw := entries[3]
	assert.False(t, withdraw.OK())
	assert.Equal(t, "InsufficientFunds", withdraw.Code)
	assert.Equal(t, "InsufficientFunds: not enough funds", withdraw.Message)
	assert.Equal(t, int64(50), withdraw.Balance)

	send := entries[4]
	assert.Equal(t, string(a), send.ClientID)
	assert.Equal(t, string(b), send.CounterpartyID)
	assert.Equal(t, int64(95), send.Balance)
	assert.Equal(t, int64(60), send.CounterpartyBalance)
}

func TestRecord_FailedRegister(t *testing.T) {
	ctx := context.Background()
	j := createTestJournal(t)
	l := newJournaledLedger(j)

	_, err := l.Register(ctx, "A", 0, nil)
	require.Error(t, err)

	entries, err := j.Entries(ctx, "")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "InvalidBalance", entries[0].Code)
	assert.Empty(t, entries[0].ClientID)
	assert.Equal(t, "A", entries[0].Name)
}

func TestRecord_Idempotent(t *testing.T) {
	ctx := context.Background()
	j := createTestJournal(t)
	o := ledger.Outcome{Seq: 1, Command: ledger.CommandGet, ClientID: "c-1", Balance: 10}

	require.NoError(t, j.Record(ctx, o))
	require.NoError(t, j.Record(ctx, o))

	entries, err := j.Entries(ctx, "")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRecord_DuplicateSeqDifferentContentFails(t *testing.T) {
	ctx := context.Background()
	j := createTestJournal(t)

	require.NoError(t, j.Record(ctx, ledger.Outcome{Seq: 1, Command: ledger.CommandGet, ClientID: "c-1"}))
	err := j.Record(ctx, ledger.Outcome{Seq: 1, Command: ledger.CommandGet, ClientID: "c-2"})

	assert.Error(t, err)
}

func TestRecord_FailureDoesNotAffectLedger(t *testing.T) {
	ctx := context.Background()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	l := newJournaledLedger(j)
	require.NoError(t, j.Close())

	id, err := l.Register(ctx, "A", 100, nil)
	require.NoError(t, err)
	require.NoError(t, l.Deposit(ctx, id, 5))

	balance, err := l.Balance(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(105), balance)
}
