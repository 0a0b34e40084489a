package journal

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/roach88/ledger/internal/ledger"
	"github.com/stretchr/testify/require"
)

// createTestJournal opens a journal in a temp directory.
func createTestJournal(t *testing.T, opts ...Option) *Journal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := Open(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

// newJournaledLedger creates a ledger that records into j.
func newJournaledLedger(j *Journal) *ledger.Ledger {
	return ledger.New(
		ledger.WithIDGenerator(ledger.NewSequenceGenerator("c")),
		ledger.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		ledger.WithRecorder(j),
	)
}
