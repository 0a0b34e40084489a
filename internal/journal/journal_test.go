package journal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	j, err := Open(path)
	require.NoError(t, err)
	defer j.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")

	for i := 0; i < 3; i++ {
		j, err := Open(path)
		require.NoError(t, err, "Open() iteration %d", i)
		require.NoError(t, j.Close())
	}
}

func TestOpen_SetsSchemaVersion(t *testing.T) {
	j := createTestJournal(t)

	version, err := j.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, currentSchemaVersion, version)
}

func TestOpen_WALMode(t *testing.T) {
	j := createTestJournal(t)

	var mode string
	require.NoError(t, j.db.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing", "dir", "journal.db"))
	assert.Error(t, err)
}

func TestOpen_DefaultSessionIsUUID(t *testing.T) {
	j := createTestJournal(t)

	assert.Len(t, j.Session(), 36)
}

func TestOpen_WithSession(t *testing.T) {
	j := createTestJournal(t, WithSession("demo"))

	assert.Equal(t, "demo", j.Session())
}

func TestClose_NilDB(t *testing.T) {
	j := &Journal{}
	assert.NoError(t, j.Close())
}
