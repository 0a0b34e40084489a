// Package journal provides a SQLite-backed audit trail of ledger outcomes.
//
// A Journal implements ledger.Recorder: attach it with ledger.WithRecorder
// and every register, add, withdraw, send, get and changeLimit outcome is
// appended as one row. The journal is write-only from the ledger's point of
// view; it is never read back to rebuild balances.
//
// # Identity and ordering
//
//   - Entry ids are SHA-256 over canonical JSON of the entry with the
//     "ledger/entry/v1" domain prefix (see internal/canon).
//   - Every Journal writes under one session id; seq is unique per session.
//   - Queries order by seq ASC, id ASC COLLATE BINARY.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - schema version tracked in PRAGMA user_version
package journal
