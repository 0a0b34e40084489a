package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const entryColumns = `id, session, seq, command, client_id, counterparty_id, name,
	amount, balance, counterparty_balance, code, message`

// Entries returns every entry of a session ordered by seq ASC, id ASC.
// An empty session means the journal's own session.
//
// Returns an empty slice (not nil) if the session has no entries.
func (j *Journal) Entries(ctx context.Context, session string) ([]Entry, error) {
	if session == "" {
		session = j.session
	}
	return j.query(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE session = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, session)
}

// EntriesForClient returns the entries of a session where the client is
// either the primary client or the counterparty.
func (j *Journal) EntriesForClient(ctx context.Context, session, clientID string) ([]Entry, error) {
	if session == "" {
		session = j.session
	}
	return j.query(ctx, `
		SELECT `+entryColumns+`
		FROM entries
		WHERE session = ? AND (client_id = ? OR counterparty_id = ?)
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`, session, clientID, clientID)
}

// Sessions lists the recorded session ids, oldest first.
func (j *Journal) Sessions(ctx context.Context) ([]string, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT session
		FROM entries
		GROUP BY session
		ORDER BY MIN(rowid) ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// HasSession reports whether any entry was recorded under session.
// An empty session means the journal's own session.
func (j *Journal) HasSession(ctx context.Context, session string) (bool, error) {
	if session == "" {
		session = j.session
	}
	var found bool
	err := j.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM entries WHERE session = ?)
	`, session).Scan(&found)
	if err != nil {
		return false, fmt.Errorf("query session %s: %w", session, err)
	}
	return found, nil
}

// LatestSession returns the most recently started session, or "" when the
// journal is empty.
func (j *Journal) LatestSession(ctx context.Context) (string, error) {
	var s string
	err := j.db.QueryRowContext(ctx, `
		SELECT session
		FROM entries
		ORDER BY rowid DESC
		LIMIT 1
	`).Scan(&s)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query latest session: %w", err)
	}
	return s, nil
}

func (j *Journal) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID,
			&e.Session,
			&e.Seq,
			&e.Command,
			&e.ClientID,
			&e.CounterpartyID,
			&e.Name,
			&e.Amount,
			&e.Balance,
			&e.CounterpartyBalance,
			&e.Code,
			&e.Message,
		); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}
