package journal

import (
	"context"
	"fmt"

	"github.com/roach88/ledger/internal/canon"
	"github.com/roach88/ledger/internal/ledger"
)

// Entry is one journaled outcome.
type Entry struct {
	ID                  string `json:"id"`
	Session             string `json:"session"`
	Seq                 int64  `json:"seq"`
	Command             string `json:"command"`
	ClientID            string `json:"client_id,omitempty"`
	CounterpartyID      string `json:"counterparty_id,omitempty"`
	Name                string `json:"name,omitempty"`
	Amount              int64  `json:"amount"`
	Balance             int64  `json:"balance"`
	CounterpartyBalance int64  `json:"counterparty_balance,omitempty"`

	// Code and Message are empty for successful operations.
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the journaled operation succeeded.
func (e Entry) OK() bool {
	return e.Code == ""
}

// NewEntry converts an outcome into an entry of the given session and
// computes its content-addressed id.
func NewEntry(session string, o ledger.Outcome) (Entry, error) {
	e := Entry{
		Session:             session,
		Seq:                 o.Seq,
		Command:             o.Command,
		ClientID:            string(o.ClientID),
		CounterpartyID:      string(o.CounterpartyID),
		Name:                o.Name,
		Amount:              o.Amount,
		Balance:             o.Balance,
		CounterpartyBalance: o.CounterpartyBalance,
		Code:                string(o.Code()),
	}
	if o.Err != nil {
		e.Message = o.Err.Error()
	}

	id, err := canon.Hash(canon.DomainEntry, e.hashFields())
	if err != nil {
		return Entry{}, fmt.Errorf("entry id: %w", err)
	}
	e.ID = id
	return e, nil
}

func (e Entry) hashFields() map[string]any {
	return map[string]any{
		"session":              e.Session,
		"seq":                  e.Seq,
		"command":              e.Command,
		"client_id":            e.ClientID,
		"counterparty_id":      e.CounterpartyID,
		"name":                 e.Name,
		"amount":               e.Amount,
		"balance":              e.Balance,
		"counterparty_balance": e.CounterpartyBalance,
		"code":                 e.Code,
		"message":              e.Message,
	}
}

// Record appends the outcome to the journal. Implements ledger.Recorder.
//
// Uses ON CONFLICT(id) DO NOTHING: recording the same outcome twice is a
// no-op.
func (j *Journal) Record(ctx context.Context, o ledger.Outcome) error {
	e, err := NewEntry(j.session, o)
	if err != nil {
		return fmt.Errorf("record outcome: %w", err)
	}
	return j.write(ctx, e)
}

func (j *Journal) write(ctx context.Context, e Entry) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO entries
		(id, session, seq, command, client_id, counterparty_id, name,
		 amount, balance, counterparty_balance, code, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.Session,
		e.Seq,
		e.Command,
		e.ClientID,
		e.CounterpartyID,
		e.Name,
		e.Amount,
		e.Balance,
		e.CounterpartyBalance,
		e.Code,
		e.Message,
	)
	if err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}

var _ ledger.Recorder = (*Journal)(nil)
