package ledger

import "context"

// Command names, shared by the dispatcher table and recorded outcomes.
const (
	CommandRegister    = "register"
	CommandAdd         = "add"
	CommandWithdraw    = "withdraw"
	CommandSend        = "send"
	CommandGet         = "get"
	CommandChangeLimit = "changeLimit"
)

// Outcome describes one applied (or rejected) ledger operation.
//
// Balance is the primary client's balance after the operation: unchanged on
// failure, 0 when the client could not be resolved. For send the primary
// client is the sender and CounterpartyBalance is the recipient's.
type Outcome struct {
	Seq                 int64
	Command             string
	ClientID            ClientID
	CounterpartyID      ClientID
	Name                string
	Amount              int64
	Balance             int64
	CounterpartyBalance int64

	// Err is nil on success, otherwise a *Error.
	Err error
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Code returns the error code, or "" on success.
func (o Outcome) Code() ErrorCode {
	return CodeOf(o.Err)
}

// Recorder receives every outcome after the ledger lock is released.
//
// Implemented by the SQLite journal and the Prometheus metrics. A recorder
// error is logged and otherwise ignored; it never changes the outcome.
type Recorder interface {
	Record(ctx context.Context, o Outcome) error
}

// RecorderFunc adapts a plain function to Recorder.
type RecorderFunc func(ctx context.Context, o Outcome) error

// Record calls f(ctx, o).
func (f RecorderFunc) Record(ctx context.Context, o Outcome) error {
	return f(ctx, o)
}
