package ledger

import (
	"context"
	"math"
)

// Command is one of the typed commands accepted by Dispatcher.Execute:
// DepositCommand, WithdrawCommand, TransferCommand, QueryCommand or
// ChangeLimitCommand.
type Command interface {
	// Name returns the dispatch name (add, withdraw, send, get, changeLimit).
	Name() string

	apply(ctx context.Context, l *Ledger) Outcome
}

// DepositCommand is dispatched as "add".
type DepositCommand struct {
	ID     ClientID
	Amount int64
}

// WithdrawCommand is dispatched as "withdraw".
type WithdrawCommand struct {
	ID     ClientID
	Amount int64
}

// TransferCommand is dispatched as "send".
type TransferCommand struct {
	From   ClientID
	To     ClientID
	Amount int64
}

// QueryCommand is dispatched as "get". Continuation, when set, receives the
// balance on success.
type QueryCommand struct {
	ID           ClientID
	Continuation func(balance int64)
}

// ChangeLimitCommand is dispatched as "changeLimit".
type ChangeLimitCommand struct {
	ID     ClientID
	Policy LimitPolicy
}

func (DepositCommand) Name() string     { return CommandAdd }
func (WithdrawCommand) Name() string    { return CommandWithdraw }
func (TransferCommand) Name() string    { return CommandSend }
func (QueryCommand) Name() string       { return CommandGet }
func (ChangeLimitCommand) Name() string { return CommandChangeLimit }

func (c DepositCommand) apply(ctx context.Context, l *Ledger) Outcome {
	return l.deposit(ctx, c.ID, c.Amount)
}

func (c WithdrawCommand) apply(ctx context.Context, l *Ledger) Outcome {
	return l.withdraw(ctx, c.ID, c.Amount)
}

func (c TransferCommand) apply(ctx context.Context, l *Ledger) Outcome {
	return l.transfer(ctx, c.From, c.To, c.Amount)
}

func (c QueryCommand) apply(ctx context.Context, l *Ledger) Outcome {
	o := l.balance(ctx, c.ID)
	if o.Err == nil && c.Continuation != nil {
		c.Continuation(o.Balance)
	}
	return o
}

func (c ChangeLimitCommand) apply(ctx context.Context, l *Ledger) Outcome {
	return l.changeLimit(ctx, c.ID, c.Policy)
}

// Result is what the dispatcher hands back to the command issuer.
//
// Err carries the same error that was reported to the error channel; the
// issuer may inspect it or ignore it.
type Result struct {
	Command string
	Seq     int64
	Balance int64
	Err     error
}

// OK reports whether the command succeeded.
func (r Result) OK() bool {
	return r.Err == nil
}

// decoder turns positional arguments into a typed command.
type decoder func(args []any) (Command, error)

// Dispatcher routes named commands to ledger operations.
//
// Dispatch is synchronous. The dispatcher only converts positional
// arguments into typed commands; all domain validation belongs to the
// invoked operation. Every failure is reported to the ledger's error
// channel and never panics out of Dispatch or Execute (unless the channel's
// UnhandledPanic policy or an observer chooses to).
type Dispatcher struct {
	ledger   *Ledger
	decoders map[string]decoder
}

// NewDispatcher creates a dispatcher bound to l.
func NewDispatcher(l *Ledger) *Dispatcher {
	return &Dispatcher{
		ledger: l,
		decoders: map[string]decoder{
			CommandAdd:         decodeDeposit,
			CommandWithdraw:    decodeWithdraw,
			CommandSend:        decodeTransfer,
			CommandGet:         decodeQuery,
			CommandChangeLimit: decodeChangeLimit,
		},
	}
}

// Commands returns the dispatchable command names.
func (d *Dispatcher) Commands() []string {
	return []string{CommandAdd, CommandWithdraw, CommandSend, CommandGet, CommandChangeLimit}
}

// Execute runs a typed command.
func (d *Dispatcher) Execute(ctx context.Context, cmd Command) Result {
	o := cmd.apply(ctx, d.ledger)
	if o.Err != nil {
		d.ledger.errors.Report(o.Err)
	}
	return Result{
		Command: o.Command,
		Seq:     o.Seq,
		Balance: o.Balance,
		Err:     o.Err,
	}
}

// Dispatch runs the command registered under name with positional args:
//
//	add         id, amount
//	withdraw    id, amount
//	send        senderID, recipientID, amount
//	get         id[, func(balance int64)]
//	changeLimit id, policy
//
// Ids may be ClientID or string. Amounts may be any Go integer type, or a
// float64 holding an integral value. Policies may be a LimitPolicy, a
// func(amount, before, after int64) bool, or nil.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args ...any) Result {
	dec, ok := d.decoders[name]
	if !ok {
		err := newUnknownCommandError(name)
		d.ledger.errors.Report(err)
		return Result{Command: name, Err: err}
	}

	cmd, err := dec(args)
	if err != nil {
		d.ledger.errors.Report(err)
		return Result{Command: name, Err: err}
	}

	return d.Execute(ctx, cmd)
}

func decodeDeposit(args []any) (Command, error) {
	id, amount, err := decodeIDAmount(CommandAdd, args)
	if err != nil {
		return nil, err
	}
	return DepositCommand{ID: id, Amount: amount}, nil
}

func decodeWithdraw(args []any) (Command, error) {
	id, amount, err := decodeIDAmount(CommandWithdraw, args)
	if err != nil {
		return nil, err
	}
	return WithdrawCommand{ID: id, Amount: amount}, nil
}

func decodeIDAmount(command string, args []any) (ClientID, int64, error) {
	if len(args) != 2 {
		return "", 0, newInvalidArgumentsError(command, "want 2 arguments (id, amount), got %d", len(args))
	}
	id, ok := toClientID(args[0])
	if !ok {
		return "", 0, newInvalidArgumentsError(command, "id: unsupported type %T", args[0])
	}
	amount, ok := toAmount(args[1])
	if !ok {
		return "", 0, newInvalidArgumentsError(command, "amount: unsupported value %v (%T)", args[1], args[1])
	}
	return id, amount, nil
}

func decodeTransfer(args []any) (Command, error) {
	if len(args) != 3 {
		return nil, newInvalidArgumentsError(CommandSend, "want 3 arguments (senderId, recipientId, amount), got %d", len(args))
	}
	from, ok := toClientID(args[0])
	if !ok {
		return nil, newInvalidArgumentsError(CommandSend, "senderId: unsupported type %T", args[0])
	}
	to, ok := toClientID(args[1])
	if !ok {
		return nil, newInvalidArgumentsError(CommandSend, "recipientId: unsupported type %T", args[1])
	}
	amount, ok := toAmount(args[2])
	if !ok {
		return nil, newInvalidArgumentsError(CommandSend, "amount: unsupported value %v (%T)", args[2], args[2])
	}
	return TransferCommand{From: from, To: to, Amount: amount}, nil
}

func decodeQuery(args []any) (Command, error) {
	if len(args) < 1 || len(args) > 2 {
		return nil, newInvalidArgumentsError(CommandGet, "want 1 or 2 arguments (id[, continuation]), got %d", len(args))
	}
	id, ok := toClientID(args[0])
	if !ok {
		return nil, newInvalidArgumentsError(CommandGet, "id: unsupported type %T", args[0])
	}
	cmd := QueryCommand{ID: id}
	if len(args) == 2 && args[1] != nil {
		fn, ok := args[1].(func(int64))
		if !ok {
			return nil, newInvalidArgumentsError(CommandGet, "continuation: want func(int64), got %T", args[1])
		}
		cmd.Continuation = fn
	}
	return cmd, nil
}

func decodeChangeLimit(args []any) (Command, error) {
	if len(args) != 2 {
		return nil, newInvalidArgumentsError(CommandChangeLimit, "want 2 arguments (id, policy), got %d", len(args))
	}
	id, ok := toClientID(args[0])
	if !ok {
		return nil, newInvalidArgumentsError(CommandChangeLimit, "id: unsupported type %T", args[0])
	}
	policy, ok := toPolicy(args[1])
	if !ok {
		return nil, newInvalidArgumentsError(CommandChangeLimit, "policy: unsupported type %T", args[1])
	}
	return ChangeLimitCommand{ID: id, Policy: policy}, nil
}

func toClientID(v any) (ClientID, bool) {
	switch id := v.(type) {
	case ClientID:
		return id, true
	case string:
		return ClientID(id), true
	default:
		return "", false
	}
}

func toAmount(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

func toPolicy(v any) (LimitPolicy, bool) {
	switch p := v.(type) {
	case nil:
		return nil, true
	case LimitPolicy:
		return p, true
	case func(amount, before, after int64) bool:
		return PolicyFunc(p), true
	default:
		return nil, false
	}
}
