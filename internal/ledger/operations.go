package ledger

import (
	"context"
	"math"
)

// Deposit adds amount to the client's balance.
func (l *Ledger) Deposit(ctx context.Context, id ClientID, amount int64) error {
	return l.deposit(ctx, id, amount).Err
}

// Withdraw subtracts amount from the client's balance.
func (l *Ledger) Withdraw(ctx context.Context, id ClientID, amount int64) error {
	return l.withdraw(ctx, id, amount).Err
}

// Transfer moves amount from sender to recipient.
//
// Both legs are checked before either balance changes: the sender with
// (amount, senderBalance, senderBalance-amount) and then the recipient with
// (amount, recipientBalance, recipientBalance+amount). A rejected leg leaves
// both balances untouched.
func (l *Ledger) Transfer(ctx context.Context, from, to ClientID, amount int64) error {
	return l.transfer(ctx, from, to, amount).Err
}

// Balance returns the client's current balance. It never runs the limit
// check and never mutates state.
func (l *Ledger) Balance(ctx context.Context, id ClientID) (int64, error) {
	o := l.balance(ctx, id)
	return o.Balance, o.Err
}

// ChangeLimit replaces the client's policy unconditionally. The new policy
// applies from the next operation on. A nil policy resets to AllowAll.
func (l *Ledger) ChangeLimit(ctx context.Context, id ClientID, policy LimitPolicy) error {
	return l.changeLimit(ctx, id, policy).Err
}

func (l *Ledger) deposit(ctx context.Context, id ClientID, amount int64) Outcome {
	o := l.adjust(CommandAdd, id, amount, addInt64)
	l.record(ctx, o)
	return o
}

func (l *Ledger) withdraw(ctx context.Context, id ClientID, amount int64) Outcome {
	o := l.adjust(CommandWithdraw, id, amount, subInt64)
	l.record(ctx, o)
	return o
}

// adjust checks and applies a single-client balance change under l.write.
// The seq is taken once the outcome is settled, so reads issued by the
// policy are numbered before the operation that triggered them.
func (l *Ledger) adjust(command string, id ClientID, amount int64, apply func(balance, amount int64) (int64, bool)) Outcome {
	l.write.Lock()
	defer l.write.Unlock()

	o := Outcome{Command: command, ClientID: id, Amount: amount}

	c, err := l.load(id)
	if err != nil {
		o.Err = err
		o.Seq = l.clock.Next()
		return o
	}

	o.Name = c.name
	o.Balance = c.balance
	updated, overflow := apply(c.balance, amount)
	if o.Err = checkLimit(c, amount, updated, overflow); o.Err == nil {
		o.Balance = l.setBalance(id, updated)
	}
	o.Seq = l.clock.Next()
	return o
}

func (l *Ledger) transfer(ctx context.Context, from, to ClientID, amount int64) Outcome {
	o := l.move(from, to, amount)
	l.record(ctx, o)
	return o
}

// move checks both legs of a transfer and applies them together.
func (l *Ledger) move(from, to ClientID, amount int64) Outcome {
	l.write.Lock()
	defer l.write.Unlock()

	o := Outcome{
		Command:        CommandSend,
		ClientID:       from,
		CounterpartyID: to,
		Amount:         amount,
	}
	o.Err = l.applyTransfer(&o, from, to, amount)
	o.Seq = l.clock.Next()
	return o
}

// applyTransfer must be called with l.write held and l.mu released.
func (l *Ledger) applyTransfer(o *Outcome, from, to ClientID, amount int64) error {
	sender, recipient, err := l.loadPair(from, to)
	if sender.id != "" {
		o.Name = sender.name
		o.Balance = sender.balance
	}
	if err != nil {
		return err
	}
	o.CounterpartyBalance = recipient.balance

	senderUpdated, senderOverflow := subInt64(sender.balance, amount)
	recipientUpdated, recipientOverflow := addInt64(recipient.balance, amount)

	if err := checkLimit(sender, amount, senderUpdated, senderOverflow); err != nil {
		return err
	}
	if err := checkLimit(recipient, amount, recipientUpdated, recipientOverflow); err != nil {
		return err
	}

	o.Balance, o.CounterpartyBalance = l.commitTransfer(from, to, amount)
	return nil
}

func (l *Ledger) balance(ctx context.Context, id ClientID) Outcome {
	o := Outcome{Command: CommandGet, ClientID: id}

	c, err := l.load(id)
	if err != nil {
		o.Err = err
	} else {
		o.Name = c.name
		o.Balance = c.balance
	}
	o.Seq = l.clock.Next()

	l.record(ctx, o)
	return o
}

func (l *Ledger) changeLimit(ctx context.Context, id ClientID, policy LimitPolicy) Outcome {
	o := l.replacePolicy(id, policy)
	l.record(ctx, o)
	return o
}

func (l *Ledger) replacePolicy(id ClientID, policy LimitPolicy) Outcome {
	l.write.Lock()
	defer l.write.Unlock()
	l.mu.Lock()
	defer l.mu.Unlock()

	o := Outcome{Seq: l.clock.Next(), Command: CommandChangeLimit, ClientID: id}

	c, err := l.get(id)
	if err != nil {
		o.Err = err
		return o
	}
	c.policy = orDefault(policy)
	o.Name = c.name
	o.Balance = c.balance
	return o
}

// load copies the client record.
func (l *Ledger) load(id ClientID) (client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.get(id)
	if err != nil {
		return client{}, err
	}
	return *c, nil
}

// loadPair copies sender then recipient in one critical section. When only
// the recipient is missing the sender copy is still returned.
func (l *Ledger) loadPair(from, to ClientID) (client, client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sender, err := l.get(from)
	if err != nil {
		return client{}, client{}, err
	}
	recipient, err := l.get(to)
	if err != nil {
		return *sender, client{}, err
	}
	return *sender, *recipient, nil
}

// setBalance stores a checked balance. Must be called with l.write held.
func (l *Ledger) setBalance(id ClientID, balance int64) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.clients[id].balance = balance
	return balance
}

// commitTransfer applies both legs. Relative updates keep a self-transfer
// balance-neutral. Must be called with l.write held.
func (l *Ledger) commitTransfer(from, to ClientID, amount int64) (int64, int64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	sender, recipient := l.clients[from], l.clients[to]
	sender.balance -= amount
	recipient.balance += amount
	return sender.balance, recipient.balance
}

// checkLimit is the shared limit check. Checks run in a fixed order and the
// first failure wins:
//  1. amount <= 0          -> NonPositiveAmount
//  2. int64 overflow       -> BalanceOverflow
//  3. proposed balance < 0 -> InsufficientFunds
//  4. policy says no       -> PolicyRejected
//
// c is a copy taken before the change, so c.balance is the balance before.
// Must be called with l.mu released: the policy may read the ledger.
func checkLimit(c client, amount, updated int64, overflow bool) error {
	if amount <= 0 {
		return newNonPositiveAmountError(c.id, amount)
	}
	if overflow {
		return newOverflowError(c.id, amount)
	}
	if updated < 0 {
		return newInsufficientFundsError(c.id)
	}
	if !c.policy.Evaluate(amount, c.balance, updated) {
		return newPolicyRejectedError(c.id)
	}
	return nil
}

func addInt64(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, true
	}
	return a + b, false
}

func subInt64(a, b int64) (int64, bool) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, true
	}
	return a - b, false
}
