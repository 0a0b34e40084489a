package scenario

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/roach88/ledger/internal/ledger"
)

// runner executes one scenario against a fresh ledger.
type runner struct {
	ledger     *ledger.Ledger
	dispatcher *ledger.Dispatcher

	// ids maps client names to assigned ids; names maps them back.
	ids   map[string]ledger.ClientID
	names map[ledger.ClientID]string

	// last is the outcome of the most recent operation.
	last    ledger.Outcome
	applied bool
}

// Run executes a scenario and returns the result.
//
// Each run uses a fresh ledger with ids "client-1", "client-2", ... and a
// logical clock starting at zero. opts are applied after those defaults,
// so callers can attach recorders, a logger or an unhandled-error policy.
//
// Run returns an error only when the scenario cannot be executed (a setup
// client fails to register). Failed expectations are reported in
// Result.Errors.
func Run(ctx context.Context, s *Scenario, opts ...ledger.Option) (*Result, error) {
	r := &runner{
		ids:   make(map[string]ledger.ClientID),
		names: make(map[ledger.ClientID]string),
	}

	base := []ledger.Option{
		ledger.WithIDGenerator(ledger.NewSequenceGenerator("client")),
		ledger.WithRecorder(ledger.RecorderFunc(r.capture)),
	}
	r.ledger = ledger.New(append(base, opts...)...)
	r.dispatcher = ledger.NewDispatcher(r.ledger)

	result := NewResult()

	for i, c := range s.Clients {
		id, err := r.ledger.Register(ctx, c.Name, c.Balance, c.Limit.Policy())
		if err != nil {
			return nil, fmt.Errorf("clients[%d] %q: %w", i, c.Name, err)
		}
		r.bind(c.Name, id)
		result.Trace = append(result.Trace, r.event(nil))
	}

	for i := range s.Steps {
		st := &s.Steps[i]
		r.applied = false
		r.step(ctx, st)
		if !r.applied {
			return nil, fmt.Errorf("steps[%d]: %s produced no outcome", i, st.Command)
		}

		ev := r.event(st)
		result.Trace = append(result.Trace, ev)
		checkExpect(result, i, st, ev)
	}

	for _, c := range r.ledger.Clients() {
		result.Balances[c.Name] = c.Balance
	}
	for _, name := range slices.Sorted(maps.Keys(s.ExpectBalances)) {
		want := s.ExpectBalances[name]
		got, ok := result.Balances[name]
		if !ok {
			result.AddError(fmt.Sprintf("expect_balances: client %q was never registered", name))
			continue
		}
		if got != want {
			result.AddError(fmt.Sprintf("expect_balances: %s: balance = %d, want %d", name, got, want))
		}
	}

	return result, nil
}

// capture is the recorder hook; every operation produces exactly one
// outcome, synchronously.
func (r *runner) capture(_ context.Context, o ledger.Outcome) error {
	r.last = o
	r.applied = true
	return nil
}

func (r *runner) bind(name string, id ledger.ClientID) {
	r.ids[name] = id
	r.names[id] = name
}

// id resolves a client name. Unregistered names pass through as raw ids.
func (r *runner) id(name string) ledger.ClientID {
	if id, ok := r.ids[name]; ok {
		return id
	}
	return ledger.ClientID(name)
}

// name is the inverse of id.
func (r *runner) name(id ledger.ClientID) string {
	if n, ok := r.names[id]; ok {
		return n
	}
	return string(id)
}

func (r *runner) step(ctx context.Context, st *Step) {
	var amount, balance int64
	if st.Amount != nil {
		amount = *st.Amount
	}
	if st.Balance != nil {
		balance = *st.Balance
	}

	switch st.Command {
	case ledger.CommandRegister:
		id, err := r.ledger.Register(ctx, st.Client, balance, st.Limit.Policy())
		if err == nil {
			r.bind(st.Client, id)
		}
	case ledger.CommandAdd:
		r.dispatcher.Execute(ctx, ledger.DepositCommand{ID: r.id(st.Client), Amount: amount})
	case ledger.CommandWithdraw:
		r.dispatcher.Execute(ctx, ledger.WithdrawCommand{ID: r.id(st.Client), Amount: amount})
	case ledger.CommandSend:
		r.dispatcher.Execute(ctx, ledger.TransferCommand{From: r.id(st.Client), To: r.id(st.To), Amount: amount})
	case ledger.CommandGet:
		r.dispatcher.Execute(ctx, ledger.QueryCommand{ID: r.id(st.Client)})
	case ledger.CommandChangeLimit:
		r.dispatcher.Execute(ctx, ledger.ChangeLimitCommand{ID: r.id(st.Client), Policy: st.Limit.Policy()})
	}
}

// event converts the last outcome into a trace event. st is nil for setup
// registrations.
func (r *runner) event(st *Step) TraceEvent {
	o := r.last
	ev := TraceEvent{
		Seq:     o.Seq,
		Command: o.Command,
		Outcome: outcomeLabel(o),
		Balance: o.Balance,
	}

	if o.Command == ledger.CommandRegister {
		ev.Client = o.Name
	} else {
		ev.Client = r.name(o.ClientID)
	}
	if o.Command == ledger.CommandSend {
		ev.To = r.name(o.CounterpartyID)
	}

	switch o.Command {
	case ledger.CommandRegister, ledger.CommandAdd, ledger.CommandWithdraw, ledger.CommandSend:
		amount := o.Amount
		ev.Amount = &amount
	}

	return ev
}

func outcomeLabel(o ledger.Outcome) string {
	if o.OK() {
		return "ok"
	}
	return string(o.Code())
}

func checkExpect(result *Result, index int, st *Step, ev TraceEvent) {
	if st.Expect == nil {
		return
	}

	want := "ok"
	if st.Expect.Error != "" {
		want = st.Expect.Error
	}
	if ev.Outcome != want {
		result.AddError(fmt.Sprintf("steps[%d] %s %s: outcome = %s, want %s", index, st.Command, st.Client, ev.Outcome, want))
	}

	if st.Expect.Balance != nil && ev.Balance != *st.Expect.Balance {
		result.AddError(fmt.Sprintf("steps[%d] %s %s: balance = %d, want %d", index, st.Command, st.Client, ev.Balance, *st.Expect.Balance))
	}
}
