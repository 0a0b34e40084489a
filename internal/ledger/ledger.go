package ledger

import (
	"context"
	"log/slog"
	"sync"
)

// ClientID is the opaque identifier of a registered client.
type ClientID string

// Client is a read-only snapshot of a registered client.
type Client struct {
	ID      ClientID
	Name    string
	Balance int64
}

// client is the mutable registry record. ID and name never change after
// registration; balance and policy mutate in place.
type client struct {
	id      ClientID
	name    string
	balance int64
	policy  LimitPolicy
}

func (c *client) snapshot() Client {
	return Client{ID: c.id, Name: c.name, Balance: c.balance}
}

// Ledger owns the client registry and applies every balance mutation.
//
// Thread-safety model:
//   - All exported methods are safe for concurrent use.
//   - Mutating operations (register, add, withdraw, send, changeLimit) are
//     serialized by write, so lookup, limit check and mutation of one
//     operation are atomic with respect to every other mutation.
//   - mu guards the registry and is never held while user code runs.
//   - A LimitPolicy runs under write only: it may read the ledger (Balance,
//     Lookup, Clients) but must not mutate it.
//   - Recorders and error observers run after both locks are released, so
//     they may call back into the ledger freely.
//
// INVARIANTS:
//   - names are unique across all clients
//   - every balance is >= 0 after every operation
//   - clients are never removed; ids are never reused
type Ledger struct {
	write   sync.Mutex
	mu      sync.Mutex
	clients map[ClientID]*client
	names   map[string]ClientID
	order   []ClientID

	ids       IDGenerator
	clock     *Clock
	errors    *ErrorChannel
	recorders []Recorder
	logger    *slog.Logger
	unhandled UnhandledPolicy
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithIDGenerator sets the Identifier Source. Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(l *Ledger) {
		l.ids = g
	}
}

// WithClock sets the logical clock stamping outcomes.
func WithClock(c *Clock) Option {
	return func(l *Ledger) {
		l.clock = c
	}
}

// WithLogger sets the structured logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithRecorder attaches an outcome recorder. May be given more than once;
// recorders run in the order they were attached.
func WithRecorder(r Recorder) Option {
	return func(l *Ledger) {
		l.recorders = append(l.recorders, r)
	}
}

// WithUnhandledPolicy sets what the error channel does when no observer is
// subscribed. Default: UnhandledLog.
func WithUnhandledPolicy(p UnhandledPolicy) Option {
	return func(l *Ledger) {
		l.unhandled = p
	}
}

// New creates an empty Ledger.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		clients:   make(map[ClientID]*client),
		names:     make(map[string]ClientID),
		ids:       UUIDv7Generator{},
		clock:     NewClock(),
		unhandled: UnhandledLog,
	}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = slog.Default()
	}
	l.errors = NewErrorChannel(l.unhandled, l.logger)

	return l
}

// Errors returns the ledger's error channel.
func (l *Ledger) Errors() *ErrorChannel {
	return l.errors
}

// Register creates a client and returns its id.
//
// Fails with InvalidBalance when initialBalance <= 0 and with DuplicateName
// when the name is taken (case-sensitive exact match). A nil policy means
// AllowAll.
//
// On failure Register returns the empty id together with the error, and
// also reports the error to the error channel.
func (l *Ledger) Register(ctx context.Context, name string, initialBalance int64, policy LimitPolicy) (ClientID, error) {
	o := l.register(ctx, name, initialBalance, policy)
	if o.Err != nil {
		l.errors.Report(o.Err)
		return "", o.Err
	}
	return o.ClientID, nil
}

func (l *Ledger) register(ctx context.Context, name string, initialBalance int64, policy LimitPolicy) Outcome {
	o := l.insert(name, initialBalance, policy)
	l.record(ctx, o)
	return o
}

func (l *Ledger) insert(name string, initialBalance int64, policy LimitPolicy) Outcome {
	l.write.Lock()
	defer l.write.Unlock()
	l.mu.Lock()
	defer l.mu.Unlock()

	o := Outcome{
		Seq:     l.clock.Next(),
		Command: CommandRegister,
		Name:    name,
		Amount:  initialBalance,
	}

	switch {
	case initialBalance <= 0:
		o.Err = newInvalidBalanceError(initialBalance)
	case l.hasName(name):
		o.Err = newDuplicateNameError(name)
	default:
		id := ClientID(l.ids.Generate())
		l.clients[id] = &client{
			id:      id,
			name:    name,
			balance: initialBalance,
			policy:  orDefault(policy),
		}
		l.names[name] = id
		l.order = append(l.order, id)

		o.ClientID = id
		o.Balance = initialBalance
	}
	return o
}

// hasName must be called with l.mu held.
func (l *Ledger) hasName(name string) bool {
	_, ok := l.names[name]
	return ok
}

// Lookup returns a snapshot of the client, or NotFound.
func (l *Ledger) Lookup(id ClientID) (Client, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, err := l.get(id)
	if err != nil {
		return Client{}, err
	}
	return c.snapshot(), nil
}

// get resolves an id. Must be called with l.mu held.
func (l *Ledger) get(id ClientID) (*client, error) {
	c, ok := l.clients[id]
	if !ok {
		return nil, newNotFoundError(id)
	}
	return c, nil
}

// Clients returns snapshots of every client in registration order.
func (l *Ledger) Clients() []Client {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Client, 0, len(l.order))
	for _, id := range l.order {
		out = append(out, l.clients[id].snapshot())
	}
	return out
}

// Len returns the number of registered clients.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// record hands an outcome to every recorder. Must be called with no lock held.
//
// Recorder failures are logged and processing continues: the ledger state
// has already changed and a journal hiccup must not undo or hide that.
func (l *Ledger) record(ctx context.Context, o Outcome) {
	if o.Err != nil {
		l.logger.Debug("operation rejected",
			"seq", o.Seq,
			"command", o.Command,
			"client_id", string(o.ClientID),
			"code", string(o.Code()),
			"error", o.Err,
		)
	} else {
		l.logger.Debug("operation applied",
			"seq", o.Seq,
			"command", o.Command,
			"client_id", string(o.ClientID),
			"amount", o.Amount,
			"balance", o.Balance,
		)
	}

	for _, r := range l.recorders {
		if err := r.Record(ctx, o); err != nil {
			l.logger.Warn("outcome recorder failed",
				"seq", o.Seq,
				"command", o.Command,
				"error", err,
			)
		}
	}
}
