package ledger

import (
	"fmt"
	"log/slog"
	"sync"
)

// ErrorObserver receives every domain error reported to an ErrorChannel.
type ErrorObserver func(err error)

// UnhandledPolicy decides what an ErrorChannel does with an error when no
// observer is subscribed.
type UnhandledPolicy int

const (
	// UnhandledLog logs the error at error level and continues. Default.
	UnhandledLog UnhandledPolicy = iota

	// UnhandledPanic re-raises the error as a panic.
	UnhandledPanic

	// UnhandledIgnore drops the error.
	UnhandledIgnore
)

// String returns the policy name as used by configuration.
func (p UnhandledPolicy) String() string {
	switch p {
	case UnhandledLog:
		return "log"
	case UnhandledPanic:
		return "panic"
	case UnhandledIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("UnhandledPolicy(%d)", int(p))
	}
}

// ParseUnhandledPolicy converts "log", "panic" or "ignore".
func ParseUnhandledPolicy(s string) (UnhandledPolicy, error) {
	switch s {
	case "log", "":
		return UnhandledLog, nil
	case "panic":
		return UnhandledPanic, nil
	case "ignore":
		return UnhandledIgnore, nil
	default:
		return UnhandledLog, fmt.Errorf("unknown unhandled-error policy %q: must be one of log, panic, ignore", s)
	}
}

// ErrorChannel is the observer hook through which dispatched operations
// report failures instead of raising them to the command issuer.
//
// Observers run synchronously, in subscription order, on the reporting
// goroutine. A panicking observer propagates to the issuer.
//
// Thread-safety: all methods are safe for concurrent use.
type ErrorChannel struct {
	mu        sync.RWMutex
	observers []subscription
	nextID    int
	policy    UnhandledPolicy
	logger    *slog.Logger
}

type subscription struct {
	id int
	fn ErrorObserver
}

// NewErrorChannel creates a channel with the given unhandled policy.
// A nil logger falls back to slog.Default().
func NewErrorChannel(policy UnhandledPolicy, logger *slog.Logger) *ErrorChannel {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorChannel{policy: policy, logger: logger}
}

// Subscribe attaches an observer. The returned function detaches it.
func (c *ErrorChannel) Subscribe(fn ErrorObserver) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	c.observers = append(c.observers, subscription{id: id, fn: fn})

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		for i, s := range c.observers {
			if s.id == id {
				c.observers = append(c.observers[:i], c.observers[i+1:]...)
				return
			}
		}
	}
}

// SetUnhandledPolicy replaces the policy applied when no observer is attached.
func (c *ErrorChannel) SetUnhandledPolicy(p UnhandledPolicy) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.policy = p
}

// UnhandledPolicy returns the current policy.
func (c *ErrorChannel) UnhandledPolicy() UnhandledPolicy {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.policy
}

// Report delivers err to every observer, or applies the unhandled policy
// when there are none. A nil err is ignored.
func (c *ErrorChannel) Report(err error) {
	if err == nil {
		return
	}

	// Snapshot under the read lock so observers may subscribe or
	// unsubscribe while being called.
	c.mu.RLock()
	observers := make([]subscription, len(c.observers))
	copy(observers, c.observers)
	policy := c.policy
	c.mu.RUnlock()

	if len(observers) == 0 {
		c.unhandled(policy, err)
		return
	}

	for _, s := range observers {
		s.fn(err)
	}
}

func (c *ErrorChannel) unhandled(policy UnhandledPolicy, err error) {
	switch policy {
	case UnhandledPanic:
		panic(err)
	case UnhandledIgnore:
		return
	default:
		c.logger.Error("ledger operation failed",
			"error", err,
			"code", string(CodeOf(err)),
		)
	}
}
