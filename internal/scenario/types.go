package scenario

import (
	"github.com/roach88/ledger/internal/ledger"
)

// Scenario is one scripted ledger session.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files are named after it.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description,omitempty"`

	// Clients are registered before the first step and must succeed.
	Clients []ClientSpec `yaml:"clients,omitempty"`

	// Steps run in order against the same ledger.
	Steps []Step `yaml:"steps"`

	// ExpectBalances lists final balances by client name.
	ExpectBalances map[string]int64 `yaml:"expect_balances,omitempty"`
}

// ClientSpec describes a client registered during setup.
type ClientSpec struct {
	Name    string `yaml:"name"`
	Balance int64  `yaml:"balance"`
	Limit   *Limit `yaml:"limit,omitempty"`
}

// Step is one ledger command.
type Step struct {
	// Command is register, add, withdraw, send, get or changeLimit.
	Command string `yaml:"command"`

	// Client is the primary client name (the sender for send).
	Client string `yaml:"client"`

	// To is the recipient name (send only).
	To string `yaml:"to,omitempty"`

	// Amount is required for add, withdraw and send.
	Amount *int64 `yaml:"amount,omitempty"`

	// Balance is the initial balance (register only).
	Balance *int64 `yaml:"balance,omitempty"`

	// Limit is the policy for register and changeLimit.
	Limit *Limit `yaml:"limit,omitempty"`

	// Expect is checked after the step runs. Nil means no check.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Limit is the YAML form of ledger.Rules.
type Limit struct {
	AmountBelow        *int64 `yaml:"amount_below,omitempty"`
	AmountAbove        *int64 `yaml:"amount_above,omitempty"`
	BalanceBeforeAbove *int64 `yaml:"balance_before_above,omitempty"`
	BalanceAfterAbove  *int64 `yaml:"balance_after_above,omitempty"`
}

// Policy converts the limit to a ledger policy. A nil limit yields nil,
// which the ledger treats as allow-all.
func (l *Limit) Policy() ledger.LimitPolicy {
	if l == nil {
		return nil
	}
	return ledger.Rules{
		AmountBelow:        l.AmountBelow,
		AmountAbove:        l.AmountAbove,
		BalanceBeforeAbove: l.BalanceBeforeAbove,
		BalanceAfterAbove:  l.BalanceAfterAbove,
	}
}

// Expect specifies the expected step outcome.
type Expect struct {
	// Error is the expected error code. Empty means the step must succeed.
	Error string `yaml:"error,omitempty"`

	// Balance is the expected primary client balance after the step.
	Balance *int64 `yaml:"balance,omitempty"`
}

// TraceEvent is one ledger outcome as seen by the script.
type TraceEvent struct {
	Seq     int64  `json:"seq"`
	Command string `json:"command"`
	Client  string `json:"client"`
	To      string `json:"to,omitempty"`
	Amount  *int64 `json:"amount,omitempty"`
	Outcome string `json:"outcome"`
	Balance int64  `json:"balance"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation held.
	Pass bool `json:"pass"`

	// Trace holds one event per ledger operation, in seq order.
	Trace []TraceEvent `json:"trace"`

	// Errors lists failed expectations. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Balances holds final balances by client name.
	Balances map[string]int64 `json:"balances"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{
		Pass:     true,
		Trace:    []TraceEvent{},
		Errors:   []string{},
		Balances: make(map[string]int64),
	}
}

// AddError records a failed expectation and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
