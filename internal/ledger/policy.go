package ledger

// LimitPolicy gates a proposed balance change on top of the base
// non-negativity rule.
//
// Evaluate receives the operation amount, the client's balance before the
// operation and the proposed balance after it. Returning false rejects the
// operation with PolicyRejected.
//
// Evaluate runs while the ledger holds its write lock and no other
// mutation can interleave. It may read the ledger (Balance, Lookup,
// Clients) and sees the state before the operation. Calling a mutating
// method from Evaluate deadlocks.
type LimitPolicy interface {
	Evaluate(amount, before, after int64) bool
}

// PolicyFunc adapts a plain function to LimitPolicy.
type PolicyFunc func(amount, before, after int64) bool

// Evaluate calls f(amount, before, after).
func (f PolicyFunc) Evaluate(amount, before, after int64) bool {
	return f(amount, before, after)
}

// AllowAll is the default policy. It never rejects.
type AllowAll struct{}

// Evaluate always returns true.
func (AllowAll) Evaluate(amount, before, after int64) bool {
	return true
}

// Rules is a declarative LimitPolicy built from strict bounds.
// Every bound that is set must hold; a Rules with no bounds allows
// everything.
//
// Example: "amount < 100 and updated balance > 700":
//
//	Rules{AmountBelow: Bound(100), BalanceAfterAbove: Bound(700)}
type Rules struct {
	AmountBelow        *int64
	AmountAbove        *int64
	BalanceBeforeAbove *int64
	BalanceAfterAbove  *int64
}

// Bound returns a pointer to v, for filling Rules fields.
func Bound(v int64) *int64 {
	return &v
}

// Evaluate checks every configured bound.
func (r Rules) Evaluate(amount, before, after int64) bool {
	if r.AmountBelow != nil && !(amount < *r.AmountBelow) {
		return false
	}
	if r.AmountAbove != nil && !(amount > *r.AmountAbove) {
		return false
	}
	if r.BalanceBeforeAbove != nil && !(before > *r.BalanceBeforeAbove) {
		return false
	}
	if r.BalanceAfterAbove != nil && !(after > *r.BalanceAfterAbove) {
		return false
	}
	return true
}

// orDefault maps a nil policy to AllowAll.
func orDefault(p LimitPolicy) LimitPolicy {
	if p == nil {
		return AllowAll{}
	}
	return p
}
