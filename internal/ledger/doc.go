// Package ledger implements the in-memory account ledger.
//
// A Ledger owns a registry of named clients, each holding a non-negative
// int64 balance and a replaceable LimitPolicy. Balances change only through
// the ledger operations (Deposit, Withdraw, Transfer, ChangeLimit); Balance
// is a pure read.
//
// ARCHITECTURE:
//
// Single-Writer Registry:
// Every operation runs lookup, limit check and mutation inside one critical
// section guarded by the ledger mutex. Nothing blocks inside that section, so
// operations complete or fail deterministically given the current state.
//
// Operation Flow:
//  1. Resolve every referenced client id (NotFound aborts, no partial effect)
//  2. Compute the proposed balance(s)
//  3. Run the shared limit check for each affected client, in order
//  4. Mutate only when every check passed
//  5. Stamp the outcome with the logical clock and hand it to recorders
//
// Transfer checks the sender leg and then the recipient leg before touching
// either balance. The recipient's policy is consulted as well as the
// sender's.
//
// Command Dispatch:
// Dispatcher maps named commands (add, withdraw, send, get, changeLimit) and
// their positional arguments onto typed commands. Failures of dispatched
// commands go to the ledger's ErrorChannel and are also returned in the
// Result value; the dispatcher never panics on a domain error. Register is
// called directly on the Ledger and returns its result synchronously.
//
// Error Channel:
// Observers subscribe to the ErrorChannel. With no observer attached the
// configured UnhandledPolicy decides: log and continue (default), panic, or
// ignore.
package ledger
