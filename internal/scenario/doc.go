// Package scenario runs scripted ledger sessions from YAML files.
//
// # Scenario Format
//
//	name: overdraw
//	description: "What this scenario checks"
//	clients:
//	  - name: A
//	    balance: 100
//	    limit: { amount_below: 100 }
//	steps:
//	  - command: add
//	    client: A
//	    amount: 5
//	    expect: { balance: 105 }
//	  - command: withdraw
//	    client: A
//	    amount: 500
//	    expect: { error: InsufficientFunds }
//	expect_balances:
//	  A: 105
//
// Clients are referenced by name; the runner maps names to the ids the
// ledger assigns. A name that was never registered is passed through as a
// raw id, which is how scripts exercise NotFound.
//
// Commands: register, add, withdraw, send, get, changeLimit. Everything
// except register goes through the ledger's Dispatcher, so failures reach
// the error channel exactly as they would for an embedding application.
//
// # Limits
//
// A limit is a set of strict bounds; every bound given must hold:
//
//	amount_below          amount < N
//	amount_above          amount > N
//	balance_before_above  balance before the operation > N
//	balance_after_above   balance after the operation > N
//
// An omitted limit on changeLimit resets the client to allow-all.
//
// # Validation
//
// Load decodes strictly (unknown fields are errors) and checks required
// fields. ValidateSchema additionally checks the document against the
// embedded CUE schema.
//
// # Deterministic Traces
//
// Every run uses a fresh ledger with sequential ids and a logical clock
// starting at zero, so traces are stable across runs and suitable for
// golden file comparison (see RunWithGolden).
package scenario
