package ledger

import (
	"errors"
	"fmt"
)

// Error is a domain validation failure raised by a ledger operation.
//
// None of these are retryable: repeating the same call against the same
// state reproduces the same outcome.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// ClientID identifies the offending client, when there is one.
	ClientID ClientID

	// Name is the client name involved (DuplicateName).
	Name string

	// Amount is the offending amount (NonPositiveAmount, BalanceOverflow).
	Amount int64
}

// ErrorCode categorizes ledger errors.
type ErrorCode string

const (
	// ErrCodeDuplicateName indicates a client with the same name exists.
	ErrCodeDuplicateName ErrorCode = "DuplicateName"

	// ErrCodeInvalidBalance indicates a non-positive initial balance.
	ErrCodeInvalidBalance ErrorCode = "InvalidBalance"

	// ErrCodeNotFound indicates an unknown client id.
	ErrCodeNotFound ErrorCode = "NotFound"

	// ErrCodeNonPositiveAmount indicates an amount <= 0.
	ErrCodeNonPositiveAmount ErrorCode = "NonPositiveAmount"

	// ErrCodeInsufficientFunds indicates the proposed balance is negative.
	ErrCodeInsufficientFunds ErrorCode = "InsufficientFunds"

	// ErrCodePolicyRejected indicates the client's limit policy said no.
	ErrCodePolicyRejected ErrorCode = "PolicyRejected"

	// ErrCodeBalanceOverflow indicates the proposed balance does not fit in int64.
	ErrCodeBalanceOverflow ErrorCode = "BalanceOverflow"

	// ErrCodeUnknownCommand indicates a dispatch to a name with no handler.
	ErrCodeUnknownCommand ErrorCode = "UnknownCommand"

	// ErrCodeInvalidArguments indicates positional arguments that cannot be
	// converted to the command's parameters.
	ErrCodeInvalidArguments ErrorCode = "InvalidArguments"
)

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// CodeOf returns the ErrorCode carried by err, or "" when err is not a
// ledger error. Uses errors.As to handle wrapped errors.
func CodeOf(err error) ErrorCode {
	var le *Error
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

// IsCode reports whether err is a ledger error with the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

func newDuplicateNameError(name string) *Error {
	return &Error{
		Code:    ErrCodeDuplicateName,
		Message: fmt.Sprintf("client with name %q already exists", name),
		Name:    name,
	}
}

func newInvalidBalanceError(balance int64) *Error {
	return &Error{
		Code:    ErrCodeInvalidBalance,
		Message: "it is impossible to add a client with a non-positive balance",
		Amount:  balance,
	}
}

func newNotFoundError(id ClientID) *Error {
	return &Error{
		Code:     ErrCodeNotFound,
		Message:  fmt.Sprintf("client with ID '%s' not found", id),
		ClientID: id,
	}
}

func newNonPositiveAmountError(id ClientID, amount int64) *Error {
	return &Error{
		Code:     ErrCodeNonPositiveAmount,
		Message:  fmt.Sprintf("amount = '%d' must be positive", amount),
		ClientID: id,
		Amount:   amount,
	}
}

func newOverflowError(id ClientID, amount int64) *Error {
	return &Error{
		Code:     ErrCodeBalanceOverflow,
		Message:  fmt.Sprintf("amount = '%d' would overflow the balance", amount),
		ClientID: id,
		Amount:   amount,
	}
}

func newInsufficientFundsError(id ClientID) *Error {
	return &Error{
		Code:     ErrCodeInsufficientFunds,
		Message:  "not enough funds",
		ClientID: id,
	}
}

func newPolicyRejectedError(id ClientID) *Error {
	return &Error{
		Code:     ErrCodePolicyRejected,
		Message:  "limit check failed",
		ClientID: id,
	}
}

func newUnknownCommandError(name string) *Error {
	return &Error{
		Code:    ErrCodeUnknownCommand,
		Message: fmt.Sprintf("unknown command %q", name),
	}
}

func newInvalidArgumentsError(command, format string, args ...any) *Error {
	return &Error{
		Code:    ErrCodeInvalidArguments,
		Message: fmt.Sprintf("%s: %s", command, fmt.Sprintf(format, args...)),
	}
}
