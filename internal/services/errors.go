package services

import "errors"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindAuth
	KindBusinessRule
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindBusinessRule:
		return "business_rule"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Error is a failure the user can act on. Message is safe to show.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

var (
	ErrMissingSymbol = newError(KindValidation, "must provide symbol")
	ErrInvalidShares = newError(KindValidation, "must provide a positive integer number of shares")
	ErrInvalidAmount = newError(KindValidation, "must provide a positive integer cash amount")

	ErrMissingUsername     = newError(KindValidation, "must provide username")
	ErrMissingPassword     = newError(KindValidation, "must provide password")
	ErrMissingConfirmation = newError(KindValidation, "must confirm password")
	ErrPasswordMismatch    = newError(KindValidation, "passwords must match")

	ErrLoginUsernameRequired = newError(KindAuth, "must provide username")
	ErrLoginPasswordRequired = newError(KindAuth, "must provide password")
	ErrInvalidCredentials    = newError(KindAuth, "invalid username and/or password")
	ErrAccountNotFound       = newError(KindAuth, "account not found, please log in again")

	ErrSymbolNotFound    = newError(KindBusinessRule, "symbol not found")
	ErrInsufficientFunds = newError(KindBusinessRule, "insufficient funds")
	ErrNoShares          = newError(KindBusinessRule, "you don't own any shares of that stock")
	ErrNotEnoughShares   = newError(KindBusinessRule, "not enough shares to sell")
	ErrUsernameTaken     = newError(KindBusinessRule, "that username already exists")

	ErrQuoteUnavailable = newError(KindDependency, "quote service unavailable, try again later")
)

// KindOf reports the kind of a user-facing error anywhere in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}
