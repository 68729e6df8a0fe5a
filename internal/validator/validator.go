package validator

import (
	"errors"
	"regexp"
)

var ErrInvalidSymbol = errors.New("invalid symbol")

// Tickers are upper-case letters and digits with optional class or exchange
// suffixes such as BRK.B or RDS-A.
var symbolRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9.\-]{0,11}$`)

func ValidateSymbol(symbol string) error {
	if !symbolRegex.MatchString(symbol) {
		return ErrInvalidSymbol
	}
	return nil
}
