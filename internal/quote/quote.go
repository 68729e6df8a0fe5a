// Package quote resolves ticker symbols to a current price and display name.
//
// Every Provider may fail. ErrNotFound means the source answered and does not
// know the symbol; ErrUnavailable covers timeouts, transport errors, throttling
// and malformed responses.
package quote

import (
	"context"
	"errors"
)

var (
	ErrNotFound    = errors.New("symbol not found")
	ErrUnavailable = errors.New("quote provider unavailable")
)

type Quote struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	// PriceMinor is the per-share price in cents.
	PriceMinor int64 `json:"price"`
}

type Provider interface {
	Lookup(ctx context.Context, symbol string) (Quote, error)
}

type freshKey struct{}

// Fresh marks lookups made with the returned context as needing the current
// price. Cached skips its read for them and stores the result it gets.
func Fresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, freshKey{}, true)
}

func IsFresh(ctx context.Context) bool {
	fresh, _ := ctx.Value(freshKey{}).(bool)
	return fresh
}
