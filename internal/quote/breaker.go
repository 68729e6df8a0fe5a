package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"finance/internal/circuitbreaker"
)

// Breaker fails fast with ErrUnavailable while the wrapped provider keeps
// failing. Unknown symbols and lookups abandoned by the caller never trip it.
type Breaker struct {
	next Provider
	cb   *circuitbreaker.CircuitBreaker
}

func NewBreaker(next Provider, threshold int, resetTimeout time.Duration) *Breaker {
	return &Breaker{
		next: next,
		cb:   circuitbreaker.New("quote", threshold, resetTimeout),
	}
}

func (b *Breaker) Lookup(ctx context.Context, symbol string) (Quote, error) {
	var result Quote
	err := b.cb.Execute(func() error {
		q, err := b.next.Lookup(ctx, symbol)
		if err != nil {
			return err
		}
		result = q
		return nil
	}, func(err error) bool {
		// A caller that gave up says nothing about the provider.
		return !errors.Is(err, ErrNotFound) && ctx.Err() == nil
	})
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return Quote{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return result, err
}
