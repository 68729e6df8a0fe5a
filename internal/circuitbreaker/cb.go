// Package circuitbreaker stops calling a failing dependency for a cool-down
// period once consecutive failures reach a threshold.
package circuitbreaker

import (
	"errors"
	"log"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

type CircuitBreaker struct {
	name         string
	mu           sync.Mutex
	state        State
	failureCount int
	threshold    int
	resetTimeout time.Duration
	lastFailure  time.Time
	now          func() time.Time
}

func New(name string, threshold int, resetTimeout time.Duration) *CircuitBreaker {
	if threshold < 1 {
		threshold = 1
	}
	return &CircuitBreaker{
		name:         name,
		threshold:    threshold,
		resetTimeout: resetTimeout,
		state:        StateClosed,
		now:          time.Now,
	}
}

func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Execute runs action unless the breaker is open. Errors for which
// countsAsFailure returns false pass through without tripping the breaker;
// a nil countsAsFailure counts every error.
func (cb *CircuitBreaker) Execute(action func() error, countsAsFailure func(error) bool) error {
	cb.mu.Lock()
	if cb.state == StateOpen {
		if cb.now().Sub(cb.lastFailure) <= cb.resetTimeout {
			cb.mu.Unlock()
			return ErrOpen
		}
		cb.transition(StateHalfOpen)
	}
	cb.mu.Unlock()

	err := action()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil && (countsAsFailure == nil || countsAsFailure(err)) {
		cb.failureCount++
		cb.lastFailure = cb.now()
		if cb.state == StateHalfOpen || cb.failureCount >= cb.threshold {
			cb.transition(StateOpen)
		}
		return err
	}
	cb.failureCount = 0
	if cb.state == StateHalfOpen {
		cb.transition(StateClosed)
	}
	return err
}

func (cb *CircuitBreaker) transition(next State) {
	if cb.state == next {
		return
	}
	log.Printf("circuit %s: %s -> %s", cb.name, cb.state, next)
	cb.state = next
}
