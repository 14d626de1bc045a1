package breaker

import (
	"errors"
	"sync"
	"time"
)

var ErrOpen = errors.New("circuit open")

type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

// Breaker is a circuit breaker with explicit outcome reporting. After
// Threshold consecutive failures in Closed it opens; after OpenTimeout it
// admits up to MaxHalfOpen trial requests, closing again on the first
// success.
type Breaker struct {
	mu sync.Mutex

	threshold   int
	openTimeout time.Duration
	maxHalfOpen int

	state      State
	errs       int
	trials     int
	lastChange time.Time
}

func New(threshold int, openTimeout time.Duration, maxHalfOpen int) *Breaker {
	if threshold < 1 {
		threshold = 1
	}
	if maxHalfOpen < 1 {
		maxHalfOpen = 1
	}
	return &Breaker{
		threshold:   threshold,
		openTimeout: openTimeout,
		maxHalfOpen: maxHalfOpen,
		state:       Closed,
		lastChange:  time.Now(),
	}
}

// Allow reports whether a request may proceed, transitioning Open→HalfOpen
// once the timeout has passed.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if time.Since(b.lastChange) < b.openTimeout {
			return ErrOpen
		}
		b.transition(HalfOpen)
		b.trials = 1
		return nil
	case HalfOpen:
		if b.trials >= b.maxHalfOpen {
			return ErrOpen
		}
		b.trials++
		return nil
	default:
		return nil
	}
}

func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case HalfOpen:
		b.transition(Closed)
	case Closed:
		b.errs = 0
	}
}

func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case HalfOpen:
		b.transition(Open)
	case Closed:
		b.errs++
		if b.errs >= b.threshold {
			b.transition(Open)
		}
	}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) transition(s State) {
	b.state = s
	b.errs = 0
	b.trials = 0
	b.lastChange = time.Now()
}
