package clients

import (
	"sync"
	"time"
)

// State is a circuit breaker position. The numeric values are exported as
// the provider circuit gauge.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}

	return "unknown"
}

// CircuitBreakerConfig tunes a CircuitBreaker. MaxFailures of zero or less
// disables the breaker.
type CircuitBreakerConfig struct {
	// MaxFailures consecutive failures open the circuit.
	MaxFailures int

	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration

	// HalfOpenLimit caps concurrent probes and is also the number of
	// consecutive probe successes that close the circuit.
	HalfOpenLimit int
}

// CircuitBreaker stops calls to a provider that keeps failing. Each provider
// client owns one, so a Readwise outage never blocks generation.
//
//	closed    --MaxFailures failures-->  open
//	open      --Timeout elapsed------->  half-open
//	half-open --HalfOpenLimit ok------>  closed
//	half-open --any failure----------->  open
type CircuitBreaker struct {
	cfg CircuitBreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    State
	streak   int // failures while closed, successes while half-open
	inFlight int // probes admitted while half-open
	openedAt time.Time
	notify   func(from, to State)
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg.HalfOpenLimit = max(cfg.HalfOpenLimit, 1)

	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// Enabled reports whether the breaker can ever open.
func (cb *CircuitBreaker) Enabled() bool {
	return cb.cfg.MaxFailures > 0
}

// OnStateChange registers fn to run, on its own goroutine, after every
// transition.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	cb.notify = fn
	cb.mu.Unlock()
}

// State returns the current position without advancing it.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// Allow reports whether a call may proceed. An open circuit whose timeout
// has elapsed moves to half-open and admits the caller as the first probe.
func (cb *CircuitBreaker) Allow() bool {
	if !cb.Enabled() {
		return true
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if cb.now().Sub(cb.openedAt) < cb.cfg.Timeout {
			return false
		}

		cb.moveTo(StateHalfOpen)
	}

	if cb.state == StateHalfOpen {
		if cb.inFlight >= cb.cfg.HalfOpenLimit {
			return false
		}

		cb.inFlight++
	}

	return true
}

// RecordSuccess reports a call that got an answer from the provider.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.record(true)
}

// RecordFailure reports a call that exhausted its attempts.
func (cb *CircuitBreaker) RecordFailure() {
	cb.record(false)
}

func (cb *CircuitBreaker) record(ok bool) {
	if !cb.Enabled() {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		if ok {
			cb.streak = 0
			return
		}

		cb.streak++
		if cb.streak >= cb.cfg.MaxFailures {
			cb.moveTo(StateOpen)
		}

	case StateHalfOpen:
		cb.inFlight = max(cb.inFlight-1, 0)

		if !ok {
			cb.moveTo(StateOpen)
			return
		}

		cb.streak++
		if cb.streak >= cb.cfg.HalfOpenLimit {
			cb.moveTo(StateClosed)
		}

	case StateOpen:
		// A call admitted before the circuit opened finished late.
		if !ok {
			cb.openedAt = cb.now()
		}
	}
}

// moveTo must be called with mu held.
func (cb *CircuitBreaker) moveTo(to State) {
	from := cb.state
	if from == to {
		return
	}

	cb.state = to
	cb.streak = 0
	cb.inFlight = 0

	if to == StateOpen {
		cb.openedAt = cb.now()
	}

	if cb.notify != nil {
		go cb.notify(from, to)
	}
}
