// Package circuitbreaker guards calls to unreliable playlist sources.
package circuitbreaker

import (
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// State represents the current state of the circuit breaker
type State int

const (
	// StateClosed means calls go through
	StateClosed State = iota
	// StateOpen means calls are rejected without being attempted
	StateOpen
	// StateHalfOpen means a limited number of trial calls go through
	StateHalfOpen
)

// String returns the string representation of a State
func (s State) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF-OPEN"
	default:
		return "UNKNOWN"
	}
}

var (
	// ErrCircuitOpen is returned when the circuit breaker is in OPEN state
	ErrCircuitOpen = errors.New("circuit breaker is open")
	// ErrHalfOpenLimitReached is returned when too many calls are made in HALF-OPEN state
	ErrHalfOpenLimitReached = errors.New("circuit breaker half-open request limit reached")
)

// Config contains the configuration for a circuit breaker
type Config struct {
	Name             string        // identifies the guarded source in logs and metrics
	FailureThreshold int           // consecutive failures before opening
	Timeout          time.Duration // time spent OPEN before trying HALF-OPEN
	HalfOpenRequests int           // trial calls allowed in HALF-OPEN
	Logger           *slog.Logger  // optional
	// IsFailure decides which errors count against the circuit. Errors it
	// rejects are recorded like successes. Nil counts every error.
	IsFailure func(err error) bool
	// OnStateChange is called with the lock held; it must not call back into the breaker.
	OnStateChange func(name string, from, to State)
}

// Breaker is a consecutive-failure circuit breaker. It is safe for concurrent use.
type Breaker struct {
	config Config
	now    func() time.Time

	mu                sync.Mutex
	state             State
	failureCount      int
	halfOpenRequests  int
	halfOpenSuccesses int
	openedAt          time.Time
}

// New creates a new circuit breaker. Non-positive settings fall back to
// 5 failures, a 30s timeout and 1 half-open request.
func New(cfg Config) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HalfOpenRequests <= 0 {
		cfg.HalfOpenRequests = 1
	}

	return &Breaker{
		config: cfg,
		now:    time.Now,
		state:  StateClosed,
	}
}

// Execute runs fn if the circuit allows it and records the outcome.
func (b *Breaker) Execute(fn func() error) error {
	b.mu.Lock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.config.Timeout {
		b.transitionTo(StateHalfOpen)
	}

	switch b.state {
	case StateOpen:
		b.mu.Unlock()
		return ErrCircuitOpen

	case StateHalfOpen:
		if b.halfOpenRequests >= b.config.HalfOpenRequests {
			b.mu.Unlock()
			return ErrHalfOpenLimitReached
		}
		b.halfOpenRequests++
	}
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(b.isFailure(err))

	return err
}

func (b *Breaker) isFailure(err error) bool {
	if err == nil {
		return false
	}
	if b.config.IsFailure == nil {
		return true
	}
	return b.config.IsFailure(err)
}

// record must be called with the lock held.
func (b *Breaker) record(failed bool) {
	switch b.state {
	case StateHalfOpen:
		if failed {
			b.transitionTo(StateOpen)
			return
		}
		b.halfOpenSuccesses++
		if b.halfOpenSuccesses >= b.config.HalfOpenRequests {
			b.transitionTo(StateClosed)
		}

	case StateClosed:
		if !failed {
			b.failureCount = 0
			return
		}
		b.failureCount++
		if b.failureCount >= b.config.FailureThreshold {
			b.transitionTo(StateOpen)
		}
	}
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset returns the circuit breaker to CLOSED
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transitionTo(StateClosed)
}

// transitionTo must be called with the lock held.
func (b *Breaker) transitionTo(newState State) {
	if b.state == newState {
		return
	}

	oldState := b.state
	b.state = newState

	if b.config.Logger != nil {
		b.config.Logger.Warn("circuit breaker state changed",
			"source", b.config.Name,
			"old_state", oldState.String(),
			"new_state", newState.String(),
		)
	}
	if b.config.OnStateChange != nil {
		b.config.OnStateChange(b.config.Name, oldState, newState)
	}

	b.halfOpenRequests = 0
	b.halfOpenSuccesses = 0

	switch newState {
	case StateClosed:
		b.failureCount = 0
		b.openedAt = time.Time{}
	case StateOpen:
		b.openedAt = b.now()
	}
}
