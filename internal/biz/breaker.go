package biz

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-kratos/kratos/v2/log"
)

// BreakerState represents the state of a circuit breaker.
type BreakerState int32

// Circuit breaker states.
const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

// String returns the human-readable state name.
func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", int32(s))
	}
}

// ErrCallNotPermitted is returned to the fallback when the breaker denies a
// call without invoking the underlying operation. It is a distinct outcome
// from an executed failure and is reported separately to subscribers.
var ErrCallNotPermitted = errors.New("circuit breaker is open, call not permitted")

// BreakerEventKind classifies breaker events for monitoring subscribers.
type BreakerEventKind int

// Breaker event kinds.
const (
	BreakerEventSuccess BreakerEventKind = iota
	BreakerEventFailure
	BreakerEventTransition
	BreakerEventCallNotPermitted
)

// BreakerEvent is an observable breaker occurrence: a call outcome, a denied
// call, or a state transition. Events are advisory and not required for
// correctness.
type BreakerEvent struct {
	Breaker string
	Kind    BreakerEventKind
	From    BreakerState // set for transitions
	To      BreakerState // set for transitions
	At      time.Time
}

// BreakerConfig holds the thresholds for one circuit breaker instance.
// Each external dependency gets its own explicitly constructed breaker;
// there is no global registry.
type BreakerConfig struct {
	// Name identifies the guarded dependency in logs and events.
	Name string
	// WindowSize is the capacity of the sliding outcome window.
	WindowSize int
	// MinimumCalls is the number of recorded calls required before the
	// failure rate is evaluated.
	MinimumCalls int
	// FailureThreshold is the failure fraction over the window that trips
	// the breaker OPEN.
	FailureThreshold float64
	// WaitDuration is how long the breaker stays OPEN before probing.
	WaitDuration time.Duration
	// HalfOpenPermits is the number of trial calls allowed while HALF_OPEN.
	HalfOpenPermits int
	// Ignore reports errors that do not indicate dependency failure
	// (e.g. a well-formed not-found response). Ignored errors are returned
	// to the caller untouched: they are not recorded in the window and do
	// not route to the fallback.
	Ignore func(error) bool
}

// DefaultBreakerConfig returns the standard breaker tuning: a window of 10
// outcomes, evaluation after 5 calls, a 50% failure threshold, a 5 second
// open interval and 3 half-open trial permits.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		WindowSize:       10,
		MinimumCalls:     5,
		FailureThreshold: 0.50,
		WaitDuration:     5 * time.Second,
		HalfOpenPermits:  3,
	}
}

// CircuitBreaker gates calls to a single external dependency. It tracks a
// FIFO window of call outcomes and denies calls while the dependency is
// considered unhealthy, so callers degrade through fallbacks instead of
// paying per-call network timeouts.
//
// The instance is shared by all in-flight calls to its dependency. State,
// window and permit accounting happen under one mutex so that each recorded
// outcome and its threshold evaluation form a single atomic unit.
type CircuitBreaker struct {
	cfg    BreakerConfig
	logger *log.Helper
	now    func() time.Time

	mu        sync.Mutex
	state     BreakerState
	outcomes  []bool // ring buffer, true = failure
	head      int
	count     int
	failures  int
	openUntil time.Time
	permits   int

	subscribers []func(BreakerEvent)
}

// NewCircuitBreaker creates a breaker in the CLOSED state.
func NewCircuitBreaker(cfg BreakerConfig, logger log.Logger) *CircuitBreaker {
	return &CircuitBreaker{
		cfg:      cfg,
		logger:   log.NewHelper(logger),
		now:      time.Now,
		state:    StateClosed,
		outcomes: make([]bool, cfg.WindowSize),
	}
}

// Subscribe registers a callback for breaker events. Callbacks run on the
// calling goroutine after the state change is committed and must not invoke
// breaker methods.
func (b *CircuitBreaker) Subscribe(fn func(BreakerEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// State returns the current breaker state.
func (b *CircuitBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// ForceClosed transitions the breaker to CLOSED and clears the outcome
// window. Intended for manual recovery by an operator.
func (b *CircuitBreaker) ForceClosed() {
	b.mu.Lock()
	var events []BreakerEvent
	if b.state != StateClosed {
		events = append(events, b.transitionLocked(StateClosed))
	} else {
		b.resetWindowLocked()
	}
	b.mu.Unlock()

	b.logger.Infow("circuit breaker manually reset", "breaker", b.cfg.Name)
	b.emit(events)
}

// Execute runs op behind the breaker. When the breaker denies the call or op
// returns a recordable error, fallback is invoked with the cause and its
// result is returned; the breaker never re-raises the operation error to the
// caller directly. Errors matched by cfg.Ignore bypass both recording and
// fallback.
func Execute[T any](ctx context.Context, b *CircuitBreaker, op func(context.Context) (T, error), fallback func(context.Context, error) (T, error)) (T, error) {
	if err := b.acquire(); err != nil {
		return fallback(ctx, err)
	}

	v, err := op(ctx)
	if err != nil {
		if b.cfg.Ignore != nil && b.cfg.Ignore(err) {
			b.onIgnored()
			return v, err
		}
		b.onResult(true)
		return fallback(ctx, err)
	}

	b.onResult(false)
	return v, nil
}

// acquire decides whether a call may proceed. It performs the automatic
// OPEN to HALF_OPEN transition once the wait duration has elapsed and
// consumes a trial permit while HALF_OPEN.
func (b *CircuitBreaker) acquire() error {
	b.mu.Lock()
	var events []BreakerEvent

	if b.state == StateOpen {
		if b.now().Before(b.openUntil) {
			events = append(events, BreakerEvent{Breaker: b.cfg.Name, Kind: BreakerEventCallNotPermitted, At: b.now()})
			b.mu.Unlock()
			b.emit(events)
			return ErrCallNotPermitted
		}
		events = append(events, b.transitionLocked(StateHalfOpen))
	}

	if b.state == StateHalfOpen {
		if b.permits == 0 {
			events = append(events, BreakerEvent{Breaker: b.cfg.Name, Kind: BreakerEventCallNotPermitted, At: b.now()})
			b.mu.Unlock()
			b.emit(events)
			return ErrCallNotPermitted
		}
		b.permits--
	}

	b.mu.Unlock()
	b.emit(events)
	return nil
}

// onResult records a completed call outcome and applies the transition rules.
func (b *CircuitBreaker) onResult(failed bool) {
	b.mu.Lock()
	var events []BreakerEvent

	kind := BreakerEventSuccess
	if failed {
		kind = BreakerEventFailure
	}
	events = append(events, BreakerEvent{Breaker: b.cfg.Name, Kind: kind, At: b.now()})

	switch b.state {
	case StateHalfOpen:
		// Single-strike recovery: any trial success closes, any trial
		// failure reopens and restarts the wait timer.
		if failed {
			events = append(events, b.transitionLocked(StateOpen))
		} else {
			events = append(events, b.transitionLocked(StateClosed))
		}
	case StateClosed:
		b.recordLocked(failed)
		if b.count >= b.cfg.MinimumCalls && b.failureRateLocked() >= b.cfg.FailureThreshold {
			events = append(events, b.transitionLocked(StateOpen))
		}
	case StateOpen:
		// A call admitted earlier finished after another outcome already
		// tripped the breaker. Nothing to record.
	}

	b.mu.Unlock()
	b.emit(events)
}

// onIgnored returns the half-open permit consumed by a call whose error was
// classified as ignorable. The outcome window is untouched.
func (b *CircuitBreaker) onIgnored() {
	b.mu.Lock()
	if b.state == StateHalfOpen && b.permits < b.cfg.HalfOpenPermits {
		b.permits++
	}
	b.mu.Unlock()
}

// transitionLocked switches state, resets per-state bookkeeping and returns
// the transition event. Caller must hold b.mu.
func (b *CircuitBreaker) transitionLocked(to BreakerState) BreakerEvent {
	from := b.state
	b.state = to

	switch to {
	case StateOpen:
		b.openUntil = b.now().Add(b.cfg.WaitDuration)
	case StateHalfOpen:
		b.permits = b.cfg.HalfOpenPermits
	case StateClosed:
		b.resetWindowLocked()
	}

	b.logger.Infow("circuit breaker state changed",
		"breaker", b.cfg.Name,
		"from", from.String(),
		"to", to.String())

	return BreakerEvent{Breaker: b.cfg.Name, Kind: BreakerEventTransition, From: from, To: to, At: b.now()}
}

// recordLocked inserts an outcome into the ring buffer, evicting the oldest
// entry once the window is full. Caller must hold b.mu.
func (b *CircuitBreaker) recordLocked(failed bool) {
	if b.count == b.cfg.WindowSize {
		if b.outcomes[b.head] {
			b.failures--
		}
	} else {
		b.count++
	}
	b.outcomes[b.head] = failed
	if failed {
		b.failures++
	}
	b.head = (b.head + 1) % b.cfg.WindowSize
}

func (b *CircuitBreaker) failureRateLocked() float64 {
	if b.count == 0 {
		return 0
	}
	return float64(b.failures) / float64(b.count)
}

func (b *CircuitBreaker) resetWindowLocked() {
	b.head = 0
	b.count = 0
	b.failures = 0
}

// emit delivers events to subscribers outside the lock.
func (b *CircuitBreaker) emit(events []BreakerEvent) {
	if len(events) == 0 {
		return
	}
	b.mu.Lock()
	subs := make([]func(BreakerEvent), len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.Unlock()

	for _, ev := range events {
		for _, fn := range subs {
			fn(ev)
		}
	}
}
