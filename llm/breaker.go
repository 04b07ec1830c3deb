package llm

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the breaker is open and the recovery
// timeout has not yet elapsed.
var ErrCircuitOpen = errors.New("llm: circuit open")

// BreakerConfig configures the circuit breaker wrapping a provider.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before the
	// circuit opens.
	FailureThreshold int

	// RecoveryTimeout is how long the circuit stays open before a probe
	// request is allowed through.
	RecoveryTimeout time.Duration
}

// DefaultBreakerConfig returns sensible defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 3,
		RecoveryTimeout:  30 * time.Second,
	}
}

// breakerState is the current position of the circuit.
type breakerState int

const (
	stateClosed breakerState = iota
	stateOpen
	stateHalfOpen
)

// Breaker wraps a Provider with a circuit breaker. After
// FailureThreshold consecutive failures the circuit opens and calls fail
// fast with ErrCircuitOpen. Once RecoveryTimeout passes, a single probe
// request is let through (half-open); success closes the circuit,
// failure re-opens it. Safe for concurrent use.
type Breaker struct {
	inner Provider
	cfg   BreakerConfig
	name  string

	mu       sync.Mutex
	state    breakerState
	failures int
	openedAt time.Time
	probing  bool
}

// WithBreaker wraps a provider with a circuit breaker. name labels log
// entries, typically "chat" or "embedding".
func WithBreaker(p Provider, name string, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = DefaultBreakerConfig().FailureThreshold
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = DefaultBreakerConfig().RecoveryTimeout
	}
	return &Breaker{inner: p, cfg: cfg, name: name}
}

// Chat forwards to the wrapped provider when the circuit allows it.
func (b *Breaker) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if err := b.allow(); err != nil {
		return nil, err
	}
	resp, err := b.inner.Chat(ctx, req)
	b.record(err)
	return resp, err
}

// Embed forwards to the wrapped provider when the circuit allows it.
func (b *Breaker) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if err := b.allow(); err != nil {
		return nil, err
	}
	out, err := b.inner.Embed(ctx, texts)
	b.record(err)
	return out, err
}

// State reports the circuit position as a string for diagnostics.
func (b *Breaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch b.state {
	case stateOpen:
		return "open"
	case stateHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

// allow decides whether a request may proceed.
func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateClosed:
		return nil
	case stateOpen:
		if time.Since(b.openedAt) < b.cfg.RecoveryTimeout {
			return ErrCircuitOpen
		}
		// Recovery window reached: allow one probe through.
		b.state = stateHalfOpen
		b.probing = true
		slog.Info("llm: circuit half-open, probing", "provider", b.name)
		return nil
	case stateHalfOpen:
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
		return nil
	}
	return nil
}

// record updates the circuit from a call outcome. Context cancellation is
// the caller's doing, not the provider's health, so it does not count.
func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if errors.Is(err, context.Canceled) {
		b.probing = false
		return
	}

	if err == nil {
		if b.state != stateClosed {
			slog.Info("llm: circuit closed", "provider", b.name)
		}
		b.state = stateClosed
		b.failures = 0
		b.probing = false
		return
	}

	b.probing = false
	switch b.state {
	case stateHalfOpen:
		// Probe failed; back to open with a fresh timer.
		b.state = stateOpen
		b.openedAt = time.Now()
		slog.Warn("llm: circuit re-opened after failed probe", "provider", b.name, "error", err)
	default:
		b.failures++
		if b.failures >= b.cfg.FailureThreshold {
			b.state = stateOpen
			b.openedAt = time.Now()
			slog.Warn("llm: circuit opened",
				"provider", b.name, "failures", b.failures, "error", err)
		}
	}
}
