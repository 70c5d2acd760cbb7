package relay

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

var errAttemptsExhausted = errors.New("relay: dial attempts exhausted")

// Retry paces upstream dial attempts from a Config.
type Retry struct {
	backoff  BackoffConfig
	attempts int
	// Jitter returns a value in [0, 1). Defaults to math/rand.
	Jitter func() float64
}

// NewRetry clamps cfg.MaxDialAttempts to at least one attempt.
func NewRetry(cfg Config) *Retry {
	attempts := cfg.MaxDialAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Retry{backoff: cfg.Backoff, attempts: attempts, Jitter: rand.Float64}
}

func (r *Retry) Attempts() int {
	return r.attempts
}

// Delay is the pause after failed attempt n (1-based). Jittered delays are
// scaled into [0.5, 1.5) of the computed value.
func (r *Retry) Delay(n int) time.Duration {
	b := r.backoff
	if b.InitialDelay <= 0 {
		return 0
	}
	multiplier := math.Max(b.Multiplier, 1)
	delay := float64(b.InitialDelay) * math.Pow(multiplier, float64(max(n, 1)-1))
	if b.MaxDelay > 0 && delay > float64(b.MaxDelay) {
		delay = float64(b.MaxDelay)
	}
	if b.Jitter && r.Jitter != nil {
		delay *= 0.5 + r.Jitter()
	}
	return time.Duration(delay)
}

// Wait blocks for Delay(n). It returns ctx.Err() if ctx ends first and
// errAttemptsExhausted when n was the last allowed attempt.
func (r *Retry) Wait(ctx context.Context, n int) error {
	if n >= r.attempts {
		return errAttemptsExhausted
	}
	t := time.NewTimer(r.Delay(n))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
