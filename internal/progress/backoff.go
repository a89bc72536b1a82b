package progress

import (
	"math"
	"time"
)

// Backoff is the reconnection policy: delay for attempt n is
// min(BaseDelay * Multiplier^n, MaxDelay), and reconnection stops after
// MaxAttempts consecutive failures.
type Backoff struct {
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Multiplier  float64
	MaxAttempts int
}

// DefaultBackoff is the policy used when the caller does not override:
// 1s base, doubling, capped at 30s, 10 attempts.
var DefaultBackoff = Backoff{
	BaseDelay:   time.Second,
	MaxDelay:    30 * time.Second,
	Multiplier:  2,
	MaxAttempts: 10,
}

// Delay returns the wait before reconnect attempt n (zero-based).
func (b Backoff) Delay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	d := time.Duration(float64(b.BaseDelay) * math.Pow(b.Multiplier, float64(attempt)))
	if d > b.MaxDelay || d <= 0 {
		return b.MaxDelay
	}
	return d
}

// withDefaults fills unset fields from DefaultBackoff. A caller-supplied
// MaxAttempts is authoritative; only a zero value falls back.
func (b Backoff) withDefaults() Backoff {
	if b.BaseDelay <= 0 {
		b.BaseDelay = DefaultBackoff.BaseDelay
	}
	if b.MaxDelay <= 0 {
		b.MaxDelay = DefaultBackoff.MaxDelay
	}
	if b.Multiplier <= 1 {
		b.Multiplier = DefaultBackoff.Multiplier
	}
	if b.MaxAttempts <= 0 {
		b.MaxAttempts = DefaultBackoff.MaxAttempts
	}
	return b
}
