package relay

import (
	"time"

	"github.com/danmuck/verbridge/internal/protocol/frame"
)

// BackoffConfig defines upstream dial retry behavior.
type BackoffConfig struct {
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       bool
}

// Config defines relay transport defaults.
type Config struct {
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxDialAttempts int
	Backoff         BackoffConfig
	Limits          frame.Limits
}

// DefaultConfig keeps read timeouts above the keep-alive interval of every
// supported version.
func DefaultConfig() Config {
	return Config{
		DialTimeout:     5 * time.Second,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    15 * time.Second,
		MaxDialAttempts: 3,
		Backoff: BackoffConfig{
			InitialDelay: 250 * time.Millisecond,
			Multiplier:   2.0,
			MaxDelay:     5 * time.Second,
			Jitter:       true,
		},
		Limits: frame.DefaultLimits(),
	}
}
