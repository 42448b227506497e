package load

import (
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures backoff for transient fetch failures.
type RetryConfig struct {
	// MaxAttempts is the maximum number of attempts (including initial).
	// Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the first retry; it doubles each
	// subsequent attempt. Default: 100ms
	BaseDelay time.Duration

	// MaxDelay caps the delay between retries. Default: 10s
	MaxDelay time.Duration

	// Jitter randomizes delays by up to ±25% to avoid synchronized
	// retries. Default: true (via DefaultRetryConfig)
	Jitter bool
}

// DefaultRetryConfig returns the retry defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		BaseDelay:   100 * time.Millisecond,
		MaxDelay:    10 * time.Second,
		Jitter:      true,
	}
}

func (c RetryConfig) withDefaults() RetryConfig {
	def := DefaultRetryConfig()
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = def.MaxAttempts
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = def.BaseDelay
	}
	if c.MaxDelay <= 0 {
		c.MaxDelay = def.MaxDelay
	}
	return c
}

// delay returns the backoff before retry number attempt (1-based).
func (c RetryConfig) delay(attempt int) time.Duration {
	d := time.Duration(float64(c.BaseDelay) * math.Pow(2, float64(attempt-1)))
	if d > c.MaxDelay {
		d = c.MaxDelay
	}
	// Sub-4ns delays have no room for jitter; d/2 must stay positive for
	// the random draw.
	if half := d / 2; c.Jitter && half > 0 {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		d += time.Duration(rand.Int64N(int64(half))) - half/2
	}
	return d
}
