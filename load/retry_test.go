package load

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryConfig_Delay(t *testing.T) {
	t.Parallel()

	t.Run("doubles per attempt without jitter", func(t *testing.T) {
		t.Parallel()

		cfg := RetryConfig{MaxAttempts: 5, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Minute}

		assert.Equal(t, 100*time.Millisecond, cfg.delay(1))
		assert.Equal(t, 200*time.Millisecond, cfg.delay(2))
		assert.Equal(t, 400*time.Millisecond, cfg.delay(3))
	})

	t.Run("caps at max delay", func(t *testing.T) {
		t.Parallel()

		cfg := RetryConfig{MaxAttempts: 10, BaseDelay: time.Second, MaxDelay: 3 * time.Second}

		assert.Equal(t, 3*time.Second, cfg.delay(8))
	})

	t.Run("nanosecond delays skip jitter without panicking", func(t *testing.T) {
		t.Parallel()

		cfg := RetryConfig{MaxAttempts: 3, BaseDelay: time.Nanosecond, MaxDelay: 10 * time.Nanosecond, Jitter: true}

		for attempt := 1; attempt <= 3; attempt++ {
			d := cfg.delay(attempt)
			assert.GreaterOrEqual(t, d, time.Duration(0), "attempt %d", attempt)
			assert.LessOrEqual(t, d, cfg.MaxDelay+cfg.MaxDelay/4, "attempt %d", attempt)
		}
	})

	t.Run("jitter stays within a quarter of the delay", func(t *testing.T) {
		t.Parallel()

		cfg := RetryConfig{MaxAttempts: 3, BaseDelay: 100 * time.Millisecond, MaxDelay: time.Minute, Jitter: true}

		for range 100 {
			d := cfg.delay(1)
			assert.GreaterOrEqual(t, d, 75*time.Millisecond)
			assert.LessOrEqual(t, d, 125*time.Millisecond)
		}
	})
}

func TestRetryConfig_WithDefaults(t *testing.T) {
	t.Parallel()

	cfg := RetryConfig{}.withDefaults()
	def := DefaultRetryConfig()

	assert.Equal(t, def.MaxAttempts, cfg.MaxAttempts)
	assert.Equal(t, def.BaseDelay, cfg.BaseDelay)
	assert.Equal(t, def.MaxDelay, cfg.MaxDelay)

	// Explicit values survive.
	custom := RetryConfig{MaxAttempts: 7}.withDefaults()
	assert.Equal(t, 7, custom.MaxAttempts)
}
