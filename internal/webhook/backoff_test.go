package webhook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/parentshield/notifier/internal/webhook"
)

func TestRetryDelay(t *testing.T) {
	t.Run("doubles from five minutes per failed attempt", func(t *testing.T) {
		assert.Equal(t, 5*time.Minute, webhook.RetryDelay(1))
		assert.Equal(t, 10*time.Minute, webhook.RetryDelay(2))
		assert.Equal(t, 20*time.Minute, webhook.RetryDelay(3))
		assert.Equal(t, 40*time.Minute, webhook.RetryDelay(4))
	})

	t.Run("clamps non-positive attempt counts", func(t *testing.T) {
		assert.Equal(t, 5*time.Minute, webhook.RetryDelay(0))
		assert.Equal(t, 5*time.Minute, webhook.RetryDelay(-1))
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", webhook.Truncate("abc", 5))
	assert.Equal(t, "abcde", webhook.Truncate("abcdefgh", 5))
	assert.Equal(t, "", webhook.Truncate("", 5))
}
