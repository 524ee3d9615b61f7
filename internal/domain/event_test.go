package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/parentshield/notifier/internal/domain"
)

func TestEventTypeValid(t *testing.T) {
	t.Run("all supported event types are valid", func(t *testing.T) {
		for _, eventType := range domain.SupportedEventTypes {
			assert.True(t, eventType.Valid(), "expected %s to be valid", eventType)
			assert.NotEmpty(t, eventType.Description())
		}
	})

	t.Run("unknown tags are invalid", func(t *testing.T) {
		assert.False(t, domain.EventType("alert.unknown").Valid())
		assert.False(t, domain.EventType("").Valid())
		assert.False(t, domain.EventType("ALERT.CREATED").Valid())
	})
}

func TestValidateEventTypes(t *testing.T) {
	t.Run("accepts known tags", func(t *testing.T) {
		invalid := domain.ValidateEventTypes([]string{"alert.created", "device.offline"})
		assert.Empty(t, invalid)
	})

	t.Run("collects unknown tags", func(t *testing.T) {
		invalid := domain.ValidateEventTypes([]string{"alert.created", "bogus", "nope"})
		assert.Equal(t, []string{"bogus", "nope"}, invalid)
	})
}
