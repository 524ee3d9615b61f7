package webhook

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gowebpki/jcs"

	"github.com/parentshield/notifier/internal/domain"
)

// BuildEnvelope merges the caller payload with the event metadata fields
// and returns the canonical JSON bytes (RFC 8785) that will be signed,
// stored, and transmitted. Envelope keys win on collision: a caller payload
// must not be able to shadow event, subscription_id, or timestamp.
// Canonicalization makes the serialize-once bytes deterministic, so a
// stored payload always re-verifies against its signature.
func BuildEnvelope(eventType domain.EventType, subscriptionID string, at time.Time, payload map[string]interface{}) ([]byte, error) {
	envelope := make(map[string]interface{}, len(payload)+3)
	for k, v := range payload {
		envelope[k] = v
	}
	envelope["event"] = string(eventType)
	envelope["subscription_id"] = subscriptionID
	envelope["timestamp"] = at.UTC().Format(time.RFC3339)

	raw, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal envelope: %w", err)
	}

	canonical, err := jcs.Transform(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to canonicalize envelope: %w", err)
	}
	return canonical, nil
}
