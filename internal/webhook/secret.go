package webhook

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// NewSecret generates a signing secret: 32 random bytes, hex encoded.
// Returned to the subscription owner exactly once, at creation.
func NewSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
