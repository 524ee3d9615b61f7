package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignaturePrefix identifies the signature algorithm in the header value
const SignaturePrefix = "sha256="

// Sign computes the hex HMAC-SHA256 signature of payload using secret.
// The payload must be the exact byte sequence that will be transmitted:
// the receiver verifies against the bytes it received, not a re-serialized
// form. Pure function; the secret is never logged.
func Sign(secret string, payload []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// SignatureHeader formats the signature header value: "sha256=<hex>"
func SignatureHeader(secret string, payload []byte) string {
	return SignaturePrefix + Sign(secret, payload)
}
