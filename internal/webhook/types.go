package webhook

// Outbound wire headers. Subscribers verify the signature by computing
// HMAC-SHA256 over the exact received body bytes with the shared secret and
// comparing the hex digest to the value after "sha256=".
const (
	HeaderSignature  = "X-Webhook-Signature"
	HeaderEvent      = "X-Webhook-Event"
	HeaderDeliveryID = "X-Webhook-Delivery-Id"
	HeaderRetry      = "X-Webhook-Retry"
)

const (
	// MaxResponseBodyBytes bounds the stored response body per attempt
	MaxResponseBodyBytes = 1000
	// MaxErrorMessageBytes bounds the stored transport error per attempt
	MaxErrorMessageBytes = 500
)

// Truncate bounds s to at most limit bytes for storage
func Truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
