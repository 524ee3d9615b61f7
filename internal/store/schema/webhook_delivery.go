package schema

import (
	"net/http"
	"time"

	"gorm.io/datatypes"
)

// WebhookDelivery represents the webhook_deliveries table - one audit
// record per event sent to one subscription, covering its full attempt
// history. Rows are created together with the first delivery attempt and
// mutated in place as retries progress; they are never deleted except by
// cascade from subscription deletion.
type WebhookDelivery struct {
	// ID is the delivery identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:varchar(36)"`
	// SubscriptionID is the subscription this delivery is for
	SubscriptionID string `gorm:"column:subscription_id;not null;index;type:varchar(36)"`
	// EventID groups the deliveries fanned out from a single trigger
	// (ULID for time-sortable uniqueness)
	EventID string `gorm:"column:event_id;not null;type:varchar(26)"`
	// EventType is the type of event being delivered
	EventType string `gorm:"column:event_type;not null;type:varchar(50)"`
	// Payload is the exact canonical JSON body sent over the wire,
	// including the envelope fields. Retries re-send these bytes so the
	// signature stays verifiable against the received body.
	Payload datatypes.JSON `gorm:"column:payload;not null;type:jsonb"`
	// ResponseStatus is the HTTP status code from the most recent attempt
	ResponseStatus *int `gorm:"column:response_status"`
	// ResponseBody is the truncated response body from the most recent attempt
	ResponseBody string `gorm:"column:response_body;type:text"`
	// ErrorMessage contains transport error details if the last attempt
	// produced no HTTP response
	ErrorMessage *string `gorm:"column:error_message;type:varchar(500)"`
	// Attempts is the number of delivery attempts made (1 on first attempt)
	Attempts int `gorm:"column:attempts;not null;default:0"`
	// MaxAttempts is the retry ceiling, fixed at creation
	MaxAttempts int `gorm:"column:max_attempts;not null;default:3"`
	// NextRetryAt is when the sweeper should re-attempt this delivery.
	// Null means no retry is scheduled.
	NextRetryAt *time.Time `gorm:"column:next_retry_at;index;type:timestamptz"`
	// DeliveredAt is set once, on the first attempt that returns a 2xx
	DeliveredAt *time.Time `gorm:"column:delivered_at;type:timestamptz"`
	// CreatedAt is the timestamp when this delivery record was created
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this delivery record was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the WebhookDelivery model
func (WebhookDelivery) TableName() string {
	return "webhook_deliveries"
}

// IsSuccessful reports whether the delivery reached the endpoint with a 2xx
func (d *WebhookDelivery) IsSuccessful() bool {
	return d.DeliveredAt != nil &&
		d.ResponseStatus != nil &&
		*d.ResponseStatus >= http.StatusOK &&
		*d.ResponseStatus < http.StatusMultipleChoices
}

// CanRetry reports whether the delivery is retry-eligible in principle:
// not yet delivered and below the attempt ceiling. The sweeper applies the
// next_retry_at <= now filter independently when selecting due rows.
func (d *WebhookDelivery) CanRetry() bool {
	return d.DeliveredAt == nil && d.Attempts < d.MaxAttempts
}
