package schema

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/parentshield/notifier/internal/domain"
)

// WebhookSubscription represents the webhook_subscriptions table - a
// registered webhook endpoint owned by one account
type WebhookSubscription struct {
	// ID is the subscription identifier (UUID)
	ID string `gorm:"column:id;primaryKey;type:varchar(36)"`
	// OwnerID is the account that owns this subscription
	OwnerID string `gorm:"column:owner_id;not null;index;type:varchar(36)"`
	// URL is the endpoint where webhook events will be delivered
	URL string `gorm:"column:url;not null;type:text"`
	// Secret is the key used for HMAC-SHA256 signature generation.
	// It is generated once at creation, returned only in the creation
	// response, and never updated afterwards.
	Secret string `gorm:"column:secret;not null;type:text"`
	// Events is a JSON array of event types this subscription wants
	// delivered, e.g. ["alert.created", "device.offline"]
	Events datatypes.JSON `gorm:"column:events;not null;type:jsonb"`
	// IsActive indicates whether this subscription should receive deliveries
	IsActive bool `gorm:"column:is_active;not null;default:true"`
	// Description is an optional human-readable label
	Description *string `gorm:"column:description;type:varchar(255)"`
	// CreatedAt is the timestamp when this subscription was registered
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
	// UpdatedAt is the timestamp when this subscription was last updated
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`

	// Deliveries are removed together with the subscription
	Deliveries []WebhookDelivery `gorm:"foreignKey:SubscriptionID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for the WebhookSubscription model
func (WebhookSubscription) TableName() string {
	return "webhook_subscriptions"
}

// EventTypes decodes the stored event filter into typed tags
func (s *WebhookSubscription) EventTypes() []domain.EventType {
	var tags []string
	if err := json.Unmarshal(s.Events, &tags); err != nil {
		return nil
	}
	events := make([]domain.EventType, 0, len(tags))
	for _, tag := range tags {
		events = append(events, domain.EventType(tag))
	}
	return events
}

// WantsEvent reports whether the event type is in the subscription's filter
func (s *WebhookSubscription) WantsEvent(eventType domain.EventType) bool {
	for _, e := range s.EventTypes() {
		if e == eventType {
			return true
		}
	}
	return false
}
