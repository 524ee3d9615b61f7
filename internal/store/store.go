package store

import (
	"context"
	"time"

	"github.com/parentshield/notifier/internal/domain"
	"github.com/parentshield/notifier/internal/store/schema"
)

// DeliveryOutcome captures the result of one delivery attempt. It is
// applied to the delivery row as a single atomic update.
type DeliveryOutcome struct {
	// Attempts is the attempt counter after this attempt
	Attempts int
	// ResponseStatus is the HTTP status code, nil when no response was received
	ResponseStatus *int
	// ResponseBody is the truncated response body
	ResponseBody string
	// ErrorMessage is the truncated transport error, empty when a response
	// was received
	ErrorMessage string
	// DeliveredAt is set when the attempt succeeded
	DeliveredAt *time.Time
	// NextRetryAt schedules the next sweep re-attempt; nil clears the
	// schedule (success or terminal failure)
	NextRetryAt *time.Time
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// CreateSubscription persists a new webhook subscription
	CreateSubscription(ctx context.Context, sub *schema.WebhookSubscription) error
	// GetSubscription retrieves a subscription by id regardless of owner
	// (used by the sweeper); returns nil when not found
	GetSubscription(ctx context.Context, id string) (*schema.WebhookSubscription, error)
	// GetOwnedSubscription retrieves a subscription scoped to its owner;
	// returns nil when not found or owned by someone else
	GetOwnedSubscription(ctx context.Context, ownerID, id string) (*schema.WebhookSubscription, error)
	// ListSubscriptions retrieves all subscriptions for an owner, newest first
	ListSubscriptions(ctx context.Context, ownerID string) ([]*schema.WebhookSubscription, error)
	// UpdateSubscription persists changes to url/events/is_active/description.
	// The secret is immutable and never written by updates.
	UpdateSubscription(ctx context.Context, sub *schema.WebhookSubscription) error
	// DeleteSubscription removes an owner's subscription and, by cascade,
	// its deliveries; reports whether a row was deleted
	DeleteSubscription(ctx context.Context, ownerID, id string) (bool, error)
	// GetActiveSubscriptionsByEvent retrieves an owner's active
	// subscriptions whose event filter contains the event type
	GetActiveSubscriptionsByEvent(ctx context.Context, ownerID string, eventType domain.EventType) ([]*schema.WebhookSubscription, error)

	// CreateDelivery persists a new delivery record
	CreateDelivery(ctx context.Context, delivery *schema.WebhookDelivery) error
	// UpdateDeliveryOutcome applies an attempt outcome to a delivery row
	UpdateDeliveryOutcome(ctx context.Context, deliveryID string, outcome DeliveryOutcome) error
	// ListDeliveries retrieves a page of a subscription's deliveries,
	// newest first
	ListDeliveries(ctx context.Context, subscriptionID string, limit, offset int) ([]*schema.WebhookDelivery, error)
	// GetDueDeliveries retrieves deliveries that are due for a retry:
	// not delivered, below the attempt ceiling, and next_retry_at <= now
	GetDueDeliveries(ctx context.Context, now time.Time, limit int) ([]*schema.WebhookDelivery, error)

	// CreateAlert persists a device alert
	CreateAlert(ctx context.Context, alert *schema.Alert) error
}
