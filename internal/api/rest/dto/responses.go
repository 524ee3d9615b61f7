package dto

import (
	"time"

	"github.com/parentshield/notifier/internal/domain"
	"github.com/parentshield/notifier/internal/store/schema"
)

// WebhookResponse is the subscription view returned by list/detail
// endpoints. The secret is deliberately absent.
type WebhookResponse struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Events      []string  `json:"events"`
	IsActive    bool      `json:"is_active"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// WebhookCreatedResponse is returned once, at creation. It is the only
// place the signing secret is ever exposed.
type WebhookCreatedResponse struct {
	WebhookResponse
	Secret string `json:"secret"`
}

// EventTypeInfo describes one entry of the event-type catalog
type EventTypeInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// DeliveryResponse is the minimal audit projection of a delivery record:
// no payload, no secret
type DeliveryResponse struct {
	ID             string     `json:"id"`
	EventType      string     `json:"event_type"`
	ResponseStatus *int       `json:"response_status,omitempty"`
	ErrorMessage   *string    `json:"error_message,omitempty"`
	Attempts       int        `json:"attempts"`
	MaxAttempts    int        `json:"max_attempts"`
	NextRetryAt    *time.Time `json:"next_retry_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// TestWebhookResponse is the synchronous result of a test fire
type TestWebhookResponse struct {
	Success        bool    `json:"success"`
	DeliveryID     string  `json:"delivery_id"`
	ResponseStatus *int    `json:"response_status,omitempty"`
	ErrorMessage   *string `json:"error_message,omitempty"`
}

// AlertResponse is returned after recording a device alert
type AlertResponse struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	DeviceID  *string   `json:"device_id,omitempty"`
	AlertType string    `json:"alert_type"`
	Severity  string    `json:"severity"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// NewWebhookResponse maps a subscription row to its API view
func NewWebhookResponse(sub *schema.WebhookSubscription) WebhookResponse {
	events := sub.EventTypes()
	tags := make([]string, 0, len(events))
	for _, event := range events {
		tags = append(tags, event.String())
	}
	return WebhookResponse{
		ID:          sub.ID,
		URL:         sub.URL,
		Events:      tags,
		IsActive:    sub.IsActive,
		Description: sub.Description,
		CreatedAt:   sub.CreatedAt,
		UpdatedAt:   sub.UpdatedAt,
	}
}

// NewDeliveryResponse maps a delivery row to its audit projection
func NewDeliveryResponse(delivery *schema.WebhookDelivery) DeliveryResponse {
	return DeliveryResponse{
		ID:             delivery.ID,
		EventType:      delivery.EventType,
		ResponseStatus: delivery.ResponseStatus,
		ErrorMessage:   delivery.ErrorMessage,
		Attempts:       delivery.Attempts,
		MaxAttempts:    delivery.MaxAttempts,
		NextRetryAt:    delivery.NextRetryAt,
		DeliveredAt:    delivery.DeliveredAt,
		CreatedAt:      delivery.CreatedAt,
	}
}

// NewEventTypeCatalog builds the catalog listing from the closed vocabulary
func NewEventTypeCatalog() []EventTypeInfo {
	catalog := make([]EventTypeInfo, 0, len(domain.SupportedEventTypes))
	for _, event := range domain.SupportedEventTypes {
		catalog = append(catalog, EventTypeInfo{
			ID:          event.String(),
			Description: event.Description(),
		})
	}
	return catalog
}
