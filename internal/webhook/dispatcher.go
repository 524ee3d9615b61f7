package webhook

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/parentshield/notifier/internal/adapter"
	"github.com/parentshield/notifier/internal/domain"
	"github.com/parentshield/notifier/internal/logger"
	"github.com/parentshield/notifier/internal/store"
	"github.com/parentshield/notifier/internal/store/schema"
)

// Dispatcher fans an event out to every matching subscription. Nothing
// raises past Trigger: delivery failures are recorded on their rows, and
// business actions that fire events never block on delivery outcomes.
type Dispatcher struct {
	store     store.Store
	attempter *Attempter
	clock     adapter.Clock

	// fanout runs per-subscription delivery attempts; detached runs
	// fire-and-forget trigger wrappers. Separate pools so a burst of
	// detached triggers cannot starve the workers their fan-out needs.
	fanout   pond.Pool
	detached pond.Pool
}

// NewDispatcher creates a dispatcher with the given fan-out worker count
func NewDispatcher(st store.Store, attempter *Attempter, clock adapter.Clock, workers int) *Dispatcher {
	if workers <= 0 {
		workers = 10
	}
	return &Dispatcher{
		store:     st,
		attempter: attempter,
		clock:     clock,
		fanout:    pond.NewPool(workers),
		detached:  pond.NewPool(workers),
	}
}

// Stop drains both worker pools, waiting for in-flight deliveries
func (d *Dispatcher) Stop() {
	d.detached.StopAndWait()
	d.fanout.StopAndWait()
}

// Trigger delivers an event to every active subscription of the owner
// whose filter contains the event type. One delivery row is persisted per
// match, first attempt applied. Attempts to distinct subscriptions run
// concurrently; one failure or hang never affects the others.
func (d *Dispatcher) Trigger(ctx context.Context, ownerID string, eventType domain.EventType, payload map[string]interface{}) ([]*schema.WebhookDelivery, error) {
	if !eventType.Valid() {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	subs, err := d.store.GetActiveSubscriptionsByEvent(ctx, ownerID, eventType)
	if err != nil {
		return nil, fmt.Errorf("failed to match subscriptions: %w", err)
	}
	if len(subs) == 0 {
		return []*schema.WebhookDelivery{}, nil
	}

	// One event ID per trigger so the fanned-out rows are correlatable
	eventID := ulid.Make().String()

	results := make([]*schema.WebhookDelivery, len(subs))
	group := d.fanout.NewGroup()
	for i, sub := range subs {
		group.Submit(func() {
			results[i] = d.deliverOne(ctx, sub, eventID, eventType, payload)
		})
	}
	_ = group.Wait()

	deliveries := make([]*schema.WebhookDelivery, 0, len(subs))
	for _, delivery := range results {
		if delivery != nil {
			deliveries = append(deliveries, delivery)
		}
	}
	return deliveries, nil
}

// TriggerDetached submits Trigger as fire-and-forget work with its own
// error boundary and returns immediately. Business actions (alert
// recording) call this so delivery never blocks or fails them. The work
// carries its own context: it outlives the request that triggered it.
func (d *Dispatcher) TriggerDetached(ownerID string, eventType domain.EventType, payload map[string]interface{}) {
	d.detached.Submit(func() {
		ctx := context.Background()
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorCtx(ctx, fmt.Errorf("detached trigger panicked: %v", r),
					zap.String("owner_id", ownerID),
					zap.String("event_type", string(eventType)),
				)
			}
		}()

		if _, err := d.Trigger(ctx, ownerID, eventType, payload); err != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("detached trigger failed: %w", err),
				zap.String("owner_id", ownerID),
				zap.String("event_type", string(eventType)),
			)
		}
	})
}

// SendTest fires a synthetic test event at one subscription, bypassing the
// event-filter matching, and returns the persisted delivery so the caller
// can inspect the outcome synchronously.
func (d *Dispatcher) SendTest(ctx context.Context, sub *schema.WebhookSubscription) (*schema.WebhookDelivery, error) {
	name := "Unnamed webhook"
	if sub.Description != nil && *sub.Description != "" {
		name = *sub.Description
	}
	payload := map[string]interface{}{
		"message":      "This is a test webhook from ParentShield",
		"webhook_name": name,
	}

	delivery := d.deliverOne(ctx, sub, ulid.Make().String(), domain.EventTest, payload)
	if delivery == nil {
		return nil, fmt.Errorf("failed to create test delivery")
	}
	return delivery, nil
}

// deliverOne persists a delivery row and runs its first attempt. The row
// is committed before the network call, with next_retry_at pre-set to the
// first backoff slot, so a crash mid-delivery leaves it sweepable instead
// of permanently pending. Returns nil when the row could not be created.
func (d *Dispatcher) deliverOne(ctx context.Context, sub *schema.WebhookSubscription, eventID string, eventType domain.EventType, payload map[string]interface{}) *schema.WebhookDelivery {
	now := d.clock.Now()

	envelope, err := BuildEnvelope(eventType, sub.ID, now, payload)
	if err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to build envelope: %w", err),
			zap.String("subscription_id", sub.ID),
			zap.String("event_type", string(eventType)),
		)
		return nil
	}

	firstRetry := now.Add(RetryDelay(1))
	delivery := &schema.WebhookDelivery{
		ID:             uuid.NewString(),
		SubscriptionID: sub.ID,
		EventID:        eventID,
		EventType:      string(eventType),
		Payload:        datatypes.JSON(envelope),
		Attempts:       0,
		MaxAttempts:    DefaultMaxAttempts,
		NextRetryAt:    &firstRetry,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := d.store.CreateDelivery(ctx, delivery); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to persist delivery: %w", err),
			zap.String("subscription_id", sub.ID),
			zap.String("event_type", string(eventType)),
		)
		return nil
	}

	outcome := d.attempter.Attempt(ctx, sub, delivery, 1)
	applyOutcome(delivery, outcome)
	return delivery
}

// applyOutcome reflects a persisted outcome onto the in-memory row
func applyOutcome(delivery *schema.WebhookDelivery, outcome store.DeliveryOutcome) {
	delivery.Attempts = outcome.Attempts
	delivery.ResponseStatus = outcome.ResponseStatus
	delivery.ResponseBody = outcome.ResponseBody
	if outcome.ErrorMessage != "" {
		msg := outcome.ErrorMessage
		delivery.ErrorMessage = &msg
	} else {
		delivery.ErrorMessage = nil
	}
	delivery.DeliveredAt = outcome.DeliveredAt
	delivery.NextRetryAt = outcome.NextRetryAt
}
