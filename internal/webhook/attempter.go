package webhook

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/parentshield/notifier/internal/adapter"
	"github.com/parentshield/notifier/internal/logger"
	"github.com/parentshield/notifier/internal/store"
	"github.com/parentshield/notifier/internal/store/schema"
)

// Attempter performs a single delivery attempt: sign, POST, classify,
// persist. Failures are data on the delivery row, never errors raised to
// the caller.
type Attempter struct {
	store   store.Store
	client  adapter.HTTPClient
	clock   adapter.Clock
	timeout time.Duration
}

// NewAttempter creates a delivery attempter. timeout bounds each outbound
// call; zero falls back to 10 seconds.
func NewAttempter(st store.Store, client adapter.HTTPClient, clock adapter.Clock, timeout time.Duration) *Attempter {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Attempter{
		store:   st,
		client:  client,
		clock:   clock,
		timeout: timeout,
	}
}

// Attempt signs the delivery's stored payload bytes, POSTs them to the
// subscription endpoint, classifies the result, and persists the outcome
// before returning. The returned outcome always reflects the persisted
// state. attemptNumber is the counter after this attempt (1 on the first).
func (a *Attempter) Attempt(ctx context.Context, sub *schema.WebhookSubscription, delivery *schema.WebhookDelivery, attemptNumber int) store.DeliveryOutcome {
	outcome := a.execute(ctx, sub, delivery, attemptNumber)
	a.persistOutcome(ctx, delivery.ID, outcome)
	return outcome
}

// execute runs the network attempt and classifies it. Panics inside the
// attempt path are recovered into a failure outcome; nothing raises past
// this boundary.
func (a *Attempter) execute(ctx context.Context, sub *schema.WebhookSubscription, delivery *schema.WebhookDelivery, attemptNumber int) (outcome store.DeliveryOutcome) {
	outcome.Attempts = attemptNumber

	defer func() {
		if r := recover(); r != nil {
			logger.ErrorCtx(ctx, fmt.Errorf("delivery attempt panicked: %v", r),
				zap.String("delivery_id", delivery.ID),
				zap.String("subscription_id", sub.ID),
			)
			outcome.ErrorMessage = Truncate(fmt.Sprintf("internal error: %v", r), MaxErrorMessageBytes)
			outcome.DeliveredAt = nil
			outcome.NextRetryAt = a.scheduleRetry(attemptNumber, delivery.MaxAttempts)
		}
	}()

	headers := map[string]string{
		"Content-Type":   "application/json",
		HeaderSignature:  SignatureHeader(sub.Secret, delivery.Payload),
		HeaderEvent:      delivery.EventType,
		HeaderDeliveryID: delivery.ID,
	}
	if attemptNumber > 1 {
		headers[HeaderRetry] = strconv.Itoa(attemptNumber)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	resp, err := a.client.PostWithHeaders(attemptCtx, sub.URL, headers, delivery.Payload)
	if err != nil {
		outcome.ErrorMessage = Truncate(err.Error(), MaxErrorMessageBytes)
		outcome.NextRetryAt = a.scheduleRetry(attemptNumber, delivery.MaxAttempts)
		return outcome
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	status := resp.StatusCode
	outcome.ResponseStatus = &status

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBodyBytes))
	if readErr == nil {
		outcome.ResponseBody = string(body)
	}

	if status >= 200 && status < 300 {
		deliveredAt := a.clock.Now()
		outcome.DeliveredAt = &deliveredAt
		outcome.NextRetryAt = nil
		return outcome
	}

	outcome.NextRetryAt = a.scheduleRetry(attemptNumber, delivery.MaxAttempts)
	return outcome
}

// scheduleRetry computes the next retry time after a failed attempt, or nil
// when the ceiling is reached (terminal failure)
func (a *Attempter) scheduleRetry(attemptsMade, maxAttempts int) *time.Time {
	if attemptsMade >= maxAttempts {
		return nil
	}
	next := a.clock.Now().Add(RetryDelay(attemptsMade))
	return &next
}

// persistOutcome writes the attempt outcome with exponential backoff retry
// so a transient database blip does not lose the audit row
func (a *Attempter) persistOutcome(ctx context.Context, deliveryID string, outcome store.DeliveryOutcome) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.MaxElapsedTime = 10 * time.Second
	b.Multiplier = 2.0

	operation := func() error {
		return a.store.UpdateDeliveryOutcome(ctx, deliveryID, outcome)
	}

	notifyOnError := func(err error, duration time.Duration) {
		logger.WarnCtx(ctx, "Delivery outcome persist failed, retrying",
			zap.Error(err),
			zap.String("delivery_id", deliveryID),
			zap.Duration("next_retry_in", duration),
		)
	}

	if err := backoff.RetryNotify(operation, backoff.WithContext(b, ctx), notifyOnError); err != nil {
		logger.ErrorCtx(ctx, fmt.Errorf("failed to persist delivery outcome after retries: %w", err),
			zap.String("delivery_id", deliveryID),
		)
	}
}
