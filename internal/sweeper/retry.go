package sweeper

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/parentshield/notifier/internal/adapter"
	"github.com/parentshield/notifier/internal/logger"
	"github.com/parentshield/notifier/internal/store"
	"github.com/parentshield/notifier/internal/store/schema"
	"github.com/parentshield/notifier/internal/webhook"
)

const (
	DEFAULT_POLL_INTERVAL = 1 * time.Minute // Time to sleep between sweep cycles
)

// RetrySweeperConfig holds configuration for the retry sweeper
type RetrySweeperConfig struct {
	BatchSize      int           // Due deliveries to re-attempt per cycle
	WorkerPoolSize int           // Concurrent workers
	PollInterval   time.Duration // Time to sleep between cycles
}

// retrySweeper implements the Sweeper interface for webhook delivery retries.
// Each cycle selects deliveries whose next_retry_at has passed and re-runs
// the attempt path concurrently. Duplicate windows with fresh triggers are
// acceptable: delivery is at-least-once.
type retrySweeper struct {
	config    *RetrySweeperConfig
	store     store.Store
	attempter *webhook.Attempter
	clock     adapter.Clock
	pool      pond.Pool
	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewRetrySweeper creates a new webhook retry sweeper
func NewRetrySweeper(
	config *RetrySweeperConfig,
	st store.Store,
	attempter *webhook.Attempter,
	clock adapter.Clock,
) Sweeper {
	if config.PollInterval == 0 {
		config.PollInterval = DEFAULT_POLL_INTERVAL
	}
	return &retrySweeper{
		config:    config,
		store:     st,
		attempter: attempter,
		clock:     clock,
		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the sweeper's name
func (s *retrySweeper) Name() string {
	return "webhook-retry-sweeper"
}

// Start begins the sweeper's main loop
func (s *retrySweeper) Start(ctx context.Context) error {
	if !s.running.CompareAndSwap(false, true) {
		return fmt.Errorf("sweeper already running")
	}
	defer func() {
		s.running.Store(false)
		close(s.stoppedCh) // Signal that we've stopped
	}()

	logger.InfoCtx(ctx, "Starting webhook retry sweeper",
		zap.Int("batch_size", s.config.BatchSize),
		zap.Int("worker_pool_size", s.config.WorkerPoolSize),
		zap.Duration("poll_interval", s.config.PollInterval),
	)

	// Create worker pool
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.BatchSize),
		pond.WithContext(ctx),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Webhook retry sweeper stopping due to context cancellation", zap.Error(ctx.Err()))
			s.cleanup()
			return nil
		case <-s.stopChan:
			logger.InfoCtx(ctx, "Webhook retry sweeper stop requested")
			s.cleanup()
			return nil
		default:
			if err := s.runSweepCycle(ctx); err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.ErrorCtx(ctx, err)
				}
			}
		}
	}
}

// cleanup stops the worker pool and waits for tasks to complete
func (s *retrySweeper) cleanup() {
	if s.pool != nil {
		s.pool.StopAndWait()
	}
}

// Stop gracefully stops the sweeper with timeout support
func (s *retrySweeper) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil // Already stopped
	}

	logger.InfoCtx(ctx, "Stopping webhook retry sweeper")

	// Signal stop to the main loop
	close(s.stopChan)

	// Wait for main loop to exit, but respect context cancellation
	select {
	case <-s.stoppedCh:
		logger.InfoCtx(ctx, "Webhook retry sweeper stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Webhook retry sweeper stop interrupted by context timeout")
		return ctx.Err()
	}
}

// runSweepCycle runs a single sweep cycle
func (s *retrySweeper) runSweepCycle(ctx context.Context) error {
	startTime := s.clock.Now()

	// No locking: a delivery still inside its timeout window is never due,
	// because next_retry_at is only set after the prior attempt completed
	due, err := s.store.GetDueDeliveries(ctx, s.clock.Now(), s.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get due deliveries: %w", err)
	}

	if len(due) == 0 {
		if !s.sleep(ctx, s.config.PollInterval) {
			return ctx.Err() // Context canceled during sleep
		}
		return nil
	}

	logger.InfoCtx(ctx, "Found due deliveries to retry", zap.Int("count", len(due)))

	var deliveredCount, failedCount, abandonedCount atomic.Int32

	// Submit all retries to the worker pool; one hanging endpoint only
	// costs its own timeout, never the rest of the batch
	for _, delivery := range due {
		s.pool.Submit(func() {
			s.retryDelivery(ctx, delivery, &deliveredCount, &failedCount, &abandonedCount)
		})
	}

	// Wait for all retries to complete
	s.pool.StopAndWait()

	// Recreate pool for next cycle
	s.pool = pond.NewPool(
		s.config.WorkerPoolSize,
		pond.WithQueueSize(s.config.BatchSize),
		pond.WithContext(ctx),
	)

	duration := s.clock.Since(startTime)
	logger.InfoCtx(ctx, "Sweep cycle completed",
		zap.Duration("duration", duration),
		zap.Int("total_due", len(due)),
		zap.Int32("delivered", deliveredCount.Load()),
		zap.Int32("failed", failedCount.Load()),
		zap.Int32("abandoned", abandonedCount.Load()),
	)

	if !s.sleep(ctx, s.config.PollInterval) {
		return ctx.Err() // Context canceled during sleep
	}

	return nil
}

// sleep sleeps for the given duration but can be interrupted by context cancellation
// Returns true if sleep completed normally, false if interrupted by context
func (s *retrySweeper) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-s.clock.After(duration):
		return true // Sleep completed
	case <-ctx.Done():
		return false // Interrupted by context cancellation
	case <-s.stopChan:
		return false // Interrupted by stop signal
	}
}

// retryDelivery re-attempts a single due delivery
func (s *retrySweeper) retryDelivery(ctx context.Context, delivery *schema.WebhookDelivery, deliveredCount, failedCount, abandonedCount *atomic.Int32) {
	sub, err := s.store.GetSubscription(ctx, delivery.SubscriptionID)
	if err != nil {
		logger.ErrorCtx(ctx, err, zap.String("delivery_id", delivery.ID))
		failedCount.Add(1)
		return
	}

	// The subscription was deleted or deactivated after this delivery was
	// scheduled: mark the row terminal so it is never selected again
	if sub == nil || !sub.IsActive {
		if err := s.abandonDelivery(ctx, delivery, sub == nil); err != nil {
			logger.ErrorCtx(ctx, err, zap.String("delivery_id", delivery.ID))
			failedCount.Add(1)
			return
		}
		abandonedCount.Add(1)
		return
	}

	outcome := s.attempter.Attempt(ctx, sub, delivery, delivery.Attempts+1)
	if outcome.DeliveredAt != nil {
		deliveredCount.Add(1)
	} else {
		failedCount.Add(1)
	}
}

// abandonDelivery terminally marks a delivery whose subscription is gone,
// preserving the last recorded response for the audit trail
func (s *retrySweeper) abandonDelivery(ctx context.Context, delivery *schema.WebhookDelivery, deleted bool) error {
	reason := "subscription is inactive; delivery abandoned"
	if deleted {
		reason = "subscription no longer exists; delivery abandoned"
	}
	return s.store.UpdateDeliveryOutcome(ctx, delivery.ID, store.DeliveryOutcome{
		Attempts:       delivery.Attempts,
		ResponseStatus: delivery.ResponseStatus,
		ResponseBody:   delivery.ResponseBody,
		ErrorMessage:   reason,
		NextRetryAt:    nil,
	})
}
