package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/parentshield/notifier/internal/domain"
	"github.com/parentshield/notifier/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the notifier tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.WebhookSubscription{},
		&schema.WebhookDelivery{},
		&schema.Alert{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and clamps pool settings into safe values.
//
// Defaults (when zero):
//   - MaxOpenConns: 20
//   - MaxIdleConns: 5
//   - ConnMaxLifetime: 5 minutes
//   - ConnMaxIdleTime: 10 minutes
//
// Notes:
//   - database/sql treats MaxOpenConns=0 as "unlimited"
//   - database/sql treats MaxIdleConns=0 as "no idle connections"
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	// Set defaults if not provided
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	// Ensure MaxIdleConns doesn't exceed MaxOpenConns
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// CreateSubscription persists a new webhook subscription
func (s *pgStore) CreateSubscription(ctx context.Context, sub *schema.WebhookSubscription) error {
	if err := s.db.WithContext(ctx).Create(sub).Error; err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// GetSubscription retrieves a subscription by id regardless of owner
func (s *pgStore) GetSubscription(ctx context.Context, id string) (*schema.WebhookSubscription, error) {
	var sub schema.WebhookSubscription
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

// GetOwnedSubscription retrieves a subscription scoped to its owner
func (s *pgStore) GetOwnedSubscription(ctx context.Context, ownerID, id string) (*schema.WebhookSubscription, error) {
	var sub schema.WebhookSubscription
	err := s.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

// ListSubscriptions retrieves all subscriptions for an owner, newest first
func (s *pgStore) ListSubscriptions(ctx context.Context, ownerID string) ([]*schema.WebhookSubscription, error) {
	var subs []*schema.WebhookSubscription
	err := s.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

// UpdateSubscription persists changes to the mutable subscription fields.
// The secret column is excluded so it can never change after creation.
func (s *pgStore) UpdateSubscription(ctx context.Context, sub *schema.WebhookSubscription) error {
	err := s.db.WithContext(ctx).
		Model(&schema.WebhookSubscription{}).
		Where("id = ?", sub.ID).
		Updates(map[string]interface{}{
			"url":         sub.URL,
			"events":      sub.Events,
			"is_active":   sub.IsActive,
			"description": sub.Description,
			"updated_at":  time.Now(),
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	return nil
}

// DeleteSubscription removes an owner's subscription and its deliveries.
// Both deletes run in one transaction so no orphan delivery rows survive
// on databases where the cascade constraint is absent.
func (s *pgStore) DeleteSubscription(ctx context.Context, ownerID, id string) (bool, error) {
	var deleted bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.
			Where("id = ? AND owner_id = ?", id, ownerID).
			Delete(&schema.WebhookSubscription{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.
			Where("subscription_id = ?", id).
			Delete(&schema.WebhookDelivery{}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete subscription: %w", err)
	}
	return deleted, nil
}

// GetActiveSubscriptionsByEvent retrieves an owner's active subscriptions
// whose jsonb event filter contains the event type
func (s *pgStore) GetActiveSubscriptionsByEvent(ctx context.Context, ownerID string, eventType domain.EventType) ([]*schema.WebhookSubscription, error) {
	var subs []*schema.WebhookSubscription
	filter := fmt.Sprintf(`["%s"]`, eventType)
	err := s.db.WithContext(ctx).
		Where("owner_id = ? AND is_active = ? AND events @> ?::jsonb", ownerID, true, filter).
		Order("created_at ASC").
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get subscriptions by event: %w", err)
	}
	return subs, nil
}

// CreateDelivery persists a new delivery record
func (s *pgStore) CreateDelivery(ctx context.Context, delivery *schema.WebhookDelivery) error {
	if err := s.db.WithContext(ctx).Create(delivery).Error; err != nil {
		return fmt.Errorf("failed to create delivery: %w", err)
	}
	return nil
}

// UpdateDeliveryOutcome applies an attempt outcome to a delivery row as a
// single update. next_retry_at is always written, including to NULL, so a
// stale schedule can never outlive the attempt that resolved it.
func (s *pgStore) UpdateDeliveryOutcome(ctx context.Context, deliveryID string, outcome DeliveryOutcome) error {
	var errorMessage *string
	if outcome.ErrorMessage != "" {
		errorMessage = &outcome.ErrorMessage
	}

	updates := map[string]interface{}{
		"attempts":        outcome.Attempts,
		"response_status": outcome.ResponseStatus,
		"response_body":   outcome.ResponseBody,
		"error_message":   errorMessage,
		"next_retry_at":   outcome.NextRetryAt,
		"updated_at":      time.Now(),
	}
	if outcome.DeliveredAt != nil {
		updates["delivered_at"] = outcome.DeliveredAt
	}

	result := s.db.WithContext(ctx).
		Model(&schema.WebhookDelivery{}).
		Where("id = ?", deliveryID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update delivery outcome: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("delivery %s not found", deliveryID)
	}
	return nil
}

// ListDeliveries retrieves a page of a subscription's deliveries, newest first
func (s *pgStore) ListDeliveries(ctx context.Context, subscriptionID string, limit, offset int) ([]*schema.WebhookDelivery, error) {
	var deliveries []*schema.WebhookDelivery
	err := s.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&deliveries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list deliveries: %w", err)
	}
	return deliveries, nil
}

// GetDueDeliveries retrieves deliveries due for a retry, oldest schedule
// first so starved rows are picked up before fresh ones
func (s *pgStore) GetDueDeliveries(ctx context.Context, now time.Time, limit int) ([]*schema.WebhookDelivery, error) {
	var deliveries []*schema.WebhookDelivery
	err := s.db.WithContext(ctx).
		Where("delivered_at IS NULL AND attempts < max_attempts AND next_retry_at IS NOT NULL AND next_retry_at <= ?", now).
		Order("next_retry_at ASC").
		Limit(limit).
		Find(&deliveries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get due deliveries: %w", err)
	}
	return deliveries, nil
}

// CreateAlert persists a device alert
func (s *pgStore) CreateAlert(ctx context.Context, alert *schema.Alert) error {
	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}
