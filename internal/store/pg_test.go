package store_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/parentshield/notifier/internal/domain"
	"github.com/parentshield/notifier/internal/store"
	"github.com/parentshield/notifier/internal/store/schema"
)

func newTestStore(t *testing.T) (store.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return store.NewPGStore(gormDB), mock
}

func subscriptionColumns() []string {
	return []string{"id", "owner_id", "url", "secret", "events", "is_active", "description", "created_at", "updated_at"}
}

func deliveryColumns() []string {
	return []string{
		"id", "subscription_id", "event_id", "event_type", "payload",
		"response_status", "response_body", "error_message",
		"attempts", "max_attempts", "next_retry_at", "delivered_at",
		"created_at", "updated_at",
	}
}

func TestGetSubscriptionNotFound(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectQuery(`SELECT \* FROM "webhook_subscriptions" WHERE id = \$1`).
		WillReturnError(sql.ErrNoRows)

	sub, err := st.GetSubscription(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, sub)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetOwnedSubscriptionScopesByOwner(t *testing.T) {
	st, mock := newTestStore(t)

	now := time.Now()
	rows := sqlmock.NewRows(subscriptionColumns()).
		AddRow("sub-1", "owner-1", "https://example.com/hook", "secret", []byte(`["alert.created"]`), true, nil, now, now)

	mock.ExpectQuery(`SELECT \* FROM "webhook_subscriptions" WHERE id = \$1 AND owner_id = \$2`).
		WillReturnRows(rows)

	sub, err := st.GetOwnedSubscription(context.Background(), "owner-1", "sub-1")
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, "sub-1", sub.ID)
	assert.Equal(t, "owner-1", sub.OwnerID)
	assert.True(t, sub.WantsEvent(domain.EventAlertCreated))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActiveSubscriptionsByEventUsesContainment(t *testing.T) {
	st, mock := newTestStore(t)

	now := time.Now()
	rows := sqlmock.NewRows(subscriptionColumns()).
		AddRow("sub-1", "owner-1", "https://example.com/hook", "secret", []byte(`["alert.created","device.offline"]`), true, nil, now, now)

	mock.ExpectQuery(`SELECT \* FROM "webhook_subscriptions" WHERE owner_id = \$1 AND is_active = \$2 AND events @> \$3::jsonb ORDER BY created_at ASC`).
		WithArgs("owner-1", true, `["alert.created"]`).
		WillReturnRows(rows)

	subs, err := st.GetActiveSubscriptionsByEvent(context.Background(), "owner-1", domain.EventAlertCreated)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "sub-1", subs[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The UPDATE's SET clause never names the secret column, so the signing key
// is immutable after creation.
func TestUpdateSubscriptionExcludesSecret(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "webhook_subscriptions" SET "description"=\$1,"events"=\$2,"is_active"=\$3,"updated_at"=\$4,"url"=\$5 WHERE id = \$6`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	desc := "renamed"
	err := st.UpdateSubscription(context.Background(), &schema.WebhookSubscription{
		ID:          "sub-1",
		URL:         "https://example.com/hook",
		Events:      []byte(`["alert.created"]`),
		IsActive:    false,
		Description: &desc,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSubscriptionRemovesDeliveries(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "webhook_subscriptions" WHERE id = \$1 AND owner_id = \$2`).
		WithArgs("sub-1", "owner-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "webhook_deliveries" WHERE subscription_id = \$1`).
		WithArgs("sub-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	deleted, err := st.DeleteSubscription(context.Background(), "owner-1", "sub-1")
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteSubscriptionNotFound(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "webhook_subscriptions" WHERE id = \$1 AND owner_id = \$2`).
		WithArgs("sub-1", "other-owner").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := st.DeleteSubscription(context.Background(), "other-owner", "sub-1")
	assert.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// next_retry_at must be written even when nil so a terminal outcome clears
// any previously scheduled retry.
func TestUpdateDeliveryOutcomeWritesNullSchedule(t *testing.T) {
	st, mock := newTestStore(t)

	status := 500

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "webhook_deliveries" SET "attempts"=\$1,"error_message"=\$2,"next_retry_at"=\$3,"response_body"=\$4,"response_status"=\$5,"updated_at"=\$6 WHERE id = \$7`).
		WithArgs(3, nil, nil, "server error", status, sqlmock.AnyArg(), "del-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := st.UpdateDeliveryOutcome(context.Background(), "del-1", store.DeliveryOutcome{
		Attempts:       3,
		ResponseStatus: &status,
		ResponseBody:   "server error",
		NextRetryAt:    nil,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeliveryOutcomeIncludesDeliveredAt(t *testing.T) {
	st, mock := newTestStore(t)

	status := 200
	deliveredAt := time.Now()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "webhook_deliveries" SET "attempts"=\$1,"delivered_at"=\$2,"error_message"=\$3,"next_retry_at"=\$4,"response_body"=\$5,"response_status"=\$6,"updated_at"=\$7 WHERE id = \$8`).
		WithArgs(1, deliveredAt, nil, nil, "ok", status, sqlmock.AnyArg(), "del-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := st.UpdateDeliveryOutcome(context.Background(), "del-1", store.DeliveryOutcome{
		Attempts:       1,
		ResponseStatus: &status,
		ResponseBody:   "ok",
		DeliveredAt:    &deliveredAt,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDeliveryOutcomeMissingRow(t *testing.T) {
	st, mock := newTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "webhook_deliveries" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := st.UpdateDeliveryOutcome(context.Background(), "gone", store.DeliveryOutcome{Attempts: 1})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetDueDeliveriesPredicate(t *testing.T) {
	st, mock := newTestStore(t)

	now := time.Now()
	due := now.Add(-time.Minute)
	rows := sqlmock.NewRows(deliveryColumns()).
		AddRow("del-1", "sub-1", "event-1", "alert.created", []byte(`{}`),
			500, "server error", nil, 1, 3, due, nil, now, now)

	mock.ExpectQuery(`SELECT \* FROM "webhook_deliveries" WHERE delivered_at IS NULL AND attempts < max_attempts AND next_retry_at IS NOT NULL AND next_retry_at <= \$1 ORDER BY next_retry_at ASC LIMIT \$2`).
		WillReturnRows(rows)

	deliveries, err := st.GetDueDeliveries(context.Background(), now, 100)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.Equal(t, "del-1", deliveries[0].ID)
	assert.True(t, deliveries[0].CanRetry())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListDeliveriesPagination(t *testing.T) {
	st, mock := newTestStore(t)

	now := time.Now()
	rows := sqlmock.NewRows(deliveryColumns()).
		AddRow("del-2", "sub-1", "event-2", "alert.created", []byte(`{}`),
			200, "", nil, 1, 3, nil, now, now, now)

	mock.ExpectQuery(`SELECT \* FROM "webhook_deliveries" WHERE subscription_id = \$1 ORDER BY created_at DESC LIMIT \$2 OFFSET \$3`).
		WillReturnRows(rows)

	deliveries, err := st.ListDeliveries(context.Background(), "sub-1", 50, 10)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)
	assert.True(t, deliveries[0].IsSuccessful())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNormalizeConnectionPoolSettings(t *testing.T) {
	tests := []struct {
		name            string
		maxOpen         int
		maxIdle         int
		wantOpen        int
		wantIdle        int
		lifetime        time.Duration
		idleTime        time.Duration
		wantLifetime    time.Duration
		wantIdleTimeout time.Duration
	}{
		{
			name:            "defaults when zero",
			wantOpen:        20,
			wantIdle:        5,
			wantLifetime:    5 * time.Minute,
			wantIdleTimeout: 10 * time.Minute,
		},
		{
			name:            "idle clamped to open",
			maxOpen:         4,
			maxIdle:         10,
			wantOpen:        4,
			wantIdle:        4,
			wantLifetime:    5 * time.Minute,
			wantIdleTimeout: 10 * time.Minute,
		},
		{
			name:            "explicit values kept",
			maxOpen:         50,
			maxIdle:         10,
			lifetime:        time.Hour,
			idleTime:        30 * time.Minute,
			wantOpen:        50,
			wantIdle:        10,
			wantLifetime:    time.Hour,
			wantIdleTimeout: 30 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			open, idle, lifetime, idleTimeout := store.NormalizeConnectionPoolSettings(tt.maxOpen, tt.maxIdle, tt.lifetime, tt.idleTime)
			assert.Equal(t, tt.wantOpen, open)
			assert.Equal(t, tt.wantIdle, idle)
			assert.Equal(t, tt.wantLifetime, lifetime)
			assert.Equal(t, tt.wantIdleTimeout, idleTimeout)
		})
	}
}
